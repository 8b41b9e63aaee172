package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"skimr/types"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	database, err := Open(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func mustUser(t *testing.T, db *DB, name, email string) *types.User {
	t.Helper()
	u := &types.User{Name: name, Email: email, PasswordHash: "hash"}
	if err := db.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser(%s): %v", email, err)
	}
	return u
}

func TestUsers(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	u := mustUser(t, db, "Ada", "  Ada@Example.com ")
	if u.ID == "" || u.Email != "ada@example.com" {
		t.Fatalf("user = %+v", u)
	}

	byEmail, err := db.GetUserByEmail(ctx, "ADA@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if byEmail.ID != u.ID || byEmail.PasswordHash != "hash" {
		t.Fatalf("byEmail = %+v", byEmail)
	}

	byID, err := db.GetUserByID(ctx, u.ID)
	if err != nil || byID.Name != "Ada" {
		t.Fatalf("GetUserByID = %+v, %v", byID, err)
	}

	if err := db.CreateUser(ctx, &types.User{Name: "Other", Email: "ada@example.com", PasswordHash: "x"}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate email err = %v; want ErrDuplicate", err)
	}
	if _, err := db.GetUserByID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing user err = %v; want ErrNotFound", err)
	}
}

func TestItemsNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	u := mustUser(t, db, "Ada", "ada@example.com")

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, title := range []string{"first", "second", "third"} {
		it := &types.Item{URL: "https://example.com/" + title, Title: title, Summary: "* s", UserID: u.ID, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := db.CreateItem(ctx, it); err != nil {
			t.Fatalf("CreateItem: %v", err)
		}
	}

	items, err := db.ListItemsByUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("ListItemsByUser: %v", err)
	}
	if len(items) != 3 || items[0].Title != "third" || items[2].Title != "first" {
		t.Fatalf("items = %+v", items)
	}
	if !items[0].CreatedAt.Equal(base.Add(2 * time.Minute)) {
		t.Fatalf("CreatedAt = %s", items[0].CreatedAt)
	}

	if err := db.CreateItem(ctx, &types.Item{URL: "u", Title: "t", Summary: "s", UserID: "ghost"}); err == nil {
		t.Fatalf("CreateItem for unknown user should violate the foreign key")
	}
}

func TestFollowsAndFeed(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	ada := mustUser(t, db, "Ada", "ada@example.com")
	bob := mustUser(t, db, "Bob", "bob@example.com")
	cyd := mustUser(t, db, "Cyd", "cyd@example.com")

	follow, err := db.CreateFollow(ctx, ada.ID, bob.ID)
	if err != nil {
		t.Fatalf("CreateFollow: %v", err)
	}
	if _, err := db.CreateFollow(ctx, ada.ID, bob.ID); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("second CreateFollow err = %v; want ErrDuplicate", err)
	}
	got, err := db.GetFollow(ctx, ada.ID, bob.ID)
	if err != nil || got.ID != follow.ID {
		t.Fatalf("GetFollow = %+v, %v", got, err)
	}

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	items := []*types.Item{
		{URL: "b1", Title: "bob old", Summary: "s", UserID: bob.ID, CreatedAt: base},
		{URL: "c1", Title: "cyd", Summary: "s", UserID: cyd.ID, CreatedAt: base.Add(time.Minute)},
		{URL: "b2", Title: "bob new", Summary: "s", UserID: bob.ID, CreatedAt: base.Add(2 * time.Minute)},
		{URL: "a1", Title: "ada", Summary: "s", UserID: ada.ID, CreatedAt: base.Add(3 * time.Minute)},
	}
	for _, it := range items {
		if err := db.CreateItem(ctx, it); err != nil {
			t.Fatalf("CreateItem: %v", err)
		}
	}

	feed, err := db.ListFeed(ctx, ada.ID)
	if err != nil {
		t.Fatalf("ListFeed: %v", err)
	}
	if len(feed) != 2 || feed[0].Title != "bob new" || feed[1].Title != "bob old" {
		t.Fatalf("feed = %+v", feed)
	}
	if feed[0].Author.Name != "Bob" || feed[0].Author.Email != "bob@example.com" {
		t.Fatalf("feed author = %+v", feed[0].Author)
	}

	followers, err := db.ListFollowers(ctx, bob.ID)
	if err != nil || len(followers) != 1 || followers[0].User.ID != ada.ID {
		t.Fatalf("ListFollowers = %+v, %v", followers, err)
	}
	following, err := db.ListFollowing(ctx, ada.ID)
	if err != nil || len(following) != 1 || following[0].User.Name != "Bob" {
		t.Fatalf("ListFollowing = %+v, %v", following, err)
	}

	n, err := db.DeleteFollow(ctx, ada.ID, bob.ID)
	if err != nil || n != 1 {
		t.Fatalf("DeleteFollow = %d, %v", n, err)
	}
	n, err = db.DeleteFollow(ctx, ada.ID, bob.ID)
	if err != nil || n != 0 {
		t.Fatalf("second DeleteFollow = %d, %v; want 0", n, err)
	}
	if _, err := db.GetFollow(ctx, ada.ID, bob.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetFollow after delete err = %v", err)
	}

	feed, err = db.ListFeed(ctx, ada.ID)
	if err != nil || len(feed) != 0 {
		t.Fatalf("feed after unfollow = %+v, %v", feed, err)
	}
}

func TestOpenFileCreatesSchemaOnce(t *testing.T) {
	path := t.TempDir() + "/skimr.db"
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	mustUser(t, db, "Ada", "ada@example.com")
	_ = db.Close()

	db, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()
	if db.Path() != path {
		t.Fatalf("Path = %q", db.Path())
	}
	if _, err := db.GetUserByEmail(context.Background(), "ada@example.com"); err != nil {
		t.Fatalf("user lost across reopen: %v", err)
	}
}
