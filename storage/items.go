package storage

import (
	"context"
	"fmt"
	"time"

	"skimr/types"

	"github.com/google/uuid"
)

// CreateItem inserts an item. ID and CreatedAt are assigned when empty.
func (db *DB) CreateItem(ctx context.Context, it *types.Item) error {
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	if it.CreatedAt.IsZero() {
		it.CreatedAt = time.Now().UTC()
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO items (id, url, title, summary, user_id, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		it.ID, it.URL, it.Title, it.Summary, it.UserID, formatTime(it.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}
	return nil
}

// ListItemsByUser returns a user's items, newest first.
func (db *DB) ListItemsByUser(ctx context.Context, userID string) ([]types.Item, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, url, title, summary, user_id, created_at
		FROM items
		WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	items := []types.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

// ListFeed returns items authored by the users followerID follows, newest first.
func (db *DB) ListFeed(ctx context.Context, followerID string) ([]types.FeedItem, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT i.id, i.url, i.title, i.summary, i.user_id, i.created_at, u.id, u.name, u.email
		FROM items i
		JOIN follows f ON f.following_id = i.user_id
		JOIN users u ON u.id = i.user_id
		WHERE f.follower_id = ?
		ORDER BY i.created_at DESC, i.rowid DESC`, followerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query feed: %w", err)
	}
	defer rows.Close()

	feed := []types.FeedItem{}
	for rows.Next() {
		var (
			fi      types.FeedItem
			created string
		)
		if err := rows.Scan(&fi.ID, &fi.URL, &fi.Title, &fi.Summary, &fi.UserID, &created,
			&fi.Author.ID, &fi.Author.Name, &fi.Author.Email); err != nil {
			return nil, fmt.Errorf("failed to scan feed item: %w", err)
		}
		if fi.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		feed = append(feed, fi)
	}
	return feed, rows.Err()
}

func scanItem(row rowScanner) (*types.Item, error) {
	var (
		it      types.Item
		created string
	)
	if err := row.Scan(&it.ID, &it.URL, &it.Title, &it.Summary, &it.UserID, &created); err != nil {
		return nil, fmt.Errorf("failed to scan item: %w", err)
	}
	var err error
	if it.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	return &it, nil
}
