package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"skimr/types"

	"github.com/google/uuid"
)

// CreateFollow records that followerID follows followingID. An existing edge
// returns ErrDuplicate.
func (db *DB) CreateFollow(ctx context.Context, followerID, followingID string) (*types.Follow, error) {
	f := &types.Follow{
		ID:          uuid.NewString(),
		FollowerID:  followerID,
		FollowingID: followingID,
		CreatedAt:   time.Now().UTC(),
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO follows (id, follower_id, following_id, created_at) VALUES (?, ?, ?, ?)`,
		f.ID, f.FollowerID, f.FollowingID, formatTime(f.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to insert follow: %w", err)
	}
	return f, nil
}

func (db *DB) GetFollow(ctx context.Context, followerID, followingID string) (*types.Follow, error) {
	var (
		f       types.Follow
		created string
	)
	err := db.QueryRowContext(ctx,
		`SELECT id, follower_id, following_id, created_at FROM follows WHERE follower_id = ? AND following_id = ?`,
		followerID, followingID).Scan(&f.ID, &f.FollowerID, &f.FollowingID, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query follow: %w", err)
	}
	if f.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	return &f, nil
}

// DeleteFollow removes the edge and returns the number of rows removed.
func (db *DB) DeleteFollow(ctx context.Context, followerID, followingID string) (int64, error) {
	res, err := db.ExecContext(ctx,
		`DELETE FROM follows WHERE follower_id = ? AND following_id = ?`, followerID, followingID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete follow: %w", err)
	}
	return res.RowsAffected()
}

// ListFollowers returns the edges pointing at userID, each with the follower.
func (db *DB) ListFollowers(ctx context.Context, userID string) ([]types.FollowEdge, error) {
	return db.listEdges(ctx, `
		SELECT f.id, f.follower_id, f.following_id, f.created_at, u.id, u.name, u.email
		FROM follows f
		JOIN users u ON u.id = f.follower_id
		WHERE f.following_id = ?
		ORDER BY f.created_at DESC, f.rowid DESC`, userID)
}

// ListFollowing returns the edges leaving userID, each with the followed user.
func (db *DB) ListFollowing(ctx context.Context, userID string) ([]types.FollowEdge, error) {
	return db.listEdges(ctx, `
		SELECT f.id, f.follower_id, f.following_id, f.created_at, u.id, u.name, u.email
		FROM follows f
		JOIN users u ON u.id = f.following_id
		WHERE f.follower_id = ?
		ORDER BY f.created_at DESC, f.rowid DESC`, userID)
}

func (db *DB) listEdges(ctx context.Context, query, userID string) ([]types.FollowEdge, error) {
	rows, err := db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query follows: %w", err)
	}
	defer rows.Close()

	edges := []types.FollowEdge{}
	for rows.Next() {
		var (
			e       types.FollowEdge
			created string
		)
		if err := rows.Scan(&e.ID, &e.FollowerID, &e.FollowingID, &created,
			&e.User.ID, &e.User.Name, &e.User.Email); err != nil {
			return nil, fmt.Errorf("failed to scan follow: %w", err)
		}
		if e.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}
