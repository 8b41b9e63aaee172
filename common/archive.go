package common

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"skimr/types"
)

// ObjectStore is the subset of S3 used by Archiver.
type ObjectStore interface {
	Put(ctx context.Context, bucket, key string, body io.Reader, contentType, cacheControl string) error
	Exists(ctx context.Context, bucket, key string) (bool, error)
}

// Archiver writes one JSON object per created item.
type Archiver struct {
	store  ObjectStore
	bucket string
	prefix string
}

// NewArchiver stores objects under prefix, which must be empty or end in "/".
func NewArchiver(store ObjectStore, bucket, prefix string) *Archiver {
	return &Archiver{store: store, bucket: bucket, prefix: prefix}
}

// ItemKey is the object key for an item.
func (a *Archiver) ItemKey(userID, itemID string) string {
	return a.prefix + "items/" + userID + "/" + itemID + ".json"
}

type archivedItem struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	URL        string    `json:"url"`
	Title      string    `json:"title"`
	Summary    string    `json:"summary"`
	CreatedAt  time.Time `json:"createdAt"`
	ArchivedAt time.Time `json:"archivedAt"`
}

// Archive uploads the item unless an object already exists under its key, so
// redelivered events are harmless.
func (a *Archiver) Archive(ctx context.Context, event *types.ItemCreated) error {
	key := a.ItemKey(event.UserID, event.ItemID)

	exists, err := a.store.Exists(ctx, a.bucket, key)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", key, err)
	}
	if exists {
		slog.Debug("[Archive] item already archived", "key", key)
		return nil
	}

	body, err := json.MarshalIndent(archivedItem{
		ID:         event.ItemID,
		UserID:     event.UserID,
		URL:        event.URL,
		Title:      event.Title,
		Summary:    event.Summary,
		CreatedAt:  event.CreatedAt,
		ArchivedAt: time.Now().UTC(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}

	if err := a.store.Put(ctx, a.bucket, key, bytes.NewReader(body), "application/json", "private, max-age=300"); err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	slog.Info("[Archive] item archived", "bucket", a.bucket, "key", key)
	return nil
}
