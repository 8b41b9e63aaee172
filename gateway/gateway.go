// Package gateway validates summary submissions, calls the summarizer and
// stores the result as an Item.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"skimr/config"
	"skimr/types"

	"github.com/google/uuid"
)

var (
	ErrMissingFields = errors.New("gateway: title, url and text are required")
	ErrPersist       = errors.New("gateway: failed to store item")
)

type Summarizer interface {
	Summarize(ctx context.Context, req types.SummaryRequest) (string, error)
}

type ItemStore interface {
	CreateItem(ctx context.Context, it *types.Item) error
}

// Publisher announces stored items. Failures never fail a submission.
type Publisher interface {
	PublishItemCreated(ctx context.Context, event types.ItemCreated) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) PublishItemCreated(context.Context, types.ItemCreated) error { return nil }

type Result struct {
	Summary string
	Item    *types.Item
}

type Gateway struct {
	summarizer Summarizer
	items      ItemStore
	publisher  Publisher
	now        func() time.Time
}

// New builds a gateway. A nil publisher is replaced by NopPublisher.
func New(summarizer Summarizer, items ItemStore, publisher Publisher) *Gateway {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &Gateway{
		summarizer: summarizer,
		items:      items,
		publisher:  publisher,
		now:        time.Now,
	}
}

// Submit summarizes req on behalf of userID. Errors are ErrMissingFields,
// ErrPersist, or whatever the summarizer returned.
func (g *Gateway) Submit(ctx context.Context, userID string, req types.SummaryRequest) (*Result, error) {
	if !req.Complete() {
		return nil, ErrMissingFields
	}

	summary, err := g.summarizer.Summarize(ctx, req)
	if err != nil {
		return nil, err
	}

	item := &types.Item{
		ID:        uuid.NewString(),
		URL:       strings.TrimSpace(req.URL),
		Title:     truncate(strings.TrimSpace(req.Title), config.MaxItemTitleLength),
		Summary:   summary,
		UserID:    userID,
		CreatedAt: g.now().UTC(),
	}
	if err := g.items.CreateItem(ctx, item); err != nil {
		slog.Error("[Gateway] failed to store item", "user_id", userID, "url", item.URL, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrPersist, err)
	}

	if err := g.publisher.PublishItemCreated(ctx, types.NewItemCreated(item)); err != nil {
		slog.Warn("[Gateway] failed to publish item event", "item_id", item.ID, "error", err)
	}

	slog.Info("[Gateway] item created", "item_id", item.ID, "user_id", userID)
	return &Result{Summary: summary, Item: item}, nil
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
