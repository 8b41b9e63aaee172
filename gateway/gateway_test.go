package gateway

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"skimr/summarizer"
	"skimr/types"
)

type fakeSummarizer struct {
	summary string
	err     error
	calls   int
}

func (f *fakeSummarizer) Summarize(context.Context, types.SummaryRequest) (string, error) {
	f.calls++
	return f.summary, f.err
}

type fakeStore struct {
	items []*types.Item
	err   error
}

func (f *fakeStore) CreateItem(_ context.Context, it *types.Item) error {
	if f.err != nil {
		return f.err
	}
	f.items = append(f.items, it)
	return nil
}

type fakePublisher struct {
	events []types.ItemCreated
	err    error
}

func (f *fakePublisher) PublishItemCreated(_ context.Context, e types.ItemCreated) error {
	f.events = append(f.events, e)
	return f.err
}

var validRequest = types.SummaryRequest{Title: "Title", URL: "https://example.com", Text: "Body text"}

func TestSubmitMissingFieldsSkipsNetwork(t *testing.T) {
	cases := []types.SummaryRequest{
		{URL: "u", Text: "t"},
		{Title: "t", Text: "t"},
		{Title: "t", URL: "u"},
		{Title: "   ", URL: "u", Text: "t"},
	}
	for _, req := range cases {
		sum := &fakeSummarizer{summary: "* s"}
		store := &fakeStore{}
		_, err := New(sum, store, nil).Submit(context.Background(), "user-1", req)
		if !errors.Is(err, ErrMissingFields) {
			t.Fatalf("Submit(%+v) err = %v; want ErrMissingFields", req, err)
		}
		if sum.calls != 0 || len(store.items) != 0 {
			t.Fatalf("Submit(%+v) reached summarizer or store", req)
		}
	}
}

func TestSubmitSummarizerFailuresStoreNothing(t *testing.T) {
	cases := []error{
		&summarizer.UpstreamError{StatusCode: 0, Err: errors.New("timeout")},
		&summarizer.UpstreamError{StatusCode: 502},
		summarizer.ErrNoSummary,
	}
	for _, want := range cases {
		store := &fakeStore{}
		pub := &fakePublisher{}
		_, err := New(&fakeSummarizer{err: want}, store, pub).Submit(context.Background(), "user-1", validRequest)
		if !errors.Is(err, want) {
			t.Fatalf("err = %v; want %v", err, want)
		}
		if len(store.items) != 0 || len(pub.events) != 0 {
			t.Fatalf("failure %v persisted or published", want)
		}
	}
}

func TestSubmitSuccess(t *testing.T) {
	store := &fakeStore{}
	pub := &fakePublisher{}
	res, err := New(&fakeSummarizer{summary: "* a\n* b"}, store, pub).Submit(context.Background(), "user-1", validRequest)
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if len(store.items) != 1 {
		t.Fatalf("stored %d items; want 1", len(store.items))
	}
	it := store.items[0]
	if it.UserID != "user-1" || it.Summary != "* a\n* b" || it.URL != validRequest.URL || it.ID == "" {
		t.Fatalf("item = %+v", it)
	}
	if res.Summary != it.Summary || res.Item != it {
		t.Fatalf("result = %+v", res)
	}
	if len(pub.events) != 1 || pub.events[0].ItemID != it.ID {
		t.Fatalf("events = %+v", pub.events)
	}
}

func TestSubmitTruncatesTitle(t *testing.T) {
	store := &fakeStore{}
	req := validRequest
	req.Title = strings.Repeat("ß", 300)
	if _, err := New(&fakeSummarizer{summary: "* s"}, store, nil).Submit(context.Background(), "u", req); err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if n := utf8.RuneCountInString(store.items[0].Title); n != 255 {
		t.Fatalf("title runes = %d; want 255", n)
	}
}

func TestSubmitPersistFailure(t *testing.T) {
	pub := &fakePublisher{}
	_, err := New(&fakeSummarizer{summary: "* s"}, &fakeStore{err: errors.New("disk full")}, pub).Submit(context.Background(), "u", validRequest)
	if !errors.Is(err, ErrPersist) {
		t.Fatalf("err = %v; want ErrPersist", err)
	}
	if len(pub.events) != 0 {
		t.Fatalf("published an event for an unsaved item")
	}
}

func TestSubmitPublishFailureStillSucceeds(t *testing.T) {
	store := &fakeStore{}
	pub := &fakePublisher{err: errors.New("broker down")}
	res, err := New(&fakeSummarizer{summary: "* s"}, store, pub).Submit(context.Background(), "u", validRequest)
	if err != nil || res == nil {
		t.Fatalf("Submit = %+v, %v; want success", res, err)
	}
	if len(store.items) != 1 {
		t.Fatalf("item not stored")
	}
}
