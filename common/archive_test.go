package common

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"skimr/types"
)

type fakeStore struct {
	objects map[string][]byte
	ctypes  map[string]string
	headErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}, ctypes: map[string]string{}}
}

func (f *fakeStore) Put(_ context.Context, bucket, key string, body io.Reader, contentType, _ string) error {
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.objects[bucket+"/"+key] = b
	f.ctypes[bucket+"/"+key] = contentType
	return nil
}

func (f *fakeStore) Exists(_ context.Context, bucket, key string) (bool, error) {
	if f.headErr != nil {
		return false, f.headErr
	}
	_, ok := f.objects[bucket+"/"+key]
	return ok, nil
}

var sampleEvent = types.ItemCreated{
	ItemID:    "item-1",
	UserID:    "user-1",
	URL:       "https://example.com",
	Title:     "T",
	Summary:   "* s",
	CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
}

func TestArchiveWritesJSON(t *testing.T) {
	store := newFakeStore()
	a := NewArchiver(store, "bucket", "prod/")

	if err := a.Archive(context.Background(), &sampleEvent); err != nil {
		t.Fatalf("Archive error: %v", err)
	}
	key := "bucket/prod/items/user-1/item-1.json"
	raw, ok := store.objects[key]
	if !ok {
		t.Fatalf("object %s not written; have %v", key, store.objects)
	}
	if store.ctypes[key] != "application/json" {
		t.Fatalf("content type = %q", store.ctypes[key])
	}
	var got archivedItem
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.ID != "item-1" || got.Summary != "* s" || !got.CreatedAt.Equal(sampleEvent.CreatedAt) {
		t.Fatalf("archived = %+v", got)
	}
}

func TestArchiveSkipsExisting(t *testing.T) {
	store := newFakeStore()
	a := NewArchiver(store, "bucket", "")
	store.objects["bucket/items/user-1/item-1.json"] = []byte("original")

	if err := a.Archive(context.Background(), &sampleEvent); err != nil {
		t.Fatalf("Archive error: %v", err)
	}
	if string(store.objects["bucket/items/user-1/item-1.json"]) != "original" {
		t.Fatalf("existing object was overwritten")
	}
}

func TestArchiveHeadError(t *testing.T) {
	store := newFakeStore()
	store.headErr = errors.New("access denied")
	if err := NewArchiver(store, "bucket", "").Archive(context.Background(), &sampleEvent); err == nil {
		t.Fatalf("expected error when existence check fails")
	}
}

func TestS3AgainstFakeEndpoint(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")
	t.Setenv("AWS_CONFIG_FILE", "/dev/null")
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", "/dev/null")

	var (
		mu      sync.Mutex
		objects = map[string]string{}
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch r.Method {
		case http.MethodHead:
			if _, ok := objects[r.URL.Path]; !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.WriteHeader(http.StatusOK)
		case http.MethodPut:
			b, _ := io.ReadAll(r.Body)
			objects[r.URL.Path] = string(b)
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	defer srv.Close()

	s, err := NewS3(context.Background(), S3Config{Region: "us-east-1", Endpoint: srv.URL, UsePathStyle: true})
	if err != nil {
		t.Fatalf("NewS3 error: %v", err)
	}
	ctx := context.Background()

	exists, err := s.Exists(ctx, "bucket", "a.json")
	if err != nil || exists {
		t.Fatalf("Exists before put = %v, %v; want false, nil", exists, err)
	}
	if err := s.Put(ctx, "bucket", "a.json", strings.NewReader(`{"ok":true}`), "application/json", ""); err != nil {
		t.Fatalf("Put error: %v", err)
	}
	exists, err = s.Exists(ctx, "bucket", "a.json")
	if err != nil || !exists {
		t.Fatalf("Exists after put = %v, %v; want true, nil", exists, err)
	}
	mu.Lock()
	defer mu.Unlock()
	if !strings.Contains(objects["/bucket/a.json"], `"ok":true`) {
		t.Fatalf("stored objects = %v", objects)
	}
}
