package extractor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"google.golang.org/api/option"
)

func TestYouTubeProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/videos") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("id") != "abc123" {
			w.Write([]byte(`{"items":[]}`))
			return
		}
		w.Write([]byte(`{"items":[{"id":"abc123","snippet":{"title":"API Title","channelTitle":"API Channel","description":"desc"}}]}`))
	}))
	defer srv.Close()

	provider, err := NewYouTubeProvider(context.Background(), "test-key", option.WithEndpoint(srv.URL+"/"))
	if err != nil {
		t.Fatalf("NewYouTubeProvider: %v", err)
	}

	meta, err := provider.VideoMetadata(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("VideoMetadata error: %v", err)
	}
	if meta == nil || meta.Title != "API Title" || meta.Channel != "API Channel" || meta.Description != "desc" {
		t.Fatalf("meta = %+v", meta)
	}

	meta, err = provider.VideoMetadata(context.Background(), "unknown")
	if err != nil || meta != nil {
		t.Fatalf("unknown video: meta=%+v err=%v; want nil, nil", meta, err)
	}
}
