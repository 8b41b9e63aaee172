package summarizer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"skimr/types"
)

var sampleRequest = types.SummaryRequest{Title: "T", URL: "https://example.com", Text: "body"}

func TestSummarizeSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("unexpected request %s %s", r.Method, r.Header.Get("Content-Type"))
		}
		var got types.SummaryRequest
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil || got != sampleRequest {
			t.Errorf("payload = %+v, err %v", got, err)
		}
		w.Write([]byte(`{"success":true,"summary":"  * one\n* two  "}`))
	}))
	defer srv.Close()

	summary, err := NewClient(srv.URL, time.Second).Summarize(context.Background(), sampleRequest)
	if err != nil {
		t.Fatalf("Summarize error: %v", err)
	}
	if summary != "* one\n* two" {
		t.Fatalf("summary = %q", summary)
	}
}

func TestSummarizeFailures(t *testing.T) {
	cases := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantNone   bool
	}{
		{"upstream 502", http.StatusBadGateway, `{"error":"boom"}`, http.StatusBadGateway, false},
		{"upstream 400", http.StatusBadRequest, `{"error":"Missing text/title/url"}`, http.StatusBadRequest, false},
		{"blank summary", http.StatusOK, `{"summary":"   "}`, 0, true},
		{"missing summary", http.StatusOK, `{"success":true}`, 0, true},
		{"undecodable", http.StatusOK, `<html>oops</html>`, 0, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(c.status)
				w.Write([]byte(c.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, time.Second).Summarize(context.Background(), sampleRequest)
			if c.wantNone {
				if !errors.Is(err, ErrNoSummary) {
					t.Fatalf("err = %v; want ErrNoSummary", err)
				}
				return
			}
			var upstream *UpstreamError
			if !errors.As(err, &upstream) || upstream.StatusCode != c.wantStatus {
				t.Fatalf("err = %v; want UpstreamError{%d}", err, c.wantStatus)
			}
		})
	}
}

func TestSummarizeTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewClient(srv.URL, 50*time.Millisecond).Summarize(context.Background(), sampleRequest)
	var upstream *UpstreamError
	if !errors.As(err, &upstream) || upstream.StatusCode != 0 {
		t.Fatalf("err = %v; want transport UpstreamError", err)
	}
}

func TestSummarizeUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second).Summarize(context.Background(), sampleRequest)
	var upstream *UpstreamError
	if !errors.As(err, &upstream) || upstream.StatusCode != 0 {
		t.Fatalf("err = %v; want transport UpstreamError", err)
	}
}
