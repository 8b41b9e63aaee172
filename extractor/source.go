package extractor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Source yields the current state of a document. Live sources may return a
// different document on every call.
type Source interface {
	URL() string
	Snapshot(ctx context.Context) (*goquery.Document, error)
}

// Clicker is implemented by sources that can interact with the page.
type Clicker interface {
	Click(ctx context.Context, selector string) error
}

// StaticSource wraps an HTML snapshot captured elsewhere, typically by the
// browser extension.
type StaticSource struct {
	url string
	doc *goquery.Document
}

// NewStaticSource parses html into a source for pageURL.
func NewStaticSource(pageURL, html string) (*StaticSource, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	return &StaticSource{url: pageURL, doc: doc}, nil
}

func (s *StaticSource) URL() string { return s.url }

func (s *StaticSource) Snapshot(ctx context.Context) (*goquery.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.doc, nil
}

const (
	defaultFetchTimeout = 30 * time.Second
	maxPageBytes        = 5 << 20
	userAgent           = "Mozilla/5.0 (compatible; skimr/1.0; +https://github.com/skimr)"
)

// HTTPSource fetches a page over HTTP. Each snapshot re-fetches the page so
// waits observe server-side changes.
type HTTPSource struct {
	url    string
	client *http.Client
}

// NewHTTPSource builds a source for pageURL. A nil client uses a client with a
// 30s timeout.
func NewHTTPSource(pageURL string, client *http.Client) *HTTPSource {
	if client == nil {
		client = &http.Client{Timeout: defaultFetchTimeout}
	}
	return &HTTPSource{url: pageURL, client: client}
}

func (s *HTTPSource) URL() string { return s.url }

func (s *HTTPSource) Snapshot(ctx context.Context) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	return doc, nil
}
