package extractor

import (
	"context"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// WaitTimeoutError is returned by waitFor when the deadline passes without a match.
type WaitTimeoutError struct {
	Selector string
}

func (e *WaitTimeoutError) Error() string {
	return fmt.Sprintf("timeout waiting for %s", e.Selector)
}

// waitFor polls src until selector matches, the timeout elapses, or ctx is done.
// It returns the snapshot in which the selector matched.
func waitFor(ctx context.Context, src Source, selector string, timeout, interval time.Duration) (*goquery.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		doc, err := src.Snapshot(ctx)
		if err == nil && doc.Find(selector).Length() > 0 {
			return doc, nil
		}
		if err != nil && ctx.Err() == nil {
			return nil, err
		}

		select {
		case <-ctx.Done():
			if ctx.Err() == context.DeadlineExceeded {
				return nil, &WaitTimeoutError{Selector: selector}
			}
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
