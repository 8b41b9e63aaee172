// Package extractor turns a page snapshot into a normalized content record
// for the summarizer.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"skimr/config"
	"skimr/types"
)

var ErrNoReadableContent = errors.New("Page has no readable content")

// ExtractionError is the only error Extract returns.
type ExtractionError struct {
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string { return e.Reason }

func (e *ExtractionError) Unwrap() error { return e.Err }

// Failure converts the error to the wire shape expected by the extension.
func (e *ExtractionError) Failure() types.ExtractionFailure {
	return types.ExtractionFailure{Success: false, Error: e.Reason}
}

// Options tunes an Extractor. Zero values use the defaults from config.
type Options struct {
	Videos       VideoMetadataProvider
	WaitTimeout  time.Duration
	PollInterval time.Duration
	ExpandDelay  time.Duration
}

type Extractor struct {
	videos       VideoMetadataProvider
	waitTimeout  time.Duration
	pollInterval time.Duration
	expandDelay  time.Duration
}

func New(opts Options) *Extractor {
	e := &Extractor{
		videos:       opts.Videos,
		waitTimeout:  opts.WaitTimeout,
		pollInterval: opts.PollInterval,
		expandDelay:  opts.ExpandDelay,
	}
	if e.waitTimeout <= 0 {
		e.waitTimeout = config.VideoWaitTimeout
	}
	if e.pollInterval <= 0 {
		e.pollInterval = config.VideoPollInterval
	}
	if e.expandDelay <= 0 {
		e.expandDelay = config.ExpandDelay
	}
	return e
}

// Extract produces a content record for src. Video pages go through the video
// path; everything else tries the article path and then the raw-text fallback.
func (e *Extractor) Extract(ctx context.Context, src Source) (content *types.ExtractedContent, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("[Extractor] panic during extraction", "url", src.URL(), "panic", r)
			content, err = nil, &ExtractionError{Reason: fmt.Sprintf("extraction failed: %v", r)}
		}
	}()

	content, err = e.extract(ctx, src)
	if err != nil {
		var extractionErr *ExtractionError
		if errors.As(err, &extractionErr) {
			return nil, extractionErr
		}
		slog.Debug("[Extractor] extraction failed", "url", src.URL(), "error", err)
		return nil, &ExtractionError{Reason: err.Error(), Err: err}
	}
	return content, nil
}

func (e *Extractor) extract(ctx context.Context, src Source) (*types.ExtractedContent, error) {
	if isVideoURL(src.URL()) {
		return e.extractVideo(ctx, src)
	}

	content, err := e.extractArticle(ctx, src)
	if err != nil {
		return nil, err
	}
	if content != nil {
		return content, nil
	}
	return e.extractFallback(ctx, src)
}
