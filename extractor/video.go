package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"skimr/config"
	"skimr/types"

	"github.com/PuerkitoBio/goquery"
)

const (
	videoReadySelector = `meta[name="title"], h1.title`
	expandSelector     = "#description #expand"

	untitledVideo  = "Untitled Video"
	unknownChannel = "Unknown Channel"
)

var (
	videoTitle = []func(*goquery.Document) string{
		textOf("h1.title"),
		attrOf(`meta[name="title"]`, "content"),
		textOf("title"),
	}
	videoChannel = []func(*goquery.Document) string{
		textOf("#text-container yt-formatted-string"),
		textOf("ytd-channel-name"),
		attrOf(`link[itemprop="name"]`, "content"),
	}
	videoDescription = []func(*goquery.Document) string{
		linesOf("#description"),
		attrOf(`meta[name="description"]`, "content"),
	}
)

// isVideoURL reports whether rawURL is a video-watch page.
func isVideoURL(rawURL string) bool {
	return strings.Contains(rawURL, "youtube.com/watch") || strings.Contains(rawURL, "youtu.be/")
}

// videoID pulls the id from a watch URL (?v=) or a short youtu.be/<id> link.
func videoID(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	if strings.HasSuffix(u.Hostname(), "youtu.be") {
		return strings.Trim(u.Path, "/")
	}
	return u.Query().Get("v")
}

// VideoMetadata is what a provider knows about a video.
type VideoMetadata struct {
	Title       string
	Channel     string
	Description string
}

// VideoMetadataProvider looks up video metadata by id. A nil result with nil
// error means the video is unknown.
type VideoMetadataProvider interface {
	VideoMetadata(ctx context.Context, id string) (*VideoMetadata, error)
}

func (e *Extractor) extractVideo(ctx context.Context, src Source) (*types.ExtractedContent, error) {
	if e.videos != nil {
		if id := videoID(src.URL()); id != "" {
			meta, err := e.videos.VideoMetadata(ctx, id)
			switch {
			case err != nil:
				slog.Warn("[Extractor] video metadata lookup failed, reading page", "video_id", id, "error", err)
			case meta != nil && strings.TrimSpace(meta.Title) != "":
				return videoContent(src.URL(), meta), nil
			}
		}
	}

	doc, err := waitFor(ctx, src, videoReadySelector, e.waitTimeout, e.pollInterval)
	if err != nil {
		return nil, err
	}

	if clicker, ok := src.(Clicker); ok {
		if err := clicker.Click(ctx, expandSelector); err == nil {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(e.expandDelay):
			}
			if fresh, err := src.Snapshot(ctx); err == nil {
				doc = fresh
			}
		}
	}

	meta := &VideoMetadata{
		Title:       firstNonEmpty(doc, videoTitle...),
		Channel:     firstNonEmpty(doc, videoChannel...),
		Description: firstNonEmpty(doc, videoDescription...),
	}
	return videoContent(src.URL(), meta), nil
}

func videoContent(pageURL string, meta *VideoMetadata) *types.ExtractedContent {
	title := strings.TrimSpace(meta.Title)
	if title == "" {
		title = untitledVideo
	}
	channel := strings.TrimSpace(meta.Channel)
	if channel == "" {
		channel = unknownChannel
	}
	text := fmt.Sprintf("Title: %s\nChannel: %s\n\nDescription:\n%s", title, channel, strings.TrimSpace(meta.Description))

	return &types.ExtractedContent{
		Success: true,
		Kind:    types.KindVideo,
		URL:     pageURL,
		Title:   truncate(title, config.MaxTitleLength),
		Text:    truncate(text, config.MaxTextLength),
	}
}
