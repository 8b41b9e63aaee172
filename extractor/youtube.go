package extractor

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// YouTubeProvider reads video metadata from the YouTube Data API.
type YouTubeProvider struct {
	service *youtube.Service
}

// NewYouTubeProvider creates a provider authenticated with an API key. Extra
// client options are appended, which lets tests point it at a fake endpoint.
func NewYouTubeProvider(ctx context.Context, apiKey string, opts ...option.ClientOption) (*YouTubeProvider, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	return &YouTubeProvider{service: service}, nil
}

func (p *YouTubeProvider) VideoMetadata(ctx context.Context, id string) (*VideoMetadata, error) {
	resp, err := p.service.Videos.List([]string{"snippet"}).Id(id).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("videos.list failed: %w", err)
	}
	if len(resp.Items) == 0 || resp.Items[0].Snippet == nil {
		return nil, nil
	}

	snippet := resp.Items[0].Snippet
	return &VideoMetadata{
		Title:       snippet.Title,
		Channel:     snippet.ChannelTitle,
		Description: snippet.Description,
	}, nil
}
