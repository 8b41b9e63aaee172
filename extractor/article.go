package extractor

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"skimr/config"
	"skimr/types"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

const (
	untitledPage = "Untitled Page"

	linePixels   = 20
	charsPerLine = 80

	// heightAttr carries offsetHeight for snapshots captured from a live tab.
	heightAttr = "data-offset-height"

	blockSelector = "p, div, li, h1, h2, h3, h4, h5, h6, pre, blockquote, tr, section, article, dd, dt"
	stripSelector = "script, style, nav, footer, header, aside, form, input, button, iframe, img, svg, canvas, noscript, video, audio"
)

var containerCandidates = []string{
	"article",
	"main",
	"[role=main]",
	".post-content",
	".markdown-body",
	".content",
	"#content",
	"body",
}

// estimateHeight approximates the rendered pixel height of sel.
func estimateHeight(sel *goquery.Selection) float64 {
	if v, ok := sel.Attr(heightAttr); ok {
		if h, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return h
		}
	}

	lines := 0
	sel.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		if strings.TrimSpace(s.Text()) != "" {
			lines++
		}
	})
	lines += len([]rune(normalizeSpace(sel.Text()))) / charsPerLine
	return float64(lines * linePixels)
}

// findContainer returns the first candidate taller than the minimum height.
func findContainer(doc *goquery.Document) *goquery.Selection {
	for _, candidate := range containerCandidates {
		sel := doc.Find(candidate).First()
		if sel.Length() == 0 {
			continue
		}
		if estimateHeight(sel) > config.MinContainerHeight {
			return sel
		}
	}
	return nil
}

// extractArticle returns nil content when no container qualifies or no text
// survives filtering, leaving the decision to fall back to the caller.
func (e *Extractor) extractArticle(ctx context.Context, src Source) (*types.ExtractedContent, error) {
	doc, err := src.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	container := findContainer(doc)
	if container == nil {
		return nil, nil
	}

	clone := container.Clone()
	clone.Find(stripSelector).Remove()
	chunks := collectChunks(clone, config.MinChunkLength)

	var distilled *readability.Article
	if len(chunks) == 0 {
		distilled = distill(doc, src.URL())
		if distilled != nil {
			chunks = distilledChunks(distilled)
		}
	}
	if len(chunks) == 0 {
		return nil, nil
	}

	title := normalizeSpace(doc.Find("title").First().Text())
	if title == "" {
		if distilled == nil {
			distilled = distill(doc, src.URL())
		}
		if distilled != nil {
			title = normalizeSpace(distilled.Title)
		}
	}
	if title == "" {
		title = normalizeSpace(doc.Find("h1").First().Text())
	}
	if title == "" {
		title = untitledPage
	}

	return &types.ExtractedContent{
		Success: true,
		Kind:    types.KindArticle,
		URL:     src.URL(),
		Title:   truncate(title, config.MaxTitleLength),
		Text:    truncate(strings.Join(chunks, "\n\n"), config.MaxTextLength),
	}, nil
}

// distill runs go-readability over the snapshot. Failures yield nil.
func distill(doc *goquery.Document, pageURL string) *readability.Article {
	html, err := doc.Html()
	if err != nil {
		return nil
	}
	u, err := url.Parse(pageURL)
	if err != nil {
		u = &url.URL{}
	}
	article, err := readability.FromReader(strings.NewReader(html), u)
	if err != nil {
		return nil
	}
	return &article
}

func distilledChunks(article *readability.Article) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(article.Content))
	if err != nil {
		return nil
	}
	return collectChunks(doc.Selection, config.MinChunkLength)
}

// extractFallback uses the visible text of the whole page.
func (e *Extractor) extractFallback(ctx context.Context, src Source) (*types.ExtractedContent, error) {
	doc, err := src.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	body := doc.Find("body").First()
	if body.Length() == 0 {
		body = doc.Selection
	}
	body = body.Clone()
	body.Find("script, style, noscript, template").Remove()

	text := cleanLines(body.Text())
	if len([]rune(text)) <= config.MinFallbackLength {
		return nil, ErrNoReadableContent
	}

	title := normalizeSpace(doc.Find("title").First().Text())
	if title == "" {
		title = untitledPage
	}

	return &types.ExtractedContent{
		Success: true,
		Kind:    types.KindFallback,
		URL:     src.URL(),
		Title:   truncate(title, config.MaxTitleLength),
		Text:    truncate(text, config.MaxTextLength),
	}, nil
}
