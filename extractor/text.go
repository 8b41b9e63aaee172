package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// normalizeSpace collapses all runs of whitespace to a single space.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate cuts s to at most max characters without splitting a rune.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}

const chunkSelector = "p, h1, h2, h3, li, blockquote, pre"

// collectChunks gathers normalized block text longer than minLen, dropping
// repeats while keeping first-seen order.
func collectChunks(sel *goquery.Selection, minLen int) []string {
	seen := make(map[string]struct{})
	var chunks []string
	sel.Find(chunkSelector).Each(func(_ int, s *goquery.Selection) {
		text := normalizeSpace(s.Text())
		if len([]rune(text)) <= minLen {
			return
		}
		if _, dup := seen[text]; dup {
			return
		}
		seen[text] = struct{}{}
		chunks = append(chunks, text)
	})
	return chunks
}

// firstNonEmpty runs each strategy in order and returns the first non-empty result.
func firstNonEmpty(doc *goquery.Document, strategies ...func(*goquery.Document) string) string {
	for _, strategy := range strategies {
		if v := strings.TrimSpace(strategy(doc)); v != "" {
			return v
		}
	}
	return ""
}

// textOf returns a strategy reading the normalized text of the first match.
func textOf(selector string) func(*goquery.Document) string {
	return func(doc *goquery.Document) string {
		return normalizeSpace(doc.Find(selector).First().Text())
	}
}

// attrOf returns a strategy reading an attribute of the first match.
func attrOf(selector, attr string) func(*goquery.Document) string {
	return func(doc *goquery.Document) string {
		v, _ := doc.Find(selector).First().Attr(attr)
		return normalizeSpace(v)
	}
}

// cleanLines trims every line of s and drops the empty ones.
func cleanLines(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = normalizeSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// linesOf is textOf for multi-line content.
func linesOf(selector string) func(*goquery.Document) string {
	return func(doc *goquery.Document) string {
		return cleanLines(doc.Find(selector).First().Text())
	}
}
