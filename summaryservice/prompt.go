package summaryservice

import (
	"regexp"
	"strings"

	"skimr/config"
)

var (
	citationRe   = regexp.MustCompile(`\[\d+\]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	bulletRe     = regexp.MustCompile(`(?m)^\* .*`)
)

const promptTemplate = `You are a helpful assistant.

Read the following article and summarize it in exactly 3 to 5 bullet points.

Only return bullet points, no explanations or intros.

Article:
"""
%s
"""
`

// Clean strips [n] citation markers and collapses whitespace.
func Clean(text string) string {
	text = citationRe.ReplaceAllString(text, "")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// BuildPrompt cleans the first 4000 characters of text into the summary prompt.
func BuildPrompt(text string) string {
	r := []rune(text)
	if len(r) > config.MaxTextLength {
		r = r[:config.MaxTextLength]
	}
	return strings.Replace(promptTemplate, "%s", Clean(string(r)), 1)
}

// ExtractBullets keeps the "* " lines of raw, or all of raw when there are none.
func ExtractBullets(raw string) string {
	bullets := bulletRe.FindAllString(raw, -1)
	if len(bullets) == 0 {
		return strings.TrimSpace(raw)
	}
	for i, b := range bullets {
		bullets[i] = strings.TrimRight(b, "\r")
	}
	return strings.TrimSpace(strings.Join(bullets, "\n"))
}
