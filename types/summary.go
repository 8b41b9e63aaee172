package types

import "strings"

// SummaryRequest is the payload sent to the summarization microservice
type SummaryRequest struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Text  string `json:"text"`
}

// Complete reports whether every field is present. Whitespace-only counts as absent.
func (r SummaryRequest) Complete() bool {
	return strings.TrimSpace(r.Title) != "" &&
		strings.TrimSpace(r.URL) != "" &&
		strings.TrimSpace(r.Text) != ""
}

// SummaryResult is the upstream response body
type SummaryResult struct {
	Success bool   `json:"success"`
	Summary string `json:"summary"`
}
