package types

// ContentKind names the extraction path that produced a record
type ContentKind string

const (
	KindVideo    ContentKind = "video"
	KindArticle  ContentKind = "article"
	KindFallback ContentKind = "fallback"
)

// ExtractedContent is the normalized record produced by the page extractor.
// Title and Text are non-empty whenever Success is true.
type ExtractedContent struct {
	Success bool        `json:"success"`
	Kind    ContentKind `json:"kind"`
	URL     string      `json:"url"`
	Title   string      `json:"title"`
	Text    string      `json:"text"`
}

// ExtractionFailure is returned to callers when no record could be produced
type ExtractionFailure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
