// Package models defines data structures for the search client.
package models

import "time"

// Document is one normalized metadata record extracted from a search
// results page. Every field carries a documented default (empty string,
// zero, or false) so a Document is always fully populated even when the
// raw response omits or mangles a value.
type Document struct {
	Title      string `csv:"title" json:"title"`
	FileName   string `csv:"file_name" json:"file_name"`
	URL        string `csv:"url" json:"url"`
	DocumentID string `csv:"document_id" json:"document_id"`
	FileSize   int64  `csv:"file_size" json:"file_size"`
	TotalWords int    `csv:"total_words" json:"total_words"`
	StartPage  int    `csv:"start_page" json:"start_page"`
	EndPage    int    `csv:"end_page" json:"end_page"`
	IsChunked  bool   `csv:"is_chunked" json:"is_chunked"`
	IndexedAt  string `csv:"indexed_at" json:"indexed_at"`
	Page       int    `csv:"page" json:"page"`
}

// PageKind identifies which representation a results page arrived in.
type PageKind string

const (
	PageKindJSON PageKind = "json"
	PageKindHTML PageKind = "html"
)

// Page is one parsed results page.
type Page struct {
	Number    int
	Kind      PageKind
	Documents []*Document
	// TotalResults is the endpoint-reported total hit count, or 0 when
	// the response does not carry one (HTML pages never do).
	TotalResults int
	// HasNextLink records whether an HTML page showed a next-page
	// affordance. Always false for JSON pages.
	HasNextLink bool
}

// StopReason records why a paginated search session ended.
type StopReason string

const (
	StopExhausted    StopReason = "exhausted"
	StopLimitReached StopReason = "limit_reached"
	StopFailed       StopReason = "failed"
)

// SearchResult holds the outcome of one paginated search session. On
// failure it still carries every record aggregated before the failing
// page.
type SearchResult struct {
	Documents    []*Document
	Query        string
	StartTime    time.Time
	EndTime      time.Time
	PagesFetched int
	RequestCount int
	// TotalReported is the largest endpoint-reported total observed
	// across the session's pages.
	TotalReported int
	// DuplicateIDs counts repeated document IDs observed while
	// aggregating. Repeats are counted, never dropped.
	DuplicateIDs int
	Stop         StopReason
}

// Duration reports the session's wall-clock run time.
func (r *SearchResult) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}
