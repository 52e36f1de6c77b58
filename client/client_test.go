package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"

	"github.com/doj-tools/dojsearch/config"
	"github.com/doj-tools/dojsearch/models"
)

func newTestClient(t *testing.T) (*Client, *httpmock.MockTransport) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.BaseURL = "http://example.test/multimedia-search"

	c, err := New(cfg)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	transport := httpmock.NewMockTransport()
	c.WithTransport(transport)
	return c, transport
}

func TestClientSearchSinglePage(t *testing.T) {
	c, transport := newTestClient(t)
	transport.RegisterResponder("GET", searchURL(c.base, "flight logs", 0),
		jsonResponder(buildJSONPage(0, 3, 3)))

	docs, more, err := c.Search(context.Background(), "flight logs", 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("documents = %d, want 3", len(docs))
	}
	if more {
		t.Fatalf("more = true for a short page, want false")
	}

	doc := docs[0]
	if doc.DocumentID != "doc-0000" {
		t.Fatalf("document_id = %q, want doc-0000", doc.DocumentID)
	}
	if doc.Title != "Record 0.pdf" || doc.FileName != "Record 0.pdf" {
		t.Fatalf("title/file_name = %q/%q", doc.Title, doc.FileName)
	}
	if doc.URL != "https://www.justice.gov/files/Record%200.pdf" {
		t.Fatalf("url = %q, want encoded spaces", doc.URL)
	}
	if doc.Page != 0 {
		t.Fatalf("page = %d, want 0", doc.Page)
	}
}

func TestClientSearchFullPageSignalsMore(t *testing.T) {
	c, transport := newTestClient(t)
	transport.RegisterResponder("GET", searchURL(c.base, "memo", 2),
		jsonResponder(buildJSONPage(20, 10, 100)))

	docs, more, err := c.Search(context.Background(), "memo", 2)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(docs) != 10 {
		t.Fatalf("documents = %d, want 10", len(docs))
	}
	if !more {
		t.Fatalf("more = false for a full page, want true")
	}
}

func TestSearchAllPaginates(t *testing.T) {
	c, transport := newTestClient(t)
	query := "flight logs"
	transport.RegisterResponder("GET", searchURL(c.base, query, 0),
		jsonResponder(buildJSONPage(0, 10, 24)))
	transport.RegisterResponder("GET", searchURL(c.base, query, 1),
		jsonResponder(buildJSONPage(10, 10, 24)))
	transport.RegisterResponder("GET", searchURL(c.base, query, 2),
		jsonResponder(buildJSONPage(20, 4, 24)))

	result, err := c.SearchAll(context.Background(), SearchOptions{Query: query})
	if err != nil {
		t.Fatalf("search all: %v", err)
	}

	if got := len(result.Documents); got != 24 {
		t.Fatalf("documents = %d, want 24", got)
	}
	if result.RequestCount != 3 || result.PagesFetched != 3 {
		t.Fatalf("requests/pages = %d/%d, want 3/3", result.RequestCount, result.PagesFetched)
	}
	if result.Stop != models.StopExhausted {
		t.Fatalf("stop = %q, want %q", result.Stop, models.StopExhausted)
	}
	if result.TotalReported != 24 {
		t.Fatalf("total reported = %d, want 24", result.TotalReported)
	}
	if result.DuplicateIDs != 0 {
		t.Fatalf("duplicate ids = %d, want 0", result.DuplicateIDs)
	}

	first, last := result.Documents[0], result.Documents[23]
	if first.DocumentID != "doc-0000" || last.DocumentID != "doc-0023" {
		t.Fatalf("order = %q..%q, want doc-0000..doc-0023", first.DocumentID, last.DocumentID)
	}
	if last.Page != 2 {
		t.Fatalf("last document page = %d, want 2", last.Page)
	}
}

func TestSearchAllCapTruncatesMidPage(t *testing.T) {
	c, transport := newTestClient(t)
	query := "depositions"
	transport.RegisterResponder("GET", searchURL(c.base, query, 0),
		jsonResponder(buildJSONPage(0, 10, 60)))
	transport.RegisterResponder("GET", searchURL(c.base, query, 1),
		jsonResponder(buildJSONPage(10, 10, 60)))
	transport.RegisterResponder("GET", searchURL(c.base, query, 2),
		jsonResponder(buildJSONPage(20, 10, 60)))

	result, err := c.SearchAll(context.Background(), SearchOptions{Query: query, MaxResults: intPtr(25)})
	if err != nil {
		t.Fatalf("search all: %v", err)
	}

	if got := len(result.Documents); got != 25 {
		t.Fatalf("documents = %d, want exactly the cap", got)
	}
	if result.Stop != models.StopLimitReached {
		t.Fatalf("stop = %q, want %q", result.Stop, models.StopLimitReached)
	}
	if got := transport.GetTotalCallCount(); got != 3 {
		t.Fatalf("http calls = %d, want 3 (no request past the cap)", got)
	}
	if last := result.Documents[24]; last.DocumentID != "doc-0024" {
		t.Fatalf("last document = %q, want doc-0024", last.DocumentID)
	}
}

func TestSearchAllCapOnPageBoundary(t *testing.T) {
	c, transport := newTestClient(t)
	transport.RegisterResponder("GET", searchURL(c.base, "memo", 0),
		jsonResponder(buildJSONPage(0, 10, 100)))

	result, err := c.SearchAll(context.Background(), SearchOptions{Query: "memo", MaxResults: intPtr(10)})
	if err != nil {
		t.Fatalf("search all: %v", err)
	}

	if got := len(result.Documents); got != 10 {
		t.Fatalf("documents = %d, want 10", got)
	}
	if result.Stop != models.StopLimitReached {
		t.Fatalf("stop = %q, want %q", result.Stop, models.StopLimitReached)
	}
	if got := transport.GetTotalCallCount(); got != 1 {
		t.Fatalf("http calls = %d, want 1", got)
	}
}

func TestSearchAllExhaustionWinsOverCap(t *testing.T) {
	c, transport := newTestClient(t)
	transport.RegisterResponder("GET", searchURL(c.base, "memo", 0),
		jsonResponder(buildJSONPage(0, 5, 5)))

	result, err := c.SearchAll(context.Background(), SearchOptions{Query: "memo", MaxResults: intPtr(5)})
	if err != nil {
		t.Fatalf("search all: %v", err)
	}

	if got := len(result.Documents); got != 5 {
		t.Fatalf("documents = %d, want 5", got)
	}
	if result.Stop != models.StopExhausted {
		t.Fatalf("stop = %q, want %q when the endpoint runs out first", result.Stop, models.StopExhausted)
	}
}

func TestSearchAllEmptyFirstPage(t *testing.T) {
	c, transport := newTestClient(t)
	transport.RegisterResponder("GET", searchURL(c.base, "nonexistent term", 0),
		jsonResponder(buildJSONPage(0, 0, 0)))

	result, err := c.SearchAll(context.Background(), SearchOptions{Query: "nonexistent term"})
	if err != nil {
		t.Fatalf("search all: %v", err)
	}

	if got := len(result.Documents); got != 0 {
		t.Fatalf("documents = %d, want 0", got)
	}
	if result.RequestCount != 1 {
		t.Fatalf("requests = %d, want exactly 1", result.RequestCount)
	}
	if result.Stop != models.StopExhausted {
		t.Fatalf("stop = %q, want %q", result.Stop, models.StopExhausted)
	}
}

func TestSearchAllNonPositiveCap(t *testing.T) {
	for _, limit := range []int{0, -3} {
		t.Run(fmt.Sprintf("cap_%d", limit), func(t *testing.T) {
			c, transport := newTestClient(t)

			result, err := c.SearchAll(context.Background(), SearchOptions{Query: "memo", MaxResults: intPtr(limit)})
			if err != nil {
				t.Fatalf("search all: %v", err)
			}
			if got := len(result.Documents); got != 0 {
				t.Fatalf("documents = %d, want 0", got)
			}
			if result.Stop != models.StopLimitReached {
				t.Fatalf("stop = %q, want %q", result.Stop, models.StopLimitReached)
			}
			if got := transport.GetTotalCallCount(); got != 0 {
				t.Fatalf("http calls = %d, want 0", got)
			}
		})
	}
}

func TestSearchAllKeepsPartialResultsOnFailure(t *testing.T) {
	c, transport := newTestClient(t)
	query := "flight logs"
	cause := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	transport.RegisterResponder("GET", searchURL(c.base, query, 0),
		jsonResponder(buildJSONPage(0, 10, 50)))
	transport.RegisterResponder("GET", searchURL(c.base, query, 1),
		jsonResponder(buildJSONPage(10, 10, 50)))
	transport.RegisterResponder("GET", searchURL(c.base, query, 2),
		httpmock.NewErrorResponder(cause))

	result, err := c.SearchAll(context.Background(), SearchOptions{Query: query})
	if err == nil {
		t.Fatalf("search all should report the page failure")
	}

	var conn ErrConnection
	if !errors.As(err, &conn) {
		t.Fatalf("err = %T (%v), want ErrConnection", err, err)
	}
	if got := len(result.Documents); got != 20 {
		t.Fatalf("documents = %d, want the 20 aggregated before the failure", got)
	}
	if result.Documents[19].DocumentID != "doc-0019" {
		t.Fatalf("last document = %q, want doc-0019", result.Documents[19].DocumentID)
	}
	if result.Stop != models.StopFailed {
		t.Fatalf("stop = %q, want %q", result.Stop, models.StopFailed)
	}
	if result.RequestCount != 3 || result.PagesFetched != 2 {
		t.Fatalf("requests/pages = %d/%d, want 3/2", result.RequestCount, result.PagesFetched)
	}
}

func TestSearchAllHTMLPagination(t *testing.T) {
	c, transport := newTestClient(t)
	query := "hearing"
	transport.RegisterResponder("GET", searchURL(c.base, query, 0),
		htmlResponder(buildHTMLPage(0, 10, true)))
	transport.RegisterResponder("GET", searchURL(c.base, query, 1),
		htmlResponder(buildHTMLPage(10, 3, false)))

	result, err := c.SearchAll(context.Background(), SearchOptions{Query: query})
	if err != nil {
		t.Fatalf("search all: %v", err)
	}

	if got := len(result.Documents); got != 13 {
		t.Fatalf("documents = %d, want 13", got)
	}
	if result.RequestCount != 2 {
		t.Fatalf("requests = %d, want 2", result.RequestCount)
	}
	if result.Stop != models.StopExhausted {
		t.Fatalf("stop = %q, want %q", result.Stop, models.StopExhausted)
	}
	if doc := result.Documents[0]; doc.URL != "/files/record-0.pdf" {
		t.Fatalf("url = %q, want /files/record-0.pdf", doc.URL)
	}
}

func TestSearchAllCountsDuplicateIDs(t *testing.T) {
	c, transport := newTestClient(t)
	query := "memo"
	transport.RegisterResponder("GET", searchURL(c.base, query, 0),
		jsonResponder(buildJSONPage(0, 10, 14)))
	// Page 1 repeats the first four IDs, as the endpoint's sort order
	// sometimes does across page boundaries.
	transport.RegisterResponder("GET", searchURL(c.base, query, 1),
		jsonResponder(buildJSONPage(0, 4, 14)))

	result, err := c.SearchAll(context.Background(), SearchOptions{Query: query})
	if err != nil {
		t.Fatalf("search all: %v", err)
	}

	if got := len(result.Documents); got != 14 {
		t.Fatalf("documents = %d, want 14 (repeats are kept)", got)
	}
	if result.DuplicateIDs != 4 {
		t.Fatalf("duplicate ids = %d, want 4", result.DuplicateIDs)
	}
}

func TestSearchAllCanceledContext(t *testing.T) {
	c, transport := newTestClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := c.SearchAll(ctx, SearchOptions{Query: "memo"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if result.RequestCount != 0 {
		t.Fatalf("requests = %d, want 0", result.RequestCount)
	}
	if result.Stop != models.StopFailed {
		t.Fatalf("stop = %q, want %q", result.Stop, models.StopFailed)
	}
	if got := transport.GetTotalCallCount(); got != 0 {
		t.Fatalf("http calls = %d, want 0", got)
	}
}

func TestSearchStatusErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{name: "not found", status: http.StatusNotFound, check: func(err error) bool {
			var e ErrNotFound
			return errors.As(err, &e)
		}},
		{name: "rate limited", status: http.StatusTooManyRequests, check: func(err error) bool {
			var e ErrRateLimited
			return errors.As(err, &e)
		}},
		{name: "server error", status: http.StatusInternalServerError, check: func(err error) bool {
			var e ErrStatus
			return errors.As(err, &e) && e.Code == http.StatusInternalServerError
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, transport := newTestClient(t)
			transport.RegisterResponder("GET", searchURL(c.base, "memo", 0),
				httpmock.NewStringResponder(tt.status, ""))

			docs, _, err := c.Search(context.Background(), "memo", 0)
			if err == nil {
				t.Fatalf("search should fail for status %d", tt.status)
			}
			if !tt.check(err) {
				t.Fatalf("err = %T (%v), want classification for status %d", err, err, tt.status)
			}
			if docs != nil {
				t.Fatalf("documents = %v, want nil on failure", docs)
			}
		})
	}
}

func TestSleep(t *testing.T) {
	if err := sleep(context.Background(), 0); err != nil {
		t.Fatalf("sleep(0) = %v, want nil", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	if err := sleep(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Fatalf("sleep on canceled context = %v, want context.Canceled", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("sleep took %v, want an immediate return", elapsed)
	}
}

func TestDuplicateObserver(t *testing.T) {
	o := newDuplicateObserver()
	o.observe("a")
	o.observe("b")
	o.observe("a")
	o.observe("")
	o.observe("")
	o.observe("b")

	if o.repeats != 2 {
		t.Fatalf("repeats = %d, want 2 (empty ids never count)", o.repeats)
	}
}

func intPtr(n int) *int {
	return &n
}

func jsonResponder(body string) httpmock.Responder {
	resp := httpmock.NewStringResponse(200, body)
	resp.Header.Set("Content-Type", "application/json")
	return httpmock.ResponderFromResponse(resp)
}

func htmlResponder(body string) httpmock.Responder {
	resp := httpmock.NewStringResponse(200, body)
	resp.Header.Set("Content-Type", "text/html")
	return httpmock.ResponderFromResponse(resp)
}

func buildJSONPage(firstID, count, total int) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, `{"hits": {"total": {"value": %d}, "hits": [`, total)
	for i := 0; i < count; i++ {
		if i > 0 {
			builder.WriteString(",")
		}
		id := firstID + i
		fmt.Fprintf(&builder,
			`{"_source": {"documentId": "doc-%04d", "ORIGIN_FILE_NAME": "Record %d.pdf", "ORIGIN_FILE_URI": "https://www.justice.gov/files/Record %d.pdf", "fileSize": %d, "totalWords": %d, "startPage": 1, "endPage": 3, "isChunked": false, "indexedAt": "2025-07-01T10:00:00Z"}}`,
			id, id, id, 1000+id, 100*id)
	}
	builder.WriteString("]}}")
	return builder.String()
}

func buildHTMLPage(firstID, count int, hasNext bool) string {
	var builder strings.Builder
	builder.WriteString("<html><body><section>")
	for i := 0; i < count; i++ {
		id := firstID + i
		fmt.Fprintf(&builder,
			"<article class=\"search-result\"><h3>Record %d</h3><a href=\"/files/record-%d.pdf\">view</a><span class=\"document-id\">doc-%04d</span></article>",
			id, id, id)
	}
	if hasNext {
		builder.WriteString("<nav class=\"pager\"><a rel=\"next\" href=\"?page=1\">Next</a></nav>")
	}
	builder.WriteString("</section></body></html>")
	return builder.String()
}
