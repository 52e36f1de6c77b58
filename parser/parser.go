// Package parser extracts document records from raw search responses.
//
// The endpoint answers in one of two shapes: an Elasticsearch-style JSON
// envelope, or server-rendered HTML when the JSON layer is unavailable.
// Parsing is total: every result block yields a fully populated record,
// with missing or malformed fields replaced by their defaults (empty
// string, zero, or false) instead of failing the page.
package parser

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/doj-tools/dojsearch/models"
)

// EndpointPageSize is the fixed number of results the endpoint returns
// per page. The page size is not controllable by the caller.
const EndpointPageSize = 10

// ParsePage extracts the documents on one results page. The JSON shape
// is tried first; anything that does not decode as the JSON envelope is
// treated as HTML. Result order is preserved as it carries the
// endpoint's relevance ranking.
func ParsePage(body []byte, page int) *models.Page {
	if p, ok := parseJSONPage(body, page); ok {
		return p
	}
	return parseHTMLPage(body, page)
}

// esResponse mirrors the Elasticsearch envelope the endpoint returns.
type esResponse struct {
	Hits esHits `json:"hits"`
}

type esHits struct {
	Total esTotal `json:"total"`
	Hits  []esHit `json:"hits"`
}

type esHit struct {
	Source map[string]any `json:"_source"`
}

// esTotal accepts both the modern {"value": N, "relation": "eq"} object
// and the legacy bare-integer form.
type esTotal struct {
	Value int `json:"value"`
}

func (t *esTotal) UnmarshalJSON(data []byte) error {
	var obj struct {
		Value int `json:"value"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		t.Value = obj.Value
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		t.Value = n
		return nil
	}
	t.Value = 0
	return nil
}

func parseJSONPage(body []byte, page int) (*models.Page, bool) {
	var resp esResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, false
	}
	docs := make([]*models.Document, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		docs = append(docs, documentFromSource(hit.Source, page))
	}
	return &models.Page{
		Number:       page,
		Kind:         models.PageKindJSON,
		Documents:    docs,
		TotalResults: resp.Hits.Total.Value,
	}, true
}

// documentFromSource maps one Elasticsearch hit source onto a Document.
// Each field names its own source key and tolerates the value arriving
// as the wrong JSON type.
func documentFromSource(source map[string]any, page int) *models.Document {
	name := stringField(source, "ORIGIN_FILE_NAME")
	return &models.Document{
		Title:      name,
		FileName:   name,
		URL:        encodeURLSpaces(stringField(source, "ORIGIN_FILE_URI")),
		DocumentID: stringField(source, "documentId"),
		FileSize:   intField(source, "fileSize"),
		TotalWords: int(intField(source, "totalWords")),
		StartPage:  int(intField(source, "startPage")),
		EndPage:    int(intField(source, "endPage")),
		IsChunked:  boolField(source, "isChunked"),
		IndexedAt:  stringField(source, "indexedAt"),
		Page:       page,
	}
}

func stringField(source map[string]any, key string) string {
	s, _ := source[key].(string)
	return strings.TrimSpace(s)
}

// intField reads a numeric source value that may arrive as a JSON
// number or as a human-formatted string such as "12,808".
func intField(source map[string]any, key string) int64 {
	switch v := source[key].(type) {
	case float64:
		return int64(v)
	case string:
		return parseHumanInt(v)
	case bool:
		if v {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func boolField(source map[string]any, key string) bool {
	switch v := source[key].(type) {
	case bool:
		return v
	case string:
		return parseBoolText(v)
	case float64:
		return v != 0
	default:
		return false
	}
}

// blockSelectors lists the selector tried for each Document field inside
// one HTML result block. A field whose selector matches nothing falls
// back to its default, so the mapping from block to record is total.
var blockSelectors = struct {
	title      string
	fileName   string
	documentID string
	fileSize   string
	totalWords string
	startPage  string
	endPage    string
	chunked    string
	indexedAt  string
}{
	title:      "h2, h3, h4, a",
	fileName:   ".file-name, .filename",
	documentID: ".document-id, .doc-id",
	fileSize:   ".file-size, .size",
	totalWords: ".total-words, .word-count",
	startPage:  ".start-page",
	endPage:    ".end-page",
	chunked:    ".chunked, .is-chunked",
	indexedAt:  "time[datetime], .indexed-at",
}

func parseHTMLPage(body []byte, page int) *models.Page {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return &models.Page{Number: page, Kind: models.PageKindHTML}
	}
	var docs []*models.Document
	resultBlocks(doc).Each(func(_ int, block *goquery.Selection) {
		if d := documentFromBlock(block, page); d != nil {
			docs = append(docs, d)
		}
	})
	return &models.Page{
		Number:      page,
		Kind:        models.PageKindHTML,
		Documents:   docs,
		HasNextLink: hasNextAffordance(doc),
	}
}

// resultBlocks finds the result containers on an HTML page: any article
// or div whose class mentions "result", else any div whose class
// mentions "item".
func resultBlocks(doc *goquery.Document) *goquery.Selection {
	blocks := doc.Find("article, div").FilterFunction(classContains("result"))
	if blocks.Length() == 0 {
		blocks = doc.Find("div").FilterFunction(classContains("item"))
	}
	return blocks
}

func classContains(fragment string) func(int, *goquery.Selection) bool {
	return func(_ int, sel *goquery.Selection) bool {
		class, ok := sel.Attr("class")
		return ok && strings.Contains(strings.ToLower(class), fragment)
	}
}

// documentFromBlock extracts one record from a result block. A block
// with no link is not a usable result and yields nil; every other field
// degrades to its default when absent.
func documentFromBlock(block *goquery.Selection, page int) *models.Document {
	link := block.Find("a[href]").First()
	if link.Length() == 0 {
		return nil
	}
	href, _ := link.Attr("href")
	pageURL := encodeURLSpaces(strings.TrimSpace(href))

	fileName := blockText(block, blockSelectors.fileName)
	if fileName == "" {
		fileName = urlBaseName(pageURL)
	}
	return &models.Document{
		Title:      blockText(block, blockSelectors.title),
		FileName:   fileName,
		URL:        pageURL,
		DocumentID: blockText(block, blockSelectors.documentID),
		FileSize:   parseHumanInt(blockText(block, blockSelectors.fileSize)),
		TotalWords: int(parseHumanInt(blockText(block, blockSelectors.totalWords))),
		StartPage:  int(parseHumanInt(blockText(block, blockSelectors.startPage))),
		EndPage:    int(parseHumanInt(blockText(block, blockSelectors.endPage))),
		IsChunked:  parseBoolText(blockText(block, blockSelectors.chunked)),
		IndexedAt:  indexedAtText(block),
		Page:       page,
	}
}

func blockText(block *goquery.Selection, selector string) string {
	return strings.TrimSpace(block.Find(selector).First().Text())
}

// indexedAtText prefers a machine-readable datetime attribute over the
// element's display text.
func indexedAtText(block *goquery.Selection) string {
	el := block.Find(blockSelectors.indexedAt).First()
	if dt, ok := el.Attr("datetime"); ok {
		return strings.TrimSpace(dt)
	}
	return strings.TrimSpace(el.Text())
}

// hasNextAffordance reports whether an HTML page links to a further
// results page: a rel=next anchor, or a pagination nav containing a
// link whose text mentions "next".
func hasNextAffordance(doc *goquery.Document) bool {
	if doc.Find("a[rel=next]").Length() > 0 {
		return true
	}
	found := false
	doc.Find("nav").FilterFunction(classContains("pag")).Find("a").
		EachWithBreak(func(_ int, a *goquery.Selection) bool {
			if strings.Contains(strings.ToLower(a.Text()), "next") {
				found = true
				return false
			}
			return true
		})
	return found
}

// encodeURLSpaces percent-encodes bare spaces in a link target. The
// endpoint emits otherwise well-formed URLs whose file names contain
// literal spaces.
func encodeURLSpaces(raw string) string {
	return strings.ReplaceAll(raw, " ", "%20")
}

// urlBaseName returns the last path segment of a link target, the usual
// stand-in for a file name.
func urlBaseName(raw string) string {
	raw = strings.TrimSuffix(raw, "/")
	if i := strings.LastIndex(raw, "/"); i >= 0 {
		raw = raw[i+1:]
	}
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		raw = raw[:i]
	}
	return raw
}

// parseHumanInt reads the first integer out of a human-formatted count
// such as "1,234,567", "245 pages" or "12808". Thousands separators are
// stripped; input with no digits yields 0.
func parseHumanInt(s string) int64 {
	start := -1
	for i, r := range s {
		if r >= '0' && r <= '9' {
			start = i
			break
		}
	}
	if start < 0 {
		return 0
	}
	end := len(s)
	for i := start; i < len(s); i++ {
		if c := s[i]; (c < '0' || c > '9') && c != ',' {
			end = i
			break
		}
	}
	digits := strings.ReplaceAll(s[start:end], ",", "")
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// parseBoolText reads an affirmative marker out of display text.
func parseBoolText(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1", "chunked":
		return true
	default:
		return false
	}
}
