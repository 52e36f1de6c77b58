package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/doj-tools/dojsearch/export"
	"github.com/doj-tools/dojsearch/models"
)

const ruleWidth = 50

// printSummary renders the session outcome. On failure the partial
// counts still print; the records gathered before the failure are kept.
func printSummary(w io.Writer, result *models.SearchResult, runErr error) {
	rule := ruleStyle.Render(strings.Repeat("─", ruleWidth))

	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, titleStyle.Render("Search complete"))

	query := result.Query
	if query == "" {
		query = "(all documents)"
	}
	printField(w, "Query", query)
	printField(w, "Documents", fmt.Sprintf("%d", len(result.Documents)))
	if result.TotalReported > 0 {
		printField(w, "Total reported", fmt.Sprintf("%d", result.TotalReported))
	}
	printField(w, "Pages fetched", fmt.Sprintf("%d", result.PagesFetched))
	printField(w, "Requests", fmt.Sprintf("%d", result.RequestCount))
	if result.DuplicateIDs > 0 {
		printField(w, "Duplicate IDs", warnStyle.Render(fmt.Sprintf("%d", result.DuplicateIDs)))
	}
	printField(w, "Stopped", string(result.Stop))
	printField(w, "Duration", result.Duration().Round(time.Millisecond).String())

	if runErr != nil {
		fmt.Fprintln(w, errorStyle.Render(fmt.Sprintf("  Failed: %v", runErr)))
	}
	if len(result.Documents) == 0 && runErr == nil {
		fmt.Fprintln(w, warnStyle.Render("  No documents found."))
	}
	fmt.Fprintln(w, rule)
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %s %s\n", labelStyle.Render(fmt.Sprintf("%-15s", label+":")), value)
}

// printSaved lists the report artifacts one save produced.
func printSaved(w io.Writer, paths *export.Paths, count int) {
	fmt.Fprintln(w, successStyle.Render(fmt.Sprintf("Saved %d records to:", count)))
	printField(w, "JSON", paths.JSON)
	printField(w, "CSV", paths.CSV)
	printField(w, "URLs", paths.URLs)
	fmt.Fprintln(w)
}

// printHead previews the first records, mirroring the endpoint's
// relevance order.
func printHead(w io.Writer, docs []*models.Document, head int) {
	if head <= 0 || len(docs) == 0 {
		return
	}
	if head > len(docs) {
		head = len(docs)
	}
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("First %d results", head)))
	for i, doc := range docs[:head] {
		title := doc.Title
		if title == "" {
			title = doc.FileName
		}
		if title == "" {
			title = doc.URL
		}
		fmt.Fprintf(w, "  %2d. %s\n", i+1, title)
		if doc.URL != "" {
			fmt.Fprintf(w, "      %s\n", labelStyle.Render(doc.URL))
		}
		if details := documentDetails(doc); details != "" {
			fmt.Fprintf(w, "      %s\n", labelStyle.Render(details))
		}
	}
	fmt.Fprintln(w)
}

// documentDetails renders the metadata line under a preview entry.
// Fields still at their defaults are left out.
func documentDetails(doc *models.Document) string {
	var parts []string
	if doc.DocumentID != "" {
		parts = append(parts, "id "+doc.DocumentID)
	}
	if doc.StartPage > 0 || doc.EndPage > 0 {
		parts = append(parts, fmt.Sprintf("pages %d-%d", doc.StartPage, doc.EndPage))
	}
	if doc.FileSize > 0 {
		parts = append(parts, fmt.Sprintf("%d bytes", doc.FileSize))
	}
	if doc.TotalWords > 0 {
		parts = append(parts, fmt.Sprintf("%d words", doc.TotalWords))
	}
	if doc.IsChunked {
		parts = append(parts, "chunked")
	}
	if doc.IndexedAt != "" {
		parts = append(parts, "indexed "+doc.IndexedAt)
	}
	return strings.Join(parts, ", ")
}
