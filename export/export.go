// Package export serializes search results into report files.
package export

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/kennygrant/sanitize"

	"github.com/doj-tools/dojsearch/models"
)

const timestampLayout = "20060102_150405"

// Paths names the artifacts one save produces.
type Paths struct {
	JSON string
	CSV  string
	URLs string
}

// SaveResults writes documents to three sibling artifacts under dir: a
// pretty-printed JSON array, a CSV table, and a plain URL list. File
// names follow "<prefix>_<timestamp>" with the prefix sanitized for
// file system use; the directory is created when missing. Records go
// out exactly as aggregated, in order.
func SaveResults(docs []*models.Document, prefix, dir string) (*Paths, error) {
	base := sanitize.BaseName(prefix)
	if base == "" {
		base = "results"
	}
	stamp := time.Now().Format(timestampLayout)
	paths := &Paths{
		JSON: filepath.Join(dir, fmt.Sprintf("%s_%s.json", base, stamp)),
		CSV:  filepath.Join(dir, fmt.Sprintf("%s_%s.csv", base, stamp)),
		URLs: filepath.Join(dir, fmt.Sprintf("%s_%s_urls.txt", base, stamp)),
	}

	jw, err := NewJSONWriter(paths.JSON)
	if err != nil {
		return nil, err
	}
	if err := writeAndClose(jw, docs); err != nil {
		return nil, err
	}

	cw, err := NewCSVWriter(paths.CSV)
	if err != nil {
		return nil, err
	}
	if err := writeAndClose(cw, docs); err != nil {
		return nil, err
	}

	uw, err := NewURLListWriter(paths.URLs)
	if err != nil {
		return nil, err
	}
	if err := writeAndClose(uw, docs); err != nil {
		return nil, err
	}

	return paths, nil
}

// writeAndClose pushes the whole record list through one writer,
// validating the artifact before the handle closes.
func writeAndClose(w OutputWriter, docs []*models.Document) error {
	if err := w.Write(docs); err != nil {
		w.Close()
		return err
	}
	if err := w.Validate(); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
