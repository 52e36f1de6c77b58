package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/doj-tools/dojsearch/models"
)

// OutputWriter is the common surface of the report writers.
type OutputWriter interface {
	Write(docs []*models.Document) error
	Close() error
	Validate() error
}

// csvHeader lists the CSV columns in record-field order.
var csvHeader = []string{
	"title",
	"file_name",
	"url",
	"document_id",
	"file_size",
	"total_words",
	"start_page",
	"end_page",
	"is_chunked",
	"indexed_at",
	"page",
}

// CSVWriter writes records to CSV.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter initialises a CSV writer and writes the header row.
func NewCSVWriter(filename string) (*CSVWriter, error) {
	if err := ensureDir(filename); err != nil {
		return nil, err
	}

	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create csv file: %w", err)
	}

	writer := csv.NewWriter(f)
	if err := writer.Write(csvHeader); err != nil {
		f.Close()
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		f.Close()
		return nil, fmt.Errorf("flush csv header: %w", err)
	}

	return &CSVWriter{
		file:   f,
		writer: writer,
	}, nil
}

// Write appends documents to the CSV output.
func (cw *CSVWriter) Write(docs []*models.Document) error {
	for _, doc := range docs {
		record := []string{
			doc.Title,
			doc.FileName,
			doc.URL,
			doc.DocumentID,
			strconv.FormatInt(doc.FileSize, 10),
			strconv.Itoa(doc.TotalWords),
			strconv.Itoa(doc.StartPage),
			strconv.Itoa(doc.EndPage),
			strconv.FormatBool(doc.IsChunked),
			doc.IndexedAt,
			strconv.Itoa(doc.Page),
		}
		if err := cw.writer.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}
	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return fmt.Errorf("flush csv records: %w", err)
	}
	return nil
}

// Close flushes and closes the file handle.
func (cw *CSVWriter) Close() error {
	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return fmt.Errorf("flush csv writer: %w", err)
	}
	return cw.file.Close()
}

// Validate ensures the file has content.
func (cw *CSVWriter) Validate() error {
	info, err := cw.file.Stat()
	if err != nil {
		return fmt.Errorf("stat csv file: %w", err)
	}
	if info.Size() <= 0 {
		return fmt.Errorf("csv file is empty")
	}
	return nil
}

// JSONWriter writes the record list as one indented JSON array.
type JSONWriter struct {
	file   *os.File
	writer *bufio.Writer
}

// NewJSONWriter initialises the JSON writer.
func NewJSONWriter(filename string) (*JSONWriter, error) {
	if err := ensureDir(filename); err != nil {
		return nil, err
	}

	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create json file: %w", err)
	}

	return &JSONWriter{
		file:   f,
		writer: bufio.NewWriter(f),
	}, nil
}

// Write emits docs as a pretty-printed JSON array. HTML escaping is off
// so URLs stay readable in the file.
func (jw *JSONWriter) Write(docs []*models.Document) error {
	if docs == nil {
		docs = []*models.Document{}
	}
	enc := json.NewEncoder(jw.writer)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(docs); err != nil {
		return fmt.Errorf("encode json records: %w", err)
	}
	if err := jw.writer.Flush(); err != nil {
		return fmt.Errorf("flush json writer: %w", err)
	}
	return nil
}

// Close flushes buffers and closes the underlying file.
func (jw *JSONWriter) Close() error {
	if err := jw.writer.Flush(); err != nil {
		return fmt.Errorf("flush json writer: %w", err)
	}
	return jw.file.Close()
}

// Validate ensures the JSON file has data.
func (jw *JSONWriter) Validate() error {
	info, err := jw.file.Stat()
	if err != nil {
		return fmt.Errorf("stat json file: %w", err)
	}
	if info.Size() <= 0 {
		return fmt.Errorf("json file is empty")
	}
	return nil
}

// URLListWriter writes one URL per line, one line per record, so file
// lines match record order exactly.
type URLListWriter struct {
	file   *os.File
	writer *bufio.Writer
}

// NewURLListWriter initialises the URL list writer.
func NewURLListWriter(filename string) (*URLListWriter, error) {
	if err := ensureDir(filename); err != nil {
		return nil, err
	}

	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create url list file: %w", err)
	}

	return &URLListWriter{
		file:   f,
		writer: bufio.NewWriter(f),
	}, nil
}

// Write appends one line per document.
func (uw *URLListWriter) Write(docs []*models.Document) error {
	for _, doc := range docs {
		if _, err := uw.writer.WriteString(doc.URL + "\n"); err != nil {
			return fmt.Errorf("write url line: %w", err)
		}
	}
	if err := uw.writer.Flush(); err != nil {
		return fmt.Errorf("flush url list writer: %w", err)
	}
	return nil
}

// Close flushes buffers and closes the underlying file.
func (uw *URLListWriter) Close() error {
	if err := uw.writer.Flush(); err != nil {
		return fmt.Errorf("flush url list writer: %w", err)
	}
	return uw.file.Close()
}

// Validate ensures the file reached disk. Zero records legitimately
// produce an empty list.
func (uw *URLListWriter) Validate() error {
	if _, err := uw.file.Stat(); err != nil {
		return fmt.Errorf("stat url list file: %w", err)
	}
	return nil
}

func ensureDir(filename string) error {
	dir := filepath.Dir(filename)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}
