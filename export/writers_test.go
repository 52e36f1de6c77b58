package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/doj-tools/dojsearch/models"
)

func sampleDocuments() []*models.Document {
	return []*models.Document{
		{
			Title:      "Flight Log 1.pdf",
			FileName:   "Flight Log 1.pdf",
			URL:        "https://www.justice.gov/files/Flight%20Log%201.pdf",
			DocumentID: "doc-0001",
			FileSize:   52431,
			TotalWords: 12808,
			StartPage:  3,
			EndPage:    7,
			IsChunked:  true,
			IndexedAt:  "2025-07-01T10:00:00Z",
			Page:       0,
		},
		{
			Title:      "Deposition Vol 2.pdf",
			FileName:   "Deposition Vol 2.pdf",
			URL:        "https://www.justice.gov/files/a&b.pdf",
			DocumentID: "doc-0002",
			Page:       1,
		},
	}
}

func TestCSVWriterWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "documents.csv")

	writer, err := NewCSVWriter(path)
	if err != nil {
		t.Fatalf("create csv writer: %v", err)
	}
	if err := writer.Write(sampleDocuments()); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close csv: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open csv: %v", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records=%d, want 3 (header plus two rows)", len(records))
	}
	if records[0][0] != "title" || records[0][4] != "file_size" || records[0][10] != "page" {
		t.Fatalf("unexpected header: %v", records[0])
	}

	row := records[1]
	if row[0] != "Flight Log 1.pdf" {
		t.Fatalf("title=%q, want %q", row[0], "Flight Log 1.pdf")
	}
	if row[4] != "52431" || row[5] != "12808" {
		t.Fatalf("numeric columns=%q/%q, want 52431/12808", row[4], row[5])
	}
	if row[8] != "true" {
		t.Fatalf("is_chunked=%q, want true", row[8])
	}

	empty := records[2]
	if empty[4] != "0" || empty[8] != "false" || empty[9] != "" {
		t.Fatalf("defaulted columns=%q/%q/%q, want 0/false/empty", empty[4], empty[8], empty[9])
	}
}

func TestJSONWriterWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "documents.json")

	writer, err := NewJSONWriter(path)
	if err != nil {
		t.Fatalf("create json writer: %v", err)
	}
	if err := writer.Write(sampleDocuments()); err != nil {
		t.Fatalf("write json: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close json: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read json: %v", err)
	}

	var decoded []*models.Document
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("documents=%d, want 2", len(decoded))
	}
	if decoded[0].DocumentID != "doc-0001" || decoded[0].FileSize != 52431 {
		t.Fatalf("first document did not round-trip: %+v", decoded[0])
	}
	if !strings.Contains(string(raw), "a&b.pdf") {
		t.Fatalf("ampersand should not be escaped in %q", raw)
	}
}

func TestJSONWriterEmptyList(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "documents.json")

	writer, err := NewJSONWriter(path)
	if err != nil {
		t.Fatalf("create json writer: %v", err)
	}
	if err := writer.Write(nil); err != nil {
		t.Fatalf("write json: %v", err)
	}
	if err := writer.Validate(); err != nil {
		t.Fatalf("validate json: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close json: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	var decoded []*models.Document
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if len(decoded) != 0 {
		t.Fatalf("documents=%d, want 0", len(decoded))
	}
}

func TestURLListWriterWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "urls.txt")

	writer, err := NewURLListWriter(path)
	if err != nil {
		t.Fatalf("create url list writer: %v", err)
	}
	if err := writer.Write(sampleDocuments()); err != nil {
		t.Fatalf("write url list: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close url list: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open url list: %v", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan url list: %v", err)
	}

	if len(lines) != 2 {
		t.Fatalf("lines=%d, want one line per record", len(lines))
	}
	if lines[0] != "https://www.justice.gov/files/Flight%20Log%201.pdf" {
		t.Fatalf("line 1=%q", lines[0])
	}
	if lines[1] != "https://www.justice.gov/files/a&b.pdf" {
		t.Fatalf("line 2=%q", lines[1])
	}
}

func TestWritersCreateMissingDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reports", "nested", "documents.csv")

	writer, err := NewCSVWriter(path)
	if err != nil {
		t.Fatalf("create csv writer: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close csv: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("csv file missing: %v", err)
	}
}
