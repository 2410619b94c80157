package tabular

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Reader parses one tabular CSV dataset: a header row naming the columns,
// followed by flat data rows addressed by column name.
type Reader struct {
	headerMap  map[string]int
	headers    []string
	currentRow int
	reader     *csv.Reader
	bufReader  *bufio.Reader
}

// NewReader creates a Reader over the raw CSV stream. A UTF-8 BOM is
// stripped and non-UTF-8 content is rejected up front.
func NewReader(r io.Reader) (*Reader, error) {
	tr := &Reader{
		headerMap: make(map[string]int),
		bufReader: bufio.NewReader(r),
	}

	// UTF-8 BOM: 0xEF, 0xBB, 0xBF
	head, err := tr.bufReader.Peek(3)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(head) >= 3 && head[0] == 0xEF && head[1] == 0xBB && head[2] == 0xBF {
		_, _ = tr.bufReader.Discard(3)
	}

	if err := validateUTF8(tr.bufReader); err != nil {
		return nil, err
	}

	tr.reader = csv.NewReader(tr.bufReader)
	tr.reader.LazyQuotes = true
	tr.reader.TrimLeadingSpace = true
	tr.reader.FieldsPerRecord = -1 // Allow variable number of fields

	return tr, nil
}

// validateUTF8 checks that the content is valid UTF-8
func validateUTF8(r *bufio.Reader) error {
	const checkSize = 4096
	content, err := r.Peek(checkSize)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read file for encoding validation: %w", err)
	}

	if len(content) == 0 {
		return ErrEmptyFile
	}

	if !utf8.Valid(content) {
		return ErrInvalidEncoding
	}

	return nil
}

// ParseHeader reads and parses the header row
func (t *Reader) ParseHeader() error {
	record, err := t.reader.Read()
	if err == io.EOF {
		return ErrMissingHeader
	}
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	t.headers = make([]string, len(record))
	for i, h := range record {
		header := strings.TrimSpace(h)
		t.headers[i] = header
		t.headerMap[header] = i
	}

	if len(t.headers) == 0 {
		return ErrMissingHeader
	}

	t.currentRow = 1 // Header is row 1

	return nil
}

// Headers returns the parsed header names
func (t *Reader) Headers() []string {
	return t.headers
}

// HasHeader checks if a header exists
func (t *Reader) HasHeader(name string) bool {
	_, ok := t.headerMap[name]
	return ok
}

// MissingHeaders returns which of the required headers are absent
func (t *Reader) MissingHeaders(required []string) []string {
	var missing []string
	for _, h := range required {
		if !t.HasHeader(h) {
			missing = append(missing, h)
		}
	}
	return missing
}

// Row represents a parsed CSV row with its data and line number
type Row struct {
	LineNumber int
	Data       map[string]string
}

// Get returns the value for a column by header name
func (r *Row) Get(header string) string {
	return r.Data[header]
}

// IsEmpty returns true if the row has no non-empty values
func (r *Row) IsEmpty() bool {
	for _, v := range r.Data {
		if v != "" {
			return false
		}
	}
	return true
}

// ReadAllRows reads every remaining data row, skipping fully empty ones
func (t *Reader) ReadAllRows() ([]*Row, error) {
	var rows []*Row

	for {
		record, err := t.reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.currentRow++
			return rows, fmt.Errorf("error reading row %d: %w", t.currentRow, err)
		}

		t.currentRow++

		row := &Row{
			LineNumber: t.currentRow,
			Data:       make(map[string]string, len(t.headers)),
		}
		for i, header := range t.headers {
			if i < len(record) {
				row.Data[header] = strings.TrimSpace(record[i])
			} else {
				row.Data[header] = ""
			}
		}

		if row.IsEmpty() {
			continue
		}

		rows = append(rows, row)
	}

	return rows, nil
}
