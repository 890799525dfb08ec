// =============================================================================
// csv2html - CSV Parser Module
// =============================================================================
//
// This module reads the delimited-text catalog export. The first row names
// the fields; every following row becomes one types.Record keyed by those
// names.
//
// FEATURES:
//   - Configurable delimiter (comma, tab, pipe, semicolon, any single rune)
//   - Any WHATWG character encoding, with a leading byte-order mark ignored
//   - Quoted fields containing delimiters and line breaks
//   - Rows shorter than the header keep track of their unfilled columns
//
// ROW SEMANTICS:
//   - Blank lines are skipped; they are not records.
//   - A row whose cells are all empty is still a record.
//   - Cells beyond the header width are ignored.
//   - Cell values are kept verbatim unless TrimSpace is set.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ginjaninja78/csv2html/internal/config"
	"github.com/ginjaninja78/csv2html/internal/types"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// ParseFile reads a delimited-text file and returns every record.
//
// Errors from opening the file are wrapped, so callers can test for
// os.ErrNotExist with errors.Is.
func ParseFile(filePath string, settings config.InputSettings) (*types.Table, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	table, err := Parse(file, settings)
	if err != nil {
		return nil, err
	}
	table.SourceFile = filePath

	return table, nil
}

// Parse reads delimited text from r and returns every record in input order.
//
// An input without a header row yields an empty table.
func Parse(r io.Reader, settings config.InputSettings) (*types.Table, error) {
	reader, err := NewReader(r, settings)
	if err != nil {
		return nil, err
	}

	table := &types.Table{Headers: reader.Headers()}
	for reader.Next() {
		table.Records = append(table.Records, reader.Record())
	}
	if err := reader.Err(); err != nil {
		return nil, err
	}

	return table, nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings config.InputSettings) error {
	comma, err := settings.Comma()
	if err != nil {
		return err
	}
	reader.Comma = comma

	// Rows may be shorter or longer than the header.
	reader.FieldsPerRecord = -1

	// Stray quotes inside unquoted description text are common in
	// spreadsheet exports.
	reader.LazyQuotes = true

	return nil
}

// decodingReader wraps r so that it yields UTF-8 text.
func decodingReader(r io.Reader, label string) (io.Reader, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", label, err)
	}

	// BOMOverride switches to the encoding named by a byte-order mark and
	// drops the mark itself.
	decoder := unicode.BOMOverride(enc.NewDecoder())

	return transform.NewReader(r, decoder), nil
}

// cleanHeaders normalizes header values.
//
// Surrounding whitespace is removed and unnamed columns get a placeholder
// so they never collide with a real column name.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))

	for i, header := range headers {
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		cleaned[i] = header
	}

	return cleaned
}

// =============================================================================
// STREAMING READER
// =============================================================================

// Reader yields records one at a time.
//
// USAGE:
//   reader, err := NewReader(file, settings)
//   if err != nil {
//       return err
//   }
//
//   for reader.Next() {
//       record := reader.Record()
//       // Process the record...
//   }
//
//   if err := reader.Err(); err != nil {
//       return err
//   }
type Reader struct {
	reader   *csv.Reader
	headers  []string
	current  types.Record
	err      error
	settings config.InputSettings
}

// NewReader creates a reader and consumes the header row.
func NewReader(r io.Reader, settings config.InputSettings) (*Reader, error) {
	decoded, err := decodingReader(r, settings.Encoding)
	if err != nil {
		return nil, err
	}

	csvReader := csv.NewReader(bufio.NewReader(decoded))
	if err := configureReader(csvReader, settings); err != nil {
		return nil, err
	}

	reader := &Reader{
		reader:   csvReader,
		settings: settings,
	}

	if err := reader.readHeaders(); err != nil {
		return nil, err
	}

	return reader, nil
}

// readHeaders reads the header row. A missing header row is not an error;
// the reader then yields no records.
func (p *Reader) readHeaders() error {
	row, err := p.reader.Read()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error reading header row: %w", err)
	}

	p.headers = cleanHeaders(row)
	return nil
}

// Next advances to the next record. Returns false when there are no more
// records or an error occurred.
func (p *Reader) Next() bool {
	if p.err != nil || p.headers == nil {
		return false
	}

	row, err := p.reader.Read()
	if errors.Is(err, io.EOF) {
		return false
	}
	if err != nil {
		p.err = fmt.Errorf("error reading CSV: %w", err)
		return false
	}

	line, _ := p.reader.FieldPos(0)
	p.current = buildRecord(p.headers, row, line, p.settings.TrimSpace)

	return true
}

// buildRecord maps a row onto the header.
func buildRecord(headers, row []string, line int, trim bool) types.Record {
	record := types.Record{
		Line:   line,
		Fields: make(map[string]string, len(headers)),
	}

	for i, header := range headers {
		if i >= len(row) {
			record.Unfilled = append(record.Unfilled, header)
			continue
		}

		value := row[i]
		if trim {
			value = strings.TrimSpace(value)
		}
		// Later duplicates of a header win.
		record.Fields[header] = value
	}

	return record
}

// Record returns the current record.
func (p *Reader) Record() types.Record {
	return p.current
}

// Headers returns the parsed headers.
func (p *Reader) Headers() []string {
	return p.headers
}

// Err returns any error that occurred during parsing.
func (p *Reader) Err() error {
	return p.err
}
