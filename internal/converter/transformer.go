// =============================================================================
// csv2html - Record Transformer
// =============================================================================
//
// This module turns one catalog record into one HTML paragraph:
//
//   <p><strong><a href="URL">TITLE</a></strong> by AUTHOR (<strong>DATE</strong>) DESCRIPTION</p>
//
// FIELD HANDLING:
//   - Title, author, publication date and URL are entity-escaped.
//   - The description is cleaned according to the configured mode (by
//     default it is inserted as-is), then every bare http(s) URL in it is
//     wrapped in an anchor.
//
// FAILURES:
//   Transform never panics and never returns a Go error to the caller. A
//   record that cannot be rendered yields a RecordResult carrying the reason;
//   Render turns that into an empty string and a log line.
//
// =============================================================================

package converter

import (
	"errors"
	"fmt"

	"github.com/ginjaninja78/csv2html/internal/config"
	"github.com/ginjaninja78/csv2html/internal/types"
)

// =============================================================================
// RESULT
// =============================================================================

// RecordResult is the outcome of transforming one record: either a fragment
// or the reason the record was dropped.
type RecordResult struct {
	// Line is the input line of the record.
	Line int

	// Fragment is the rendered HTML. Empty when Err is set.
	Fragment string

	// Err is a *MissingFieldError or a *RowError when the record was dropped.
	Err error
}

// OK reports whether the record rendered.
func (r RecordResult) OK() bool {
	return r.Err == nil
}

// String returns the fragment, or an empty string for a dropped record.
func (r RecordResult) String() string {
	if r.Err != nil {
		return ""
	}
	return r.Fragment
}

// =============================================================================
// TRANSFORMER
// =============================================================================

// Transformer renders records into HTML fragments. It holds no per-record
// state and can be reused for any number of records.
type Transformer struct {
	columns     config.Columns
	description func(string) string
}

// NewTransformer creates a Transformer for the configured column names and
// description mode.
func NewTransformer(cfg *config.Config) *Transformer {
	return &Transformer{
		columns:     cfg.Columns,
		description: descriptionCleaner(cfg.Description.Mode),
	}
}

// Transform renders one record.
func (t *Transformer) Transform(record types.Record) (result RecordResult) {
	result.Line = record.Line

	defer func() {
		if r := recover(); r != nil {
			result = RecordResult{
				Line: record.Line,
				Err:  &RowError{Line: record.Line, Err: fmt.Errorf("unexpected failure: %v", r)},
			}
		}
	}()

	// Fields are read in this order; the first missing one is reported.
	values := make([]string, 0, 5)
	for _, column := range t.columns.Required() {
		value, err := field(record, column)
		if err != nil {
			result.Err = err
			return result
		}
		values = append(values, value)
	}

	title := EscapeHTML(values[0])
	author := EscapeHTML(values[1])
	pubDate := EscapeHTML(values[2])
	url := EscapeHTML(values[3])
	desc := SubstituteLinks(t.description(values[4]))

	result.Fragment = fmt.Sprintf(
		`<p><strong><a href="%s">%s</a></strong> by %s (<strong>%s</strong>) %s</p>`,
		url, title, author, pubDate, desc,
	)

	return result
}

// Render renders one record and reports a dropped record through logger.
// It returns an empty string for a dropped record.
func (t *Transformer) Render(record types.Record, logger Logger) string {
	result := t.Transform(record)
	if !result.OK() {
		logFailure(logger, result)
	}
	return result.String()
}

// field looks up a required column in a record.
func field(record types.Record, column string) (string, error) {
	if value, ok := record.Lookup(column); ok {
		return value, nil
	}

	// The header names the column but this row ended before reaching it.
	if record.HasColumn(column) {
		return "", &RowError{
			Line: record.Line,
			Err:  fmt.Errorf("row has no value for column %q", column),
		}
	}

	return "", &MissingFieldError{Column: column, Line: record.Line}
}

// logFailure writes one log line for a dropped record.
func logFailure(logger Logger, result RecordResult) {
	var missing *MissingFieldError
	if errors.As(result.Err, &missing) {
		logger.Error("missing column in CSV", "column", missing.Column, "line", result.Line)
		return
	}

	logger.Error("error while processing row", "line", result.Line, "error", result.Err)
}
