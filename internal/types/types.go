// =============================================================================
// csv2html - Shared Types
// =============================================================================
//
// This package contains the record type shared by the record sources and the
// converter. Keeping it here avoids import cycles between:
//   - csvparser
//   - xlsxparser
//   - converter
//   - validation
//
// =============================================================================

package types

// =============================================================================
// RECORD
// =============================================================================

// Record is one input row keyed by column name.
//
// A record is produced fresh per data row by a record source and is not
// modified afterwards.
type Record struct {
	// Line is the 1-based line (CSV) or row (XLSX) number where the record
	// starts. It is only used in diagnostics.
	Line int

	// Fields maps header name to cell value. A column that is absent from
	// the header is absent from this map.
	Fields map[string]string

	// Unfilled lists the header columns for which this row carried no cell
	// at all (the row was shorter than the header).
	Unfilled []string
}

// Lookup returns the value of a column and whether the row carried a cell
// for it.
func (r Record) Lookup(column string) (string, bool) {
	value, ok := r.Fields[column]
	return value, ok
}

// HasColumn reports whether the column is known for this record, either as
// a filled cell or as an unfilled header column.
func (r Record) HasColumn(column string) bool {
	if _, ok := r.Fields[column]; ok {
		return true
	}
	for _, name := range r.Unfilled {
		if name == column {
			return true
		}
	}
	return false
}

// Table is a fully read record source: the header followed by every data
// record in input order.
type Table struct {
	// Headers contains the column headers in input order.
	Headers []string

	// Records contains the data records in input order.
	Records []Record

	// SourceFile is the path the table was read from, if any.
	SourceFile string
}
