// =============================================================================
// csv2html - Validation Engine
// =============================================================================
//
// This module checks the input beyond what the transformer needs to render a
// record, and defines the diagnostic type collected during a run.
//
// VALIDATION LEVELS:
//   1. Header-level: every required column should be named in the header.
//      A missing column means every record will be dropped, so it is
//      reported once up front.
//   2. Record-level: non-fatal warnings on rendered records (an empty title,
//      a review link that is not http or https). Warnings never drop a
//      record.
//
// ERROR HANDLING:
//   - Errors are collected, not returned one by one.
//   - Each error carries the row number, column and offending value.
//
// =============================================================================

package validation

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ginjaninja78/csv2html/internal/config"
	"github.com/ginjaninja78/csv2html/internal/types"
)

// Severities.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Rules.
const (
	RuleMissingColumn = "missing_column"
	RuleMissingField  = "missing_field"
	RuleRowProcessing = "row_processing"
	RuleEmptyField    = "empty_field"
	RuleURLScheme     = "url_scheme"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError is one diagnostic collected during a run.
type ValidationError struct {
	// Severity is SeverityError for a dropped record or a header problem,
	// SeverityWarning otherwise.
	Severity string

	// Field is the column concerned, if any.
	Field string

	// Value is the offending value, if any.
	Value string

	// Rule identifies the check that produced the diagnostic.
	Rule string

	// Message is a human-readable description.
	Message string

	// RowNumber is the input line of the record, or 0 for header problems.
	RowNumber int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	location := "header"
	if e.RowNumber > 0 {
		location = fmt.Sprintf("line %d", e.RowNumber)
	}

	msg := fmt.Sprintf("[%s] %s", strings.ToUpper(e.Severity), location)
	if e.Field != "" {
		msg += fmt.Sprintf(", column '%s'", e.Field)
	}
	msg += ": " + e.Message
	if e.Value != "" {
		msg += fmt.Sprintf(" (value: '%s')", e.Value)
	}

	return msg
}

// IsWarning reports whether the diagnostic is non-fatal.
func (e *ValidationError) IsWarning() bool {
	return e.Severity == SeverityWarning
}

// =============================================================================
// VALIDATOR
// =============================================================================

// Validator checks headers and records against the configured columns.
type Validator struct {
	columns config.Columns
	options ValidationOptions
}

// ValidationOptions contains options for validation.
type ValidationOptions struct {
	// SkipWarnings disables record-level warnings.
	// Default: false
	SkipWarnings bool
}

// NewValidator creates a Validator with default options.
func NewValidator(columns config.Columns) *Validator {
	return NewValidatorWithOptions(columns, ValidationOptions{})
}

// NewValidatorWithOptions creates a Validator with custom options.
func NewValidatorWithOptions(columns config.Columns, options ValidationOptions) *Validator {
	return &Validator{
		columns: columns,
		options: options,
	}
}

// ValidateHeaders reports every required column absent from the header.
func (v *Validator) ValidateHeaders(headers []string) []*ValidationError {
	present := make(map[string]bool, len(headers))
	for _, header := range headers {
		present[header] = true
	}

	var errs []*ValidationError
	for _, column := range v.columns.Required() {
		if present[column] {
			continue
		}
		errs = append(errs, &ValidationError{
			Severity: SeverityError,
			Field:    column,
			Rule:     RuleMissingColumn,
			Message:  "required column is not in the header; every row will be dropped",
		})
	}

	return errs
}

// ValidateRecord returns non-fatal warnings for a record.
func (v *Validator) ValidateRecord(record types.Record) []*ValidationError {
	if v.options.SkipWarnings {
		return nil
	}

	var errs []*ValidationError

	if title, ok := record.Lookup(v.columns.Title); ok && strings.TrimSpace(title) == "" {
		errs = append(errs, &ValidationError{
			Severity:  SeverityWarning,
			Field:     v.columns.Title,
			Rule:      RuleEmptyField,
			Message:   "title is empty; the link text will be blank",
			RowNumber: record.Line,
		})
	}

	if link, ok := record.Lookup(v.columns.URL); ok && !isHTTPURL(link) {
		errs = append(errs, &ValidationError{
			Severity:  SeverityWarning,
			Field:     v.columns.URL,
			Value:     link,
			Rule:      RuleURLScheme,
			Message:   "link is not an absolute http or https URL",
			RowNumber: record.Line,
		})
	}

	return errs
}

// isHTTPURL reports whether s parses as an absolute http(s) URL with a host.
func isHTTPURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https") && u.Host != ""
}
