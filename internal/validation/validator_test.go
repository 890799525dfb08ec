package validation

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/ginjaninja78/csv2html/internal/config"
	"github.com/ginjaninja78/csv2html/internal/types"
)

func TestValidateHeaders(t *testing.T) {
	v := NewValidator(config.Default().Columns)

	assert.Empty(t, v.ValidateHeaders([]string{
		"Title", "Author(s)", "Publication Date", "GoodReads URL", "Description", "Shelf",
	}))

	got := v.ValidateHeaders([]string{"Title", "Author(s)", "Publication Date"})
	want := []*ValidationError{
		{
			Severity: SeverityError,
			Field:    "GoodReads URL",
			Rule:     RuleMissingColumn,
			Message:  "required column is not in the header; every row will be dropped",
		},
		{
			Severity: SeverityError,
			Field:    "Description",
			Rule:     RuleMissingColumn,
			Message:  "required column is not in the header; every row will be dropped",
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("header errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateRecord(t *testing.T) {
	v := NewValidator(config.Default().Columns)

	tests := []struct {
		name      string
		fields    map[string]string
		wantRules []string
	}{
		{
			name:   "clean record",
			fields: map[string]string{"Title": "Dune", "GoodReads URL": "https://www.goodreads.com/book/show/1"},
		},
		{
			name:      "empty title",
			fields:    map[string]string{"Title": "  ", "GoodReads URL": "http://gr/1"},
			wantRules: []string{RuleEmptyField},
		},
		{
			name:      "relative link",
			fields:    map[string]string{"Title": "Dune", "GoodReads URL": "/book/show/1"},
			wantRules: []string{RuleURLScheme},
		},
		{
			name:      "ftp link",
			fields:    map[string]string{"Title": "Dune", "GoodReads URL": "ftp://gr/1"},
			wantRules: []string{RuleURLScheme},
		},
		{
			name:   "absent columns are not warned about",
			fields: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := v.ValidateRecord(types.Record{Line: 7, Fields: tt.fields})

			var rules []string
			for _, e := range errs {
				assert.True(t, e.IsWarning())
				assert.Equal(t, 7, e.RowNumber)
				rules = append(rules, e.Rule)
			}
			assert.Equal(t, tt.wantRules, rules)
		})
	}
}

func TestValidateRecord_SkipWarnings(t *testing.T) {
	v := NewValidatorWithOptions(config.Default().Columns, ValidationOptions{SkipWarnings: true})
	errs := v.ValidateRecord(types.Record{Fields: map[string]string{"Title": "", "GoodReads URL": "nope"}})
	assert.Empty(t, errs)
}

func TestValidationError_Error(t *testing.T) {
	rowErr := &ValidationError{
		Severity:  SeverityWarning,
		Field:     "GoodReads URL",
		Value:     "nope",
		Message:   "link is not an absolute http or https URL",
		RowNumber: 3,
	}
	assert.Equal(t, "[WARNING] line 3, column 'GoodReads URL': link is not an absolute http or https URL (value: 'nope')", rowErr.Error())

	headerErr := &ValidationError{Severity: SeverityError, Field: "Title", Message: "missing"}
	assert.Equal(t, "[ERROR] header, column 'Title': missing", headerErr.Error())
}
