// Package validator checks corpus rows and reports recoverable problems as warnings.
package validator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Row validation errors. They are never fatal: the row is loaded with empty-string substitution.
var (
	ErrMissingColumn  = errors.New("column missing from header")
	ErrShortRow       = errors.New("row has fewer fields than the header")
	ErrEmptyURL       = errors.New("url is empty")
	ErrEmptyTitle     = errors.New("title is empty")
	ErrInvalidPageNum = errors.New("page_num must be a positive integer")
	ErrMalformedRow   = errors.New("row could not be parsed")
)

// Column names read from the corpus header.
const (
	ColumnURL        = "url"
	ColumnTitle      = "title"
	ColumnDateRaw    = "date_raw"
	ColumnDateParsed = "date_parsed"
	ColumnPageNum    = "page_num"
)

// missingTitle is the crawler's placeholder for an article without a title element.
const missingTitle = "N/A"

// RowWarning describes a malformed row that was recovered locally.
type RowWarning struct {
	Err   error
	Field string
	Value string
	Line  int
}

// Error implements error.
func (w RowWarning) Error() string {
	var sb strings.Builder

	if w.Line > 0 {
		fmt.Fprintf(&sb, "line %d: ", w.Line)
	}

	if w.Field != "" {
		fmt.Fprintf(&sb, "[%s] ", w.Field)
	}

	sb.WriteString(w.Err.Error())

	if w.Value != "" {
		fmt.Fprintf(&sb, " (found %q)", w.Value)
	}

	return sb.String()
}

// Unwrap returns the underlying sentinel.
func (w RowWarning) Unwrap() error {
	return w.Err
}

// Row is the raw view of one CSV record, before defaults are applied.
type Row struct {
	URL     string
	Title   string
	PageNum string
	Line    int
	// Fields is the number of fields actually present; Expected is the header width.
	Fields   int
	Expected int
}

// ValidationStats contains validation statistics.
type ValidationStats struct {
	TotalRows         int
	ValidRows         int
	RowsWithWarnings  int
	OverwrittenURLs   int
	MissingHeaderCols int
}

// ValidationResult collects the warnings of one corpus load.
type ValidationResult struct {
	Warnings []RowWarning
	Stats    ValidationStats
}

// NewValidationResult creates an empty result.
func NewValidationResult() *ValidationResult {
	return &ValidationResult{
		Warnings: []RowWarning{},
	}
}

// String returns string representation of validation result.
func (r *ValidationResult) String() string {
	return fmt.Sprintf(
		"Total: %d | Valid: %d | With warnings: %d | Overwritten URLs: %d",
		r.Stats.TotalRows,
		r.Stats.ValidRows,
		r.Stats.RowsWithWarnings,
		r.Stats.OverwrittenURLs,
	)
}

// RowValidator validates corpus rows against the columns present in the header.
type RowValidator struct {
	hasURL     bool
	hasTitle   bool
	hasPageNum bool
}

// NewRowValidator creates a validator for the given header. It also returns a warning for every
// expected column the header lacks.
func NewRowValidator(header []string) (*RowValidator, []RowWarning) {
	present := make(map[string]bool, len(header))
	for _, col := range header {
		present[col] = true
	}

	v := &RowValidator{
		hasURL:     present[ColumnURL],
		hasTitle:   present[ColumnTitle],
		hasPageNum: present[ColumnPageNum],
	}

	var warnings []RowWarning

	for _, col := range []string{ColumnURL, ColumnTitle, ColumnDateParsed} {
		if !present[col] {
			warnings = append(warnings, RowWarning{Err: ErrMissingColumn, Field: col, Line: 1})
		}
	}

	return v, warnings
}

// ValidateRow returns the warnings for a row. An empty result means the row is clean.
func (v *RowValidator) ValidateRow(row Row) []RowWarning {
	var warnings []RowWarning

	if row.Fields < row.Expected {
		warnings = append(warnings, RowWarning{
			Err:   ErrShortRow,
			Line:  row.Line,
			Value: fmt.Sprintf("%d of %d fields", row.Fields, row.Expected),
		})
	}

	if v.hasURL && strings.TrimSpace(row.URL) == "" {
		warnings = append(warnings, RowWarning{Err: ErrEmptyURL, Field: ColumnURL, Line: row.Line})
	}

	if v.hasTitle {
		title := strings.TrimSpace(row.Title)
		if title == "" || title == missingTitle {
			warnings = append(warnings, RowWarning{Err: ErrEmptyTitle, Field: ColumnTitle, Value: row.Title, Line: row.Line})
		}
	}

	if v.hasPageNum {
		if _, ok := ParsePageNum(row.PageNum); !ok {
			warnings = append(warnings, RowWarning{Err: ErrInvalidPageNum, Field: ColumnPageNum, Value: row.PageNum, Line: row.Line})
		}
	}

	return warnings
}

// ParsePageNum parses a page number. ok is false for anything but a positive integer,
// in which case the returned value is 0.
func ParsePageNum(raw string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 0, false
	}

	return n, true
}
