// Package corpus loads the crawled article table into an in-memory corpus.
package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/Blackmvmba88/q2bs/internal/logger"
	"github.com/Blackmvmba88/q2bs/internal/models"
	"github.com/Blackmvmba88/q2bs/internal/validator"
)

// ErrMissingCorpus is matched by every MissingCorpusError.
var ErrMissingCorpus = errors.New("corpus file not found")

// maxLoggedWarnings caps per-row warning log lines; the rest are only counted.
const maxLoggedWarnings = 10

// MissingCorpusError reports that the input file does not exist. It aborts the run before
// any output is written.
type MissingCorpusError struct {
	Err  error
	Path string
}

// Error implements error.
func (e *MissingCorpusError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingCorpus, e.Path)
}

// Is matches ErrMissingCorpus.
func (e *MissingCorpusError) Is(target error) bool {
	return target == ErrMissingCorpus
}

// Unwrap returns the underlying filesystem error.
func (e *MissingCorpusError) Unwrap() error {
	return e.Err
}

// LoadResult is the outcome of loading one corpus file.
type LoadResult struct {
	Corpus     *models.Corpus
	Validation *validator.ValidationResult
	Path       string
}

// Loader reads article tables.
type Loader struct {
	logger *logger.Logger
}

// NewLoader creates a loader logging through log.
func NewLoader(log *logger.Logger) *Loader {
	return &Loader{logger: log}
}

// LoadFile loads the corpus at path.
func (l *Loader) LoadFile(path string) (*LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &MissingCorpusError{Path: path, Err: err}
		}

		return nil, fmt.Errorf("failed to open corpus: %w", err)
	}
	defer f.Close()

	l.logger.Info("Loading articles", "path", path)

	result, err := l.Load(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	result.Path = path

	return result, nil
}

// Load reads a CSV article table with a header row. Only url, title, date_raw, date_parsed and
// page_num are read; other columns are ignored and absent ones read as empty strings. Rows are
// keyed by URL, so a later row with the same URL replaces the earlier one.
func (l *Loader) Load(r io.Reader) (*LoadResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	result := &LoadResult{
		Corpus:     models.NewCorpus(),
		Validation: validator.NewValidationResult(),
	}

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		l.logger.Warn("Corpus file is empty")

		return result, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns := indexHeader(header)

	rowValidator, headerWarnings := validator.NewRowValidator(columnNames(header))
	result.Validation.Stats.MissingHeaderCols = len(headerWarnings)
	l.record(result.Validation, headerWarnings)

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return nil, fmt.Errorf("failed to read row: %w", err)
			}

			result.Validation.Stats.TotalRows++
			result.Validation.Stats.RowsWithWarnings++
			l.record(result.Validation, []validator.RowWarning{{Err: validator.ErrMalformedRow, Value: parseErr.Error(), Line: parseErr.Line}})

			continue
		}

		result.Validation.Stats.TotalRows++
		line, _ := reader.FieldPos(0)

		row := validator.Row{
			URL:      columns.get(record, validator.ColumnURL),
			Title:    columns.get(record, validator.ColumnTitle),
			PageNum:  columns.get(record, validator.ColumnPageNum),
			Line:     line,
			Fields:   len(record),
			Expected: len(header),
		}

		if warnings := rowValidator.ValidateRow(row); len(warnings) > 0 {
			result.Validation.Stats.RowsWithWarnings++
			l.record(result.Validation, warnings)
		} else {
			result.Validation.Stats.ValidRows++
		}

		pageNum, _ := validator.ParsePageNum(row.PageNum)

		article := models.ArticleRecord{
			URL:     row.URL,
			Title:   row.Title,
			Date:    columns.get(record, validator.ColumnDateParsed),
			DateRaw: columns.get(record, validator.ColumnDateRaw),
			PageNum: pageNum,
		}

		if result.Corpus.Put(article) {
			result.Validation.Stats.OverwrittenURLs++
		}
	}

	if n := len(result.Validation.Warnings); n > maxLoggedWarnings {
		l.logger.Warn("Further row warnings suppressed", "count", n-maxLoggedWarnings)
	}

	l.logger.Info("Loaded articles",
		"articles", result.Corpus.Len(),
		"rows", result.Validation.Stats.TotalRows,
		"overwritten", result.Validation.Stats.OverwrittenURLs,
		"warnings", len(result.Validation.Warnings),
	)

	return result, nil
}

func (l *Loader) record(res *validator.ValidationResult, warnings []validator.RowWarning) {
	for _, w := range warnings {
		if len(res.Warnings) < maxLoggedWarnings {
			l.logger.Warn("Malformed row", "warning", w.Error())
		}

		res.Warnings = append(res.Warnings, w)
	}
}

// headerIndex maps column names to their position in a record.
type headerIndex map[string]int

func indexHeader(header []string) headerIndex {
	idx := make(headerIndex, len(header))

	for i, name := range columnNames(header) {
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}

	return idx
}

// get returns the named field, or "" when the column or the field is absent.
func (h headerIndex) get(record []string, column string) string {
	i, ok := h[column]
	if !ok || i >= len(record) {
		return ""
	}

	return record[i]
}

// columnNames trims header cells and drops a leading UTF-8 byte order mark.
func columnNames(header []string) []string {
	names := make([]string, len(header))

	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}

		names[i] = strings.TrimSpace(name)
	}

	return names
}
