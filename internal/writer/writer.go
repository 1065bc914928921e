// Package writer persists analysis results to the output directory.
package writer

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/Blackmvmba88/q2bs/internal/logger"
	"github.com/Blackmvmba88/q2bs/internal/models"
)

// Output file names.
const (
	ReportFile        = "similarity_report.json"
	PairsFile         = "similar_pairs.json"
	ClustersFile      = "duplicate_clusters.json"
	SummaryCSVFile    = "similarity_summary.csv"
	SummaryMDFile     = "similarity_summary.md"
	DailyReportFile   = "report.json"
	DailySummaryFile  = "daily_summary.csv"
	generatedAtLayout = "2006-01-02T15:04:05.000000"
)

// Options controls how results are rendered.
type Options struct {
	// TopClusters bounds duplicate_clusters.json.
	TopClusters     int
	PrettyPrint     bool
	MarkdownSummary bool
	// Generator and Version are stamped into the signed markdown summary.
	Generator string
	Version   string
}

// Analysis is everything one similarity run writes.
type Analysis struct {
	GeneratedAt time.Time
	InputDir    string
	Report      models.Report
	Clusters    []models.Cluster
	Pairs       []models.SimilarPair
}

// outputFile defers rendering until the file is written.
type outputFile struct {
	name string
	data func() ([]byte, error)
}

// Writer writes result files into one directory.
type Writer struct {
	dir    string
	opts   Options
	logger *logger.Logger
}

// NewWriter creates a writer for dir.
func NewWriter(dir string, opts Options, log *logger.Logger) *Writer {
	return &Writer{
		dir:    dir,
		opts:   opts,
		logger: log,
	}
}

// Dir returns the output directory.
func (w *Writer) Dir() string {
	return w.dir
}

// WriteAnalysis writes the similarity report, pairs, clusters, the CSV summary and, if
// enabled, the markdown summary. It returns the paths written.
func (w *Writer) WriteAnalysis(a *Analysis) ([]string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	pairs := make([]pairJSON, 0, len(a.Pairs))
	for _, p := range a.Pairs {
		pairs = append(pairs, pairJSON{
			Article1:   p.ArticleA.Ref(),
			Article2:   p.ArticleB.Ref(),
			Similarity: roundSimilarity(p.Similarity),
		})
	}

	top := a.Clusters[:min(w.opts.TopClusters, len(a.Clusters))]

	clusters := make([]clusterJSON, 0, len(top))
	for _, c := range top {
		clusters = append(clusters, newClusterJSON(c))
	}

	summary, err := summaryCSV(a.Report)
	if err != nil {
		return nil, err
	}

	files := []outputFile{
		{ReportFile, func() ([]byte, error) { return w.marshal(newReportJSON(a)) }},
		{PairsFile, func() ([]byte, error) { return w.marshal(pairs) }},
		{ClustersFile, func() ([]byte, error) { return w.marshal(clusters) }},
		{SummaryCSVFile, func() ([]byte, error) { return summary, nil }},
	}

	if w.opts.MarkdownSummary {
		files = append(files, outputFile{SummaryMDFile, func() ([]byte, error) { return []byte(w.summaryMarkdown(a)), nil }})
	}

	written := make([]string, 0, len(files))

	for _, f := range files {
		data, err := f.data()
		if err != nil {
			return written, fmt.Errorf("failed to render %s: %w", f.name, err)
		}

		path, err := w.write(f.name, data)
		if err != nil {
			return written, err
		}

		written = append(written, path)
	}

	w.logger.Info("Saved similarity results",
		"dir", w.dir,
		"pairs", len(pairs),
		"clusters", len(clusters),
	)

	return written, nil
}

// WriteDaily writes the per-day statistics report and its CSV table.
func (w *Writer) WriteDaily(d models.DailyReport, generatedAt time.Time) ([]string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := w.marshal(newDailyJSON(d, generatedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", DailyReportFile, err)
	}

	reportPath, err := w.write(DailyReportFile, data)
	if err != nil {
		return nil, err
	}

	table, err := dailyCSV(d)
	if err != nil {
		return []string{reportPath}, err
	}

	tablePath, err := w.write(DailySummaryFile, table)
	if err != nil {
		return []string{reportPath}, err
	}

	w.logger.Info("Saved daily statistics", "dir", w.dir, "days", d.KnownDates)

	return []string{reportPath, tablePath}, nil
}

func (w *Writer) write(name string, data []byte) (string, error) {
	path := filepath.Join(w.dir, name)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	w.logger.Debug("Saved", "path", path, "bytes", len(data))

	return path, nil
}

// marshal encodes v without HTML escaping so titles keep their characters.
func (w *Writer) marshal(v any) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if w.opts.PrettyPrint {
		enc.SetIndent("", "  ")
	}

	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func writeCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer

	cw := csv.NewWriter(&buf)
	if err := cw.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("failed to encode CSV: %w", err)
	}

	return buf.Bytes(), nil
}

// roundSimilarity keeps four decimals.
func roundSimilarity(s float64) float64 {
	return math.Round(s*10000) / 10000
}

func formatGeneratedAt(t time.Time) string {
	return t.Format(generatedAtLayout)
}
