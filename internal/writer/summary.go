package writer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Blackmvmba88/q2bs/internal/formatter"
	"github.com/Blackmvmba88/q2bs/internal/models"
	"github.com/Blackmvmba88/q2bs/internal/report"
	"github.com/Blackmvmba88/q2bs/pkg/metadata"
	"github.com/Blackmvmba88/q2bs/pkg/utils"
)

// Markdown listing limits.
const (
	markdownClusters = 10
	markdownPairs    = 10
	markdownTitle    = 60
)

func summaryCSV(r models.Report) ([]byte, error) {
	rows := [][]string{{"Metric", "Value"}}
	for _, m := range report.Metrics(r) {
		rows = append(rows, []string{m.Name, m.Value})
	}

	return writeCSV(rows)
}

func dailyCSV(d models.DailyReport) ([]byte, error) {
	rows := [][]string{{"Date", "Article Count"}}
	for _, day := range report.KnownDays(d.ArticlesPerDay) {
		rows = append(rows, []string{day, strconv.Itoa(d.ArticlesPerDay[day])})
	}

	if n, ok := d.ArticlesPerDay[models.UnknownDate]; ok {
		rows = append(rows, []string{models.UnknownDate, strconv.Itoa(n)})
	}

	return writeCSV(rows)
}

// summaryMarkdown renders the metrics, the largest clusters and the first similar pairs,
// then signs the document.
func (w *Writer) summaryMarkdown(a *Analysis) string {
	var sb strings.Builder

	sb.WriteString("# Similarity Analysis Summary\n\n")
	fmt.Fprintf(&sb, "- Input directory: `%s`\n", a.InputDir)
	fmt.Fprintf(&sb, "- Generated at: %s\n", formatGeneratedAt(a.GeneratedAt))

	if a.Report.PairwiseSkipped {
		sb.WriteString("- Pairwise similarity skipped: corpus exceeds the pairwise cutoff\n")
	}

	metrics := report.Metrics(a.Report)
	rows := make([][]string, len(metrics))

	for i, m := range metrics {
		rows[i] = []string{m.Name, m.Value}
	}

	sb.WriteString("\n")
	writeTable(&sb, []string{"Metric", "Value"}, rows)

	if len(a.Clusters) > 0 {
		rows = rows[:0]
		for _, c := range a.Clusters[:min(markdownClusters, len(a.Clusters))] {
			rows = append(rows, []string{strconv.Itoa(c.ID), strconv.Itoa(c.Size()), cell(c.NormalizedKey)})
		}

		sb.WriteString("\n## Largest Clusters\n\n")
		writeTable(&sb, []string{"ID", "Size", "Normalized Title"}, rows)
	}

	if len(a.Pairs) > 0 {
		rows = rows[:0]
		for _, p := range a.Pairs[:min(markdownPairs, len(a.Pairs))] {
			rows = append(rows, []string{
				strconv.FormatFloat(roundSimilarity(p.Similarity), 'f', 4, 64),
				cell(p.ArticleA.Title),
				cell(p.ArticleB.Title),
			})
		}

		sb.WriteString("\n## Similar Pairs\n\n")
		writeTable(&sb, []string{"Similarity", "Article 1", "Article 2"}, rows)
	}

	return metadata.Sign(sb.String(), metadata.Metadata{
		Generator:   w.opts.Generator,
		Version:     w.opts.Version,
		GeneratedAt: a.GeneratedAt,
	})
}

func writeTable(sb *strings.Builder, header []string, rows [][]string) {
	for _, line := range formatter.Table(header, rows) {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
}

func cell(s string) string {
	return formatter.EscapeCell(utils.Truncate(s, markdownTitle))
}
