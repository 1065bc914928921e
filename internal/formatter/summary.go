package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/Blackmvmba88/q2bs/internal/models"
	"github.com/Blackmvmba88/q2bs/internal/report"
	"github.com/Blackmvmba88/q2bs/pkg/utils"
)

var (
	colorPrimary = lipgloss.Color("62")
	colorMuted   = lipgloss.Color("241")
	colorWarn    = lipgloss.Color("214")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	valueStyle = lipgloss.NewStyle().
			Bold(true)

	noteStyle = lipgloss.NewStyle().
			Foreground(colorWarn).
			MarginTop(1)
)

// maxTitleWidth bounds cluster titles in the terminal listing.
const maxTitleWidth = 60

// Summary renders the end-of-run report for a terminal.
func Summary(r models.Report, clusters []models.Cluster, top int) string {
	rows := [][2]string{
		{"Total articles", humanize.Comma(int64(r.TotalArticles))},
		{"Exact match clusters", humanize.Comma(int64(r.NumClusters))},
		{"Articles in clusters", humanize.Comma(int64(r.ArticlesInClusters))},
		{"Duplication rate", report.FormatRate(r.DuplicationRate)},
		{"Similar pairs (>=" + report.FormatThreshold(r.Threshold) + ")", humanize.Comma(int64(r.NumPairs))},
		{"Truly unique articles", humanize.Comma(int64(r.UniqueArticles))},
		{"Uniqueness rate", report.FormatRate(r.UniquenessRate)},
	}

	var sb strings.Builder

	sb.WriteString(titleStyle.Render("SIMILARITY ANALYSIS SUMMARY"))
	sb.WriteString("\n")
	sb.WriteString(keyValues(rows))

	if r.PairwiseSkipped {
		sb.WriteString("\n")
		sb.WriteString(noteStyle.Render("Pairwise similarity skipped: corpus exceeds the pairwise cutoff"))
	}

	if len(clusters) > 0 && top > 0 {
		sb.WriteString("\n")
		sb.WriteString(noteStyle.Render("Largest clusters"))
		sb.WriteString("\n")

		var listed [][2]string
		for _, c := range clusters[:min(top, len(clusters))] {
			listed = append(listed, [2]string{humanize.Comma(int64(c.Size())) + "x", utils.Truncate(c.NormalizedKey, maxTitleWidth)})
		}

		sb.WriteString(keyValues(listed))
	}

	sb.WriteString("\n")

	return sb.String()
}

// DailySummary renders per-day statistics for a terminal.
func DailySummary(d models.DailyReport) string {
	rows := [][2]string{
		{"Total articles", humanize.Comma(int64(d.TotalArticles))},
		{"Date range", d.Earliest + " .. " + d.Latest},
		{"Days with articles", humanize.Comma(int64(d.KnownDates))},
		{"Unknown dates", humanize.Comma(int64(d.ArticlesPerDay[models.UnknownDate]))},
		{"Average per day", humanize.FormatFloat("#,###.##", d.AveragePerDay)},
		{"Max per day", humanize.Comma(int64(d.MaxPerDay))},
		{"Min per day", humanize.Comma(int64(d.MinPerDay))},
	}

	return titleStyle.Render("DAILY STATISTICS") + "\n" + keyValues(rows) + "\n"
}

// keyValues aligns labels to their widest display width.
func keyValues(rows [][2]string) string {
	width := 0
	for _, row := range rows {
		width = max(width, runewidth.StringWidth(row[0]))
	}

	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = labelStyle.Render(runewidth.FillRight(row[0], width)) + "  " + valueStyle.Render(row[1])
	}

	return strings.Join(lines, "\n")
}
