package report

import (
	"slices"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/Blackmvmba88/q2bs/internal/models"
)

// DateLayout is the canonical day format used as the per-day key.
const DateLayout = "2006-01-02"

// CanonicalDate normalizes a parsed publication date to YYYY-MM-DD. Empty, sentinel and
// unparseable values map to models.UnknownDate.
func CanonicalDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == models.UnknownDate {
		return models.UnknownDate
	}

	if t, err := time.Parse(DateLayout, raw); err == nil {
		return t.Format(DateLayout)
	}

	t, err := dateparse.ParseIn(raw, time.UTC)
	if err != nil {
		return models.UnknownDate
	}

	return t.Format(DateLayout)
}

// Daily counts articles per publication day.
//
// ArticlesPerDay includes the UNKNOWN_DATE bucket; the per-day average, max and min only
// consider known dates. Earliest and Latest span the known dates and fall back to
// UNKNOWN_DATE when the corpus has none.
func Daily(articles []models.ArticleRecord) models.DailyReport {
	report := models.DailyReport{
		TotalArticles:  len(articles),
		ArticlesPerDay: make(map[string]int),
	}

	for _, article := range articles {
		report.ArticlesPerDay[CanonicalDate(article.Date)]++
	}

	days := KnownDays(report.ArticlesPerDay)
	report.KnownDates = len(days)

	if len(days) == 0 {
		if len(articles) > 0 {
			report.Earliest = models.UnknownDate
			report.Latest = models.UnknownDate
		}

		return report
	}

	report.Earliest = days[0]
	report.Latest = days[len(days)-1]

	known := 0
	report.MinPerDay = report.ArticlesPerDay[days[0]]

	for _, day := range days {
		count := report.ArticlesPerDay[day]
		known += count
		report.MaxPerDay = max(report.MaxPerDay, count)
		report.MinPerDay = min(report.MinPerDay, count)
	}

	report.AveragePerDay = float64(known) / float64(len(days))

	return report
}

// KnownDays returns the known-date keys of perDay in ascending order.
func KnownDays(perDay map[string]int) []string {
	days := make([]string, 0, len(perDay))

	for day := range perDay {
		if day != models.UnknownDate {
			days = append(days, day)
		}
	}

	slices.Sort(days)

	return days
}
