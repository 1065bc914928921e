package report

import (
	"strconv"
	"strings"

	"github.com/Blackmvmba88/q2bs/internal/models"
)

// Metric is one row of the Metric/Value summary table.
type Metric struct {
	Name  string
	Value string
}

// Metrics lists the summary figures in their fixed order.
func Metrics(r models.Report) []Metric {
	return []Metric{
		{"Total Articles", strconv.Itoa(r.TotalArticles)},
		{"Exact Match Clusters", strconv.Itoa(r.NumClusters)},
		{"Articles in Clusters", strconv.Itoa(r.ArticlesInClusters)},
		{"Duplication Rate", FormatRate(r.DuplicationRate)},
		{"Similar Pairs (>=" + FormatThreshold(r.Threshold) + ")", strconv.Itoa(r.NumPairs)},
		{"Truly Unique Articles", strconv.Itoa(r.UniqueArticles)},
		{"Uniqueness Rate", FormatRate(r.UniquenessRate)},
	}
}

// FormatThreshold renders a threshold in its shortest form, always keeping one decimal
// ("0.85", "1.0", "0.0").
func FormatThreshold(threshold float64) string {
	s := strconv.FormatFloat(threshold, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}

	return s
}
