// Package report derives corpus-level statistics from the analysis results.
package report

import (
	"fmt"

	"github.com/Blackmvmba88/q2bs/internal/dedup"
	"github.com/Blackmvmba88/q2bs/internal/models"
)

// Aggregate computes the duplication figures for one run. It is a pure function of its inputs
// and returns zero rates for an empty corpus.
func Aggregate(articles []models.ArticleRecord, clusters []models.Cluster, pairs []models.SimilarPair, threshold float64) models.Report {
	total := len(articles)
	inClusters := dedup.ArticlesInClusters(clusters)
	unique := total - inClusters + len(clusters)

	report := models.Report{
		TotalArticles:      total,
		NumClusters:        len(clusters),
		ArticlesInClusters: inClusters,
		UniqueArticles:     unique,
		NumPairs:           len(pairs),
		Threshold:          threshold,
	}

	if len(clusters) > 0 {
		report.LargestClusterSize = clusters[0].Size()
	}

	if total > 0 {
		report.DuplicationRate = float64(inClusters) / float64(total)
		report.UniquenessRate = float64(unique) / float64(total)
	}

	return report
}

// FormatRate renders a fraction as a percentage with two decimals, e.g. 0.6667 -> "66.67%".
func FormatRate(rate float64) string {
	return fmt.Sprintf("%.2f%%", rate*100)
}
