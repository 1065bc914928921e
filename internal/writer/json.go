package writer

import (
	"time"

	"github.com/Blackmvmba88/q2bs/internal/models"
	"github.com/Blackmvmba88/q2bs/internal/report"
)

type reportJSON struct {
	GeneratedAt         string            `json:"generated_at"`
	InputDirectory      string            `json:"input_directory"`
	SimilarityThreshold float64           `json:"similarity_threshold"`
	TotalArticles       int               `json:"total_articles_analyzed"`
	ExactMatchClusters  exactClustersJSON `json:"exact_match_clusters"`
	SimilarPairs        pairsSummaryJSON  `json:"similar_pairs"`
	UniquenessAnalysis  uniquenessJSON    `json:"uniqueness_analysis"`
}

type exactClustersJSON struct {
	NumClusters             int    `json:"num_clusters"`
	TotalArticlesInClusters int    `json:"total_articles_in_clusters"`
	DuplicationRate         string `json:"duplication_rate"`
	LargestClusterSize      int    `json:"largest_cluster_size"`
}

type pairsSummaryJSON struct {
	NumPairs  int     `json:"num_pairs"`
	Threshold float64 `json:"threshold"`
}

type uniquenessJSON struct {
	TrulyUniqueArticles int    `json:"truly_unique_articles"`
	UniquenessRate      string `json:"uniqueness_rate"`
}

func newReportJSON(a *Analysis) reportJSON {
	r := a.Report

	return reportJSON{
		GeneratedAt:         formatGeneratedAt(a.GeneratedAt),
		InputDirectory:      a.InputDir,
		SimilarityThreshold: r.Threshold,
		TotalArticles:       r.TotalArticles,
		ExactMatchClusters: exactClustersJSON{
			NumClusters:             r.NumClusters,
			TotalArticlesInClusters: r.ArticlesInClusters,
			DuplicationRate:         report.FormatRate(r.DuplicationRate),
			LargestClusterSize:      r.LargestClusterSize,
		},
		SimilarPairs: pairsSummaryJSON{
			NumPairs:  r.NumPairs,
			Threshold: r.Threshold,
		},
		UniquenessAnalysis: uniquenessJSON{
			TrulyUniqueArticles: r.UniqueArticles,
			UniquenessRate:      report.FormatRate(r.UniquenessRate),
		},
	}
}

type pairJSON struct {
	Article1   models.ArticleRef `json:"article1"`
	Article2   models.ArticleRef `json:"article2"`
	Similarity float64           `json:"similarity"`
}

type clusterJSON struct {
	ClusterID       int                 `json:"cluster_id"`
	Size            int                 `json:"size"`
	NormalizedTitle string              `json:"normalized_title"`
	Articles        []models.ArticleRef `json:"articles"`
}

func newClusterJSON(c models.Cluster) clusterJSON {
	refs := make([]models.ArticleRef, len(c.Members))
	for i, m := range c.Members {
		refs[i] = m.Ref()
	}

	return clusterJSON{
		ClusterID:       c.ID,
		Size:            c.Size(),
		NormalizedTitle: c.NormalizedKey,
		Articles:        refs,
	}
}

type dailyJSON struct {
	GeneratedAt     string              `json:"generated_at"`
	TotalArticles   int                 `json:"total_articles"`
	DateRange       dateRangeJSON       `json:"date_range"`
	DailyStatistics dailyStatisticsJSON `json:"daily_statistics"`
}

// dateRangeJSON bounds are null for an empty corpus.
type dateRangeJSON struct {
	Earliest *string `json:"earliest"`
	Latest   *string `json:"latest"`
}

type dailyStatisticsJSON struct {
	Dates          int            `json:"dates"`
	ArticlesPerDay map[string]int `json:"articles_per_day"`
	AveragePerDay  float64        `json:"average_per_day"`
	MaxPerDay      int            `json:"max_per_day"`
	MinPerDay      int            `json:"min_per_day"`
}

func newDailyJSON(d models.DailyReport, generatedAt time.Time) dailyJSON {
	out := dailyJSON{
		GeneratedAt:   formatGeneratedAt(generatedAt),
		TotalArticles: d.TotalArticles,
		DailyStatistics: dailyStatisticsJSON{
			Dates:          d.KnownDates,
			ArticlesPerDay: d.ArticlesPerDay,
			AveragePerDay:  d.AveragePerDay,
			MaxPerDay:      d.MaxPerDay,
			MinPerDay:      d.MinPerDay,
		},
	}

	if out.DailyStatistics.ArticlesPerDay == nil {
		out.DailyStatistics.ArticlesPerDay = map[string]int{}
	}

	if d.Earliest != "" {
		out.DateRange.Earliest = &d.Earliest
		out.DateRange.Latest = &d.Latest
	}

	return out
}
