package models

// Cluster groups articles whose normalized titles are identical.
type Cluster struct {
	ID            int
	NormalizedKey string
	// Members are in corpus order.
	Members []ArticleRecord
}

// Size returns the number of articles in the cluster.
func (c Cluster) Size() int {
	return len(c.Members)
}

// SimilarPair is an unordered article pair whose title similarity reached the threshold.
// ArticleA always has the lower corpus index.
type SimilarPair struct {
	ArticleA   ArticleRecord
	ArticleB   ArticleRecord
	Similarity float64
}

// Report holds the corpus-level figures derived from clusters and pairs.
type Report struct {
	TotalArticles      int
	NumClusters        int
	ArticlesInClusters int
	LargestClusterSize int
	UniqueArticles     int
	// DuplicationRate and UniquenessRate are fractions in [0,1]; zero when the corpus is empty.
	DuplicationRate float64
	UniquenessRate  float64
	NumPairs        int
	Threshold       float64
	// PairwiseSkipped is set when the corpus exceeded the pairwise cutoff.
	PairwiseSkipped bool
}

// DailyReport summarizes publication volume per day.
type DailyReport struct {
	TotalArticles  int
	Earliest       string
	Latest         string
	ArticlesPerDay map[string]int
	KnownDates     int
	AveragePerDay  float64
	MaxPerDay      int
	MinPerDay      int
}
