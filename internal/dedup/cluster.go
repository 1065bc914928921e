// Package dedup finds exact and near-duplicate article titles.
package dedup

import (
	"sort"

	"github.com/Blackmvmba88/q2bs/internal/models"
	"github.com/Blackmvmba88/q2bs/internal/normalizer"
)

// ClusterByExactTitle groups articles whose normalized titles are identical.
//
// Articles whose title normalizes to "" never join a cluster, and groups of one are dropped.
// Members keep corpus order. Clusters are sorted by descending size; equal sizes keep the
// order in which their key was first seen. IDs are assigned from 1 after sorting.
func ClusterByExactTitle(articles []models.ArticleRecord) []models.Cluster {
	positions := make(map[string]int)

	var groups []models.Cluster

	for _, article := range articles {
		key := normalizer.Normalize(article.Title)
		if key == "" {
			continue
		}

		pos, ok := positions[key]
		if !ok {
			pos = len(groups)
			positions[key] = pos
			groups = append(groups, models.Cluster{NormalizedKey: key})
		}

		groups[pos].Members = append(groups[pos].Members, article)
	}

	clusters := groups[:0]

	for _, g := range groups {
		if g.Size() >= 2 {
			clusters = append(clusters, g)
		}
	}

	sort.SliceStable(clusters, func(i, j int) bool {
		return clusters[i].Size() > clusters[j].Size()
	})

	for i := range clusters {
		clusters[i].ID = i + 1
	}

	return clusters
}

// ArticlesInClusters returns the total membership of clusters.
func ArticlesInClusters(clusters []models.Cluster) int {
	total := 0
	for _, c := range clusters {
		total += c.Size()
	}

	return total
}
