package dedup

import (
	"cmp"
	"context"
	"fmt"
	"runtime"
	"slices"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/Blackmvmba88/q2bs/internal/config"
	"github.com/Blackmvmba88/q2bs/internal/logger"
	"github.com/Blackmvmba88/q2bs/internal/models"
	"github.com/Blackmvmba88/q2bs/internal/normalizer"
)

// MatcherOptions configures pairwise matching.
type MatcherOptions struct {
	NgramSize int
	Threshold float64
	// Workers is the number of goroutines; zero means GOMAXPROCS.
	Workers int
	// MatchEmptyTitles lets titleless articles take part. Their fingerprint is {""}, so any
	// two of them score 1.0.
	MatchEmptyTitles bool
	// ProgressEvery logs progress after this many comparisons; zero disables it.
	ProgressEvery int
}

// Matcher finds article pairs whose title fingerprints reach a Jaccard threshold.
type Matcher struct {
	fingerprinter *normalizer.Fingerprinter
	logger        *logger.Logger
	opts          MatcherOptions
}

// NewMatcher validates opts and creates a matcher.
func NewMatcher(opts MatcherOptions, log *logger.Logger) (*Matcher, error) {
	fp, err := normalizer.NewFingerprinter(opts.NgramSize)
	if err != nil {
		return nil, err
	}

	if err := config.ValidateThreshold(opts.Threshold); err != nil {
		return nil, err
	}

	if opts.Workers < 0 {
		return nil, fmt.Errorf("%w: got %d", config.ErrInvalidWorkers, opts.Workers)
	}

	return &Matcher{
		fingerprinter: fp,
		logger:        log,
		opts:          opts,
	}, nil
}

// candidate is a fingerprinted article eligible for comparison.
type candidate struct {
	index int
	ids   []uint32
}

// match is a retained pair by candidate position.
type match struct {
	i, j       int
	similarity float64
}

// FindSimilarPairs compares every unordered pair of articles once and returns those whose
// similarity is at least the threshold, ordered by (i, j) corpus position.
//
// Fingerprints are computed once up front. The upper-triangular pair space is split by row
// across workers that only read the shared fingerprints; their results are merged and sorted,
// so the output does not depend on the worker count.
func (m *Matcher) FindSimilarPairs(ctx context.Context, articles []models.ArticleRecord) ([]models.SimilarPair, error) {
	candidates := m.fingerprint(articles)

	k := len(candidates)
	total := int64(k) * int64(k-1) / 2

	workers := m.opts.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	workers = max(1, min(workers, k))

	m.logger.Info("Analyzing title similarity",
		"ngram", m.opts.NgramSize,
		"threshold", m.opts.Threshold,
		"comparisons", humanize.Comma(total),
		"workers", workers,
	)

	var compared atomic.Int64

	partials := make([][]match, workers)
	g, gctx := errgroup.WithContext(ctx)

	for w := range workers {
		g.Go(func() error {
			var found []match

			for i := w; i < k; i += workers {
				if err := gctx.Err(); err != nil {
					return err
				}

				a := candidates[i].ids

				for j := i + 1; j < k; j++ {
					b := candidates[j].ids
					if sizeBound(len(a), len(b)) < m.opts.Threshold {
						continue
					}

					if sim := jaccardSorted(a, b); sim >= m.opts.Threshold {
						found = append(found, match{i: i, j: j, similarity: sim})
					}
				}

				m.progress(&compared, int64(k-1-i), total)
			}

			partials[w] = found

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("pairwise matching interrupted: %w", err)
	}

	merged := slices.Concat(partials...)
	slices.SortFunc(merged, func(x, y match) int {
		if c := cmp.Compare(x.i, y.i); c != 0 {
			return c
		}

		return cmp.Compare(x.j, y.j)
	})

	pairs := make([]models.SimilarPair, 0, len(merged))
	for _, mt := range merged {
		pairs = append(pairs, models.SimilarPair{
			ArticleA:   articles[candidates[mt.i].index],
			ArticleB:   articles[candidates[mt.j].index],
			Similarity: mt.similarity,
		})
	}

	m.logger.Info("Found similar pairs", "pairs", humanize.Comma(int64(len(pairs))), "threshold", m.opts.Threshold)

	return pairs, nil
}

// fingerprint encodes each eligible article. Titleless articles are skipped unless
// MatchEmptyTitles is set.
func (m *Matcher) fingerprint(articles []models.ArticleRecord) []candidate {
	vocab := newVocabulary()
	candidates := make([]candidate, 0, len(articles))

	for i, article := range articles {
		normalized := normalizer.Normalize(article.Title)
		if normalized == "" && !m.opts.MatchEmptyTitles {
			continue
		}

		candidates = append(candidates, candidate{
			index: i,
			ids:   vocab.encode(m.fingerprinter.FromNormalized(normalized)),
		})
	}

	if skipped := len(articles) - len(candidates); skipped > 0 {
		m.logger.Debug("Skipped titleless articles", "count", skipped)
	}

	return candidates
}

// progress adds n comparisons and logs when a ProgressEvery boundary is crossed.
func (m *Matcher) progress(compared *atomic.Int64, n, total int64) {
	every := int64(m.opts.ProgressEvery)
	if every <= 0 || n == 0 {
		return
	}

	after := compared.Add(n)
	if (after-n)/every != after/every {
		m.logger.Info("Progress", "compared", humanize.Comma(after), "total", humanize.Comma(total))
	}
}
