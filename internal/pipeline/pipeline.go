// Package pipeline runs the analysis phases over one input directory.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/Blackmvmba88/q2bs/internal/config"
	"github.com/Blackmvmba88/q2bs/internal/corpus"
	"github.com/Blackmvmba88/q2bs/internal/dedup"
	"github.com/Blackmvmba88/q2bs/internal/logger"
	"github.com/Blackmvmba88/q2bs/internal/models"
	"github.com/Blackmvmba88/q2bs/internal/report"
	"github.com/Blackmvmba88/q2bs/internal/store"
	"github.com/Blackmvmba88/q2bs/internal/validator"
	"github.com/Blackmvmba88/q2bs/internal/writer"
)

// Version is stamped into signed summaries. Overridden at build time with -ldflags.
var Version = "dev"

// Result is the outcome of a similarity run.
type Result struct {
	Report     models.Report
	Clusters   []models.Cluster
	Pairs      []models.SimilarPair
	Validation *validator.ValidationResult
	Files      []string
	// RunID is the results database row, zero when no database is configured.
	RunID int64
}

// DailyResult is the outcome of a daily statistics run.
type DailyResult struct {
	Report models.DailyReport
	Files  []string
}

// Pipeline wires the loader, analyzers and writers for a configuration.
type Pipeline struct {
	cfg    *config.Config
	logger *logger.Logger
	loader *corpus.Loader
	now    func() time.Time
}

// New validates cfg and creates a pipeline.
func New(cfg *config.Config, log *logger.Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &Pipeline{
		cfg:    cfg,
		logger: log,
		loader: corpus.NewLoader(log),
		now:    time.Now,
	}, nil
}

// Analyze runs Load, Cluster, Match (when the corpus is within the pairwise cutoff),
// Aggregate and Write. A missing corpus or a cancelled context returns before any file
// is written.
func (p *Pipeline) Analyze(ctx context.Context, inputDir string) (*Result, error) {
	startedAt := p.now()

	p.logger.Info("Phase 1: Loading corpus...")

	loaded, err := p.loader.LoadFile(p.cfg.InputPath(inputDir))
	if err != nil {
		return nil, err
	}

	articles := loaded.Corpus.Articles()

	p.logger.Info("Phase 2: Clustering by exact title...")

	clusters := dedup.ClusterByExactTitle(articles)

	p.logger.Info("Clustered articles",
		"clusters", len(clusters),
		"articles", dedup.ArticlesInClusters(clusters),
	)

	if len(clusters) > 0 {
		p.logger.Info("Largest cluster", "size", clusters[0].Size(), "title", clusters[0].NormalizedKey)
	}

	var pairs []models.SimilarPair

	skipped := !p.cfg.PairwiseEnabled(len(articles))
	if skipped {
		p.logger.Warn("Phase 3: Skipping pairwise similarity",
			"articles", len(articles),
			"limit", p.cfg.Analysis.MaxPairwiseArticles,
		)
	} else {
		p.logger.Info("Phase 3: Matching similar titles...")

		pairs, err = p.match(ctx, articles)
		if err != nil {
			return nil, err
		}
	}

	p.logger.Info("Phase 4: Aggregating report...")

	rep := report.Aggregate(articles, clusters, pairs, p.cfg.Analysis.Threshold)
	rep.PairwiseSkipped = skipped

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analysis cancelled before writing: %w", err)
	}

	p.logger.Info("Phase 5: Writing results...")

	w := writer.NewWriter(p.cfg.OutputDir(inputDir), writer.Options{
		TopClusters:     p.cfg.Output.TopClusters,
		PrettyPrint:     p.cfg.Output.PrettyPrint,
		MarkdownSummary: p.cfg.Output.MarkdownSummary,
		Generator:       "q2bs analyze",
		Version:         Version,
	}, p.logger)

	files, err := w.WriteAnalysis(&writer.Analysis{
		GeneratedAt: p.now(),
		InputDir:    inputDir,
		Report:      rep,
		Clusters:    clusters,
		Pairs:       pairs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to write results: %w", err)
	}

	result := &Result{
		Report:     rep,
		Clusters:   clusters,
		Pairs:      pairs,
		Validation: loaded.Validation,
		Files:      files,
	}

	if p.cfg.Output.ResultsDB != "" {
		result.RunID, err = p.record(ctx, store.Run{
			StartedAt: startedAt,
			InputDir:  inputDir,
			Report:    rep,
			Clusters:  clusters,
			Pairs:     pairs,
		})
		if err != nil {
			return result, err
		}
	}

	p.logger.Info("Analysis complete", "duration", time.Since(startedAt).Round(time.Millisecond))

	return result, nil
}

// Daily loads the corpus and writes per-day publication statistics.
func (p *Pipeline) Daily(ctx context.Context, inputDir string) (*DailyResult, error) {
	loaded, err := p.loader.LoadFile(p.cfg.InputPath(inputDir))
	if err != nil {
		return nil, err
	}

	daily := report.Daily(loaded.Corpus.Articles())

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("daily statistics cancelled before writing: %w", err)
	}

	w := writer.NewWriter(p.cfg.OutputDir(inputDir), writer.Options{PrettyPrint: p.cfg.Output.PrettyPrint}, p.logger)

	files, err := w.WriteDaily(daily, p.now())
	if err != nil {
		return nil, fmt.Errorf("failed to write daily statistics: %w", err)
	}

	return &DailyResult{Report: daily, Files: files}, nil
}

func (p *Pipeline) match(ctx context.Context, articles []models.ArticleRecord) ([]models.SimilarPair, error) {
	matcher, err := dedup.NewMatcher(dedup.MatcherOptions{
		NgramSize:        p.cfg.Analysis.NgramSize,
		Threshold:        p.cfg.Analysis.Threshold,
		Workers:          p.cfg.Analysis.Workers,
		MatchEmptyTitles: p.cfg.Analysis.MatchEmptyTitles,
		ProgressEvery:    p.cfg.Logging.ProgressEvery,
	}, p.logger.With("phase", "match"))
	if err != nil {
		return nil, err
	}

	return matcher.FindSimilarPairs(ctx, articles)
}

func (p *Pipeline) record(ctx context.Context, run store.Run) (int64, error) {
	st, err := store.Open(p.cfg.Output.ResultsDB)
	if err != nil {
		return 0, fmt.Errorf("failed to open results database: %w", err)
	}
	defer st.Close()

	id, err := st.SaveRun(ctx, run)
	if err != nil {
		return 0, fmt.Errorf("failed to record run: %w", err)
	}

	p.logger.Info("Recorded run", "db", p.cfg.Output.ResultsDB, "run_id", id)

	return id, nil
}
