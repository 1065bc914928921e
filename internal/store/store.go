// Package store records analysis runs in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Blackmvmba88/q2bs/internal/models"
)

// Store persists analysis runs. Safe for concurrent use.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Run is one analysis to be recorded.
type Run struct {
	StartedAt time.Time
	InputDir  string
	Report    models.Report
	Clusters  []models.Cluster
	Pairs     []models.SimilarPair
}

// RunSummary is a stored run without its clusters and pairs.
type RunSummary struct {
	ID              int64
	StartedAt       time.Time
	InputDir        string
	Threshold       float64
	TotalArticles   int
	NumClusters     int
	NumPairs        int
	PairwiseSkipped bool
}

// StoredPair is a similar pair as recorded for a run.
type StoredPair struct {
	URLA       string
	URLB       string
	Similarity float64
}

// Open opens or creates the database at path. ":memory:" opens a shared in-memory database.
func Open(path string) (*Store, error) {
	connStr := path
	if path == ":memory:" {
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if path != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db}

	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return s, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at DATETIME NOT NULL,
		input_dir TEXT NOT NULL,
		threshold REAL NOT NULL,
		total_articles INTEGER NOT NULL,
		num_clusters INTEGER NOT NULL,
		articles_in_clusters INTEGER NOT NULL,
		unique_articles INTEGER NOT NULL,
		num_pairs INTEGER NOT NULL,
		pairwise_skipped INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS clusters (
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		cluster_id INTEGER NOT NULL,
		normalized_title TEXT NOT NULL,
		size INTEGER NOT NULL,
		PRIMARY KEY (run_id, cluster_id)
	);

	CREATE TABLE IF NOT EXISTS cluster_members (
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		cluster_id INTEGER NOT NULL,
		position INTEGER NOT NULL,
		url TEXT NOT NULL,
		title TEXT NOT NULL,
		date TEXT NOT NULL,
		PRIMARY KEY (run_id, cluster_id, position)
	);

	CREATE TABLE IF NOT EXISTS similar_pairs (
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		url_a TEXT NOT NULL,
		url_b TEXT NOT NULL,
		similarity REAL NOT NULL,
		PRIMARY KEY (run_id, position)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC);
	CREATE INDEX IF NOT EXISTS idx_members_url ON cluster_members(url);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}

	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Close()
}

// SaveRun records a run with all its clusters and pairs in one transaction and returns the
// new run ID.
func (s *Store) SaveRun(ctx context.Context, run Run) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	r := run.Report

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (
			started_at, input_dir, threshold, total_articles, num_clusters,
			articles_in_clusters, unique_articles, num_pairs, pairwise_skipped
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.StartedAt.UTC(),
		run.InputDir,
		r.Threshold,
		r.TotalArticles,
		r.NumClusters,
		r.ArticlesInClusters,
		r.UniqueArticles,
		r.NumPairs,
		boolToInt(r.PairwiseSkipped),
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}

	if err := insertClusters(ctx, tx, runID, run.Clusters); err != nil {
		return 0, err
	}

	if err := insertPairs(ctx, tx, runID, run.Pairs); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit run: %w", err)
	}

	return runID, nil
}

func insertClusters(ctx context.Context, tx *sql.Tx, runID int64, clusters []models.Cluster) error {
	clusterStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO clusters (run_id, cluster_id, normalized_title, size) VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare clusters: %w", err)
	}
	defer clusterStmt.Close()

	memberStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO cluster_members (run_id, cluster_id, position, url, title, date) VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare members: %w", err)
	}
	defer memberStmt.Close()

	for _, c := range clusters {
		if _, err := clusterStmt.ExecContext(ctx, runID, c.ID, c.NormalizedKey, c.Size()); err != nil {
			return fmt.Errorf("insert cluster %d: %w", c.ID, err)
		}

		for pos, m := range c.Members {
			if _, err := memberStmt.ExecContext(ctx, runID, c.ID, pos, m.URL, m.Title, m.Date); err != nil {
				return fmt.Errorf("insert cluster %d member: %w", c.ID, err)
			}
		}
	}

	return nil
}

func insertPairs(ctx context.Context, tx *sql.Tx, runID int64, pairs []models.SimilarPair) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO similar_pairs (run_id, position, url_a, url_b, similarity) VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare pairs: %w", err)
	}
	defer stmt.Close()

	for pos, p := range pairs {
		if _, err := stmt.ExecContext(ctx, runID, pos, p.ArticleA.URL, p.ArticleB.URL, p.Similarity); err != nil {
			return fmt.Errorf("insert pair: %w", err)
		}
	}

	return nil
}

// ListRuns returns the most recent runs first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, input_dir, threshold, total_articles, num_clusters, num_pairs, pairwise_skipped
		FROM runs
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary

	for rows.Next() {
		var (
			run     RunSummary
			skipped int
		)

		if err := rows.Scan(&run.ID, &run.StartedAt, &run.InputDir, &run.Threshold, &run.TotalArticles, &run.NumClusters, &run.NumPairs, &skipped); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}

		run.PairwiseSkipped = skipped != 0
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// Pairs returns the pairs of a run in their original order.
func (s *Store) Pairs(ctx context.Context, runID int64) ([]StoredPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT url_a, url_b, similarity FROM similar_pairs WHERE run_id = ? ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query pairs: %w", err)
	}
	defer rows.Close()

	var pairs []StoredPair

	for rows.Next() {
		var p StoredPair
		if err := rows.Scan(&p.URLA, &p.URLB, &p.Similarity); err != nil {
			return nil, fmt.Errorf("scan pair: %w", err)
		}

		pairs = append(pairs, p)
	}

	return pairs, rows.Err()
}

// ClusterURLs returns the member URLs of one cluster of a run in member order.
func (s *Store) ClusterURLs(ctx context.Context, runID int64, clusterID int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT url FROM cluster_members WHERE run_id = ? AND cluster_id = ? ORDER BY position
	`, runID, clusterID)
	if err != nil {
		return nil, fmt.Errorf("query cluster members: %w", err)
	}
	defer rows.Close()

	var urls []string

	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("scan cluster member: %w", err)
		}

		urls = append(urls, url)
	}

	return urls, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}

	return 0
}
