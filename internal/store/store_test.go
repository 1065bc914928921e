package store

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Blackmvmba88/q2bs/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	st, err := Open(filepath.Join(t.TempDir(), "results.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	t.Cleanup(func() { st.Close() })

	return st
}

func testRun() Run {
	a := models.ArticleRecord{URL: "u1", Title: "Foo Bar", Date: "2025-01-20"}
	b := models.ArticleRecord{URL: "u2", Title: "foo bar!", Date: models.UnknownDate}
	c := models.ArticleRecord{URL: "u3", Title: "Foo Bar 2"}

	return Run{
		StartedAt: time.Date(2025, 1, 20, 10, 0, 0, 0, time.UTC),
		InputDir:  "crawl",
		Report:    models.Report{TotalArticles: 3, NumClusters: 1, ArticlesInClusters: 2, UniqueArticles: 2, NumPairs: 2, Threshold: 0.85},
		Clusters:  []models.Cluster{{ID: 1, NormalizedKey: "foo bar", Members: []models.ArticleRecord{a, b}}},
		Pairs: []models.SimilarPair{
			{ArticleA: a, ArticleB: b, Similarity: 1},
			{ArticleA: a, ArticleB: c, Similarity: 0.875},
		},
	}
}

func TestOpen_Memory(t *testing.T) {
	st, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer st.Close()

	for _, table := range []string{"runs", "clusters", "cluster_members", "similar_pairs"} {
		var name string

		err := st.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s not created: %v", table, err)
		}
	}
}

func TestOpen_ChildTablesCascade(t *testing.T) {
	st := openTestStore(t)

	for _, table := range []string{"clusters", "cluster_members", "similar_pairs"} {
		var ddl string

		err := st.db.QueryRow("SELECT sql FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&ddl)
		if err != nil {
			t.Fatalf("Table %s not created: %v", table, err)
		}

		if !strings.Contains(ddl, "REFERENCES runs(id) ON DELETE CASCADE") {
			t.Errorf("Expected %s to cascade from runs, got %q", table, ddl)
		}
	}
}

func TestSaveRun(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	id, err := st.SaveRun(ctx, testRun())
	if err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	runs, err := st.ListRuns(ctx, 10)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}

	if len(runs) != 1 || runs[0].ID != id {
		t.Fatalf("Expected the saved run, got %+v", runs)
	}

	run := runs[0]
	if run.InputDir != "crawl" || run.Threshold != 0.85 || run.TotalArticles != 3 || run.NumPairs != 2 || run.PairwiseSkipped {
		t.Errorf("Unexpected run %+v", run)
	}

	if !run.StartedAt.Equal(time.Date(2025, 1, 20, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected start time %v", run.StartedAt)
	}

	pairs, err := st.Pairs(ctx, id)
	if err != nil {
		t.Fatalf("Pairs failed: %v", err)
	}

	if len(pairs) != 2 || pairs[0].URLB != "u2" || pairs[1].URLB != "u3" || pairs[1].Similarity != 0.875 {
		t.Errorf("Unexpected pairs %+v", pairs)
	}

	urls, err := st.ClusterURLs(ctx, id, 1)
	if err != nil {
		t.Fatalf("ClusterURLs failed: %v", err)
	}

	if len(urls) != 2 || urls[0] != "u1" || urls[1] != "u2" {
		t.Errorf("Unexpected cluster members %v", urls)
	}
}

func TestListRuns_NewestFirst(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	first, err := st.SaveRun(ctx, testRun())
	if err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	skipped := testRun()
	skipped.Report.PairwiseSkipped = true
	skipped.Pairs = nil

	second, err := st.SaveRun(ctx, skipped)
	if err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	runs, err := st.ListRuns(ctx, 1)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}

	if len(runs) != 1 || runs[0].ID != second || !runs[0].PairwiseSkipped {
		t.Errorf("Expected only the newest run, got %+v", runs)
	}

	pairs, err := st.Pairs(ctx, first)
	if err != nil || len(pairs) != 2 {
		t.Errorf("Expected the first run's pairs kept, got %d (%v)", len(pairs), err)
	}
}

func TestSaveRun_Cancelled(t *testing.T) {
	st := openTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := st.SaveRun(ctx, testRun()); err == nil {
		t.Fatal("Expected an error for a cancelled context")
	}

	runs, err := st.ListRuns(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}

	if len(runs) != 0 {
		t.Errorf("Expected nothing saved, got %+v", runs)
	}
}
