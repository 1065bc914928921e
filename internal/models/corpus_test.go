package models

import "testing"

func TestCorpus_PutKeepsFirstSeenOrder(t *testing.T) {
	c := NewCorpus()

	c.Put(ArticleRecord{URL: "https://a", Title: "A"})
	c.Put(ArticleRecord{URL: "https://b", Title: "B"})

	if overwritten := c.Put(ArticleRecord{URL: "https://a", Title: "A2"}); !overwritten {
		t.Error("Expected second put of https://a to report an overwrite")
	}

	if c.Len() != 2 {
		t.Fatalf("Expected 2 articles, got %d", c.Len())
	}

	articles := c.Articles()
	if articles[0].URL != "https://a" || articles[0].Title != "A2" {
		t.Errorf("Expected last write at first position, got %+v", articles[0])
	}

	if articles[0].Index != 0 || articles[1].Index != 1 {
		t.Errorf("Unexpected indexes: %d, %d", articles[0].Index, articles[1].Index)
	}
}

func TestCorpus_Get(t *testing.T) {
	c := NewCorpusFromRecords([]ArticleRecord{
		{URL: "u1", Title: "one"},
		{URL: "u2", Title: "two"},
	})

	rec, ok := c.Get("u2")
	if !ok {
		t.Fatal("Expected u2 to be present")
	}

	if rec.Title != "two" || rec.Index != 1 {
		t.Errorf("Unexpected record: %+v", rec)
	}

	if _, ok := c.Get("missing"); ok {
		t.Error("Expected missing URL to be absent")
	}
}

func TestArticleRecord_HasKnownDate(t *testing.T) {
	tests := []struct {
		date string
		want bool
	}{
		{"2025-01-20", true},
		{UnknownDate, false},
		{"", false},
	}

	for _, tt := range tests {
		if got := (ArticleRecord{Date: tt.date}).HasKnownDate(); got != tt.want {
			t.Errorf("HasKnownDate(%q) = %v, want %v", tt.date, got, tt.want)
		}
	}
}
