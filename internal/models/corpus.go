package models

// Corpus is the in-memory article collection for one analysis run.
//
// Articles are keyed by URL with last-write-wins semantics: putting a record whose URL is
// already present replaces the stored record but keeps the position where the URL was
// first seen. Iteration order is that first-seen order.
type Corpus struct {
	index    map[string]int
	articles []ArticleRecord
}

// NewCorpus creates an empty corpus.
func NewCorpus() *Corpus {
	return &Corpus{
		index: make(map[string]int),
	}
}

// NewCorpusFromRecords builds a corpus by putting every record in order.
func NewCorpusFromRecords(records []ArticleRecord) *Corpus {
	c := NewCorpus()
	for _, r := range records {
		c.Put(r)
	}

	return c
}

// Put inserts or replaces the record keyed by its URL. It reports whether an existing
// record was overwritten.
func (c *Corpus) Put(rec ArticleRecord) bool {
	if pos, ok := c.index[rec.URL]; ok {
		rec.Index = pos
		c.articles[pos] = rec

		return true
	}

	rec.Index = len(c.articles)
	c.index[rec.URL] = rec.Index
	c.articles = append(c.articles, rec)

	return false
}

// Get returns the record stored for url.
func (c *Corpus) Get(url string) (ArticleRecord, bool) {
	pos, ok := c.index[url]
	if !ok {
		return ArticleRecord{}, false
	}

	return c.articles[pos], true
}

// Len returns the number of distinct URLs.
func (c *Corpus) Len() int {
	return len(c.articles)
}

// Articles returns the records in first-seen order. The slice must not be modified.
func (c *Corpus) Articles() []ArticleRecord {
	return c.articles
}
