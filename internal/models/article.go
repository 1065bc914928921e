// Package models defines the data structures shared by the loader, the analyzers and the writers.
package models

// UnknownDate is the sentinel stored in Date when the crawler could not parse a publication date.
const UnknownDate = "UNKNOWN_DATE"

// ArticleRecord is one crawled article. Missing CSV fields are stored as empty strings.
type ArticleRecord struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Date    string `json:"date"`
	DateRaw string `json:"-"`
	PageNum int    `json:"-"`
	// Index is the article's position in its corpus (first-seen order of its URL).
	Index int `json:"-"`
}

// ArticleRef is the reduced article shape used in every JSON output file.
type ArticleRef struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Date  string `json:"date"`
}

// Ref returns the output shape of the article.
func (a ArticleRecord) Ref() ArticleRef {
	return ArticleRef{
		Title: a.Title,
		URL:   a.URL,
		Date:  a.Date,
	}
}

// HasKnownDate reports whether the article carries a real publication date.
func (a ArticleRecord) HasKnownDate() bool {
	return a.Date != "" && a.Date != UnknownDate
}
