// Package domain contains the core business entities for the Kansou review-search corpus.
package domain

import "slices"

// Book represents one title in the loaded corpus.
// The corpus is read-only for the lifetime of the process; Index is the
// position of the book in the source file and doubles as its identity.
type Book struct {
	Index  int            `json:"index"`
	Title  string         `json:"title"`
	Author string         `json:"author"`
	Review string         `json:"review"`
	Genres []string       `json:"genres,omitempty"`
	ISBN   string         `json:"isbn,omitempty"`
	Scores map[string]int `json:"scores"`
}

// Score returns the rating for an axis key. Missing axes read as 0.
func (b *Book) Score(key string) int {
	return b.Scores[key]
}

// HasAnyGenre reports whether the book carries at least one of the given tags.
// An empty selection means "no restriction" and always matches.
func (b *Book) HasAnyGenre(tags []string) bool {
	if len(tags) == 0 {
		return true
	}
	for _, t := range tags {
		if slices.Contains(b.Genres, t) {
			return true
		}
	}
	return false
}

// SearchHit is one row of a ranked search result.
type SearchHit struct {
	BookIndex int    `json:"book_index"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Count     int    `json:"count"`
	Rank      int    `json:"rank"`
}

// WordCount pairs a descriptive word with its occurrence count.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// BookMetadata holds supplementary fields fetched from the external
// book-metadata service. Available is false when the lookup failed or
// the book has no online listing; Reason then carries a human-readable
// explanation and the remaining fields render as placeholders.
type BookMetadata struct {
	ISBN          string `json:"isbn"`
	Title         string `json:"title,omitempty"`
	Author        string `json:"author,omitempty"`
	Publisher     string `json:"publisher,omitempty"`
	SalesDate     string `json:"sales_date,omitempty"`
	Price         int    `json:"price,omitempty"`
	Caption       string `json:"caption,omitempty"`
	CoverURL      string `json:"cover_url,omitempty"`
	CoverBlurHash string `json:"cover_blurhash,omitempty"`
	ItemURL       string `json:"item_url,omitempty"`
	Available     bool   `json:"available"`
	Reason        string `json:"reason,omitempty"`
}
