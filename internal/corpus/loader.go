// Package corpus loads the read-only book table the whole pipeline runs over.
//
// The corpus is a CSV with at minimum {title, author, review, genre} plus one
// column per axis score and an optional isbn column. It is loaded once at
// startup and never mutated afterwards, which is what makes the derived
// word-list caches safe to share across sessions.
package corpus

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/kansouapp/kansou-server/internal/domain"
	"github.com/kansouapp/kansou-server/internal/errors"
)

// requiredColumns must all be present in the header or loading fails.
var requiredColumns = []string{"title", "author", "review", "genre"}

// headerAliases maps legacy column spellings to their canonical keys. Older
// corpus files spell the paranormal axis column "paranomal".
var headerAliases = map[string]string{"paranomal": "paranormal"}

// Corpus is the loaded book table plus the derived axis and genre sets.
type Corpus struct {
	Books []domain.Book
	// Axes is the stable axis order for radar rendering: the six base axes,
	// plus any extended axes the file carries.
	Axes []domain.Axis
	// Genres is the sorted set of distinct genre tags across all books.
	Genres []string
}

// Load reads the corpus from a CSV file.
// A missing file or missing required columns is fatal for the application.
func Load(path string) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.LoadFailed(fmt.Sprintf("corpus file %s cannot be opened", path)).WithCause(err)
	}
	defer f.Close()

	c, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("corpus %s: %w", path, err)
	}
	return c, nil
}

// Parse reads the corpus from CSV data.
func Parse(r io.Reader) (*Corpus, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // short rows are padded with empty cells below

	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.LoadFailed("corpus file is malformed").WithCause(err)
	}
	if len(records) == 0 {
		return nil, errors.LoadFailed("corpus file is empty")
	}

	// Column names are matched case- and whitespace-insensitively.
	colIdx := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		colIdx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for alias, canonical := range headerAliases {
		if _, ok := colIdx[canonical]; ok {
			continue
		}
		if i, ok := colIdx[alias]; ok {
			colIdx[canonical] = i
		}
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := colIdx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, errors.LoadFailed(fmt.Sprintf("corpus is missing required columns: %s", strings.Join(missing, ", ")))
	}

	// The base axes are always part of the vector (absent column reads as 0);
	// extended axes only appear when the file carries them.
	axes := slices.Clone(domain.BaseAxes)
	for _, ax := range domain.ExtendedAxes {
		if _, ok := colIdx[ax.Key]; ok {
			axes = append(axes, ax)
		}
	}

	cell := func(row []string, col string) string {
		i, ok := colIdx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	books := make([]domain.Book, 0, len(records)-1)
	genreSet := make(map[string]struct{})

	for n, row := range records[1:] {
		scores := make(map[string]int, len(axes))
		for _, ax := range axes {
			scores[ax.Key] = parseScore(cell(row, ax.Key))
		}

		genres := SplitTags(cell(row, "genre"))
		for _, g := range genres {
			genreSet[g] = struct{}{}
		}

		books = append(books, domain.Book{
			Index:  n,
			Title:  cell(row, "title"),
			Author: cell(row, "author"),
			Review: cell(row, "review"),
			Genres: genres,
			ISBN:   cell(row, "isbn"),
			Scores: scores,
		})
	}

	genres := make([]string, 0, len(genreSet))
	for g := range genreSet {
		genres = append(genres, g)
	}
	slices.Sort(genres)

	return &Corpus{Books: books, Axes: axes, Genres: genres}, nil
}

// Book returns the book at a corpus index.
func (c *Corpus) Book(index int) (*domain.Book, error) {
	if index < 0 || index >= len(c.Books) {
		return nil, errors.NotFoundf("no book at index %d", index)
	}
	return &c.Books[index], nil
}

// SplitTags splits a comma-separated genre field into trimmed, de-duplicated
// tags. Both ASCII and full-width commas act as separators; empty tags are
// dropped.
func SplitTags(field string) []string {
	if field == "" {
		return nil
	}
	parts := strings.FieldsFunc(field, func(r rune) bool {
		return r == ',' || r == '、'
	})

	var tags []string
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		tag := strings.Trim(p, " \t　")
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}

// parseScore reads an axis cell. Blank or unparsable cells read as 0.
func parseScore(s string) int {
	if s == "" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}
