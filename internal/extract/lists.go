package extract

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// defaultStopwords is the built-in fallback used when no stopword file is
// configured or the file cannot be read.
var defaultStopwords = []string{"ない", "っぽい"}

// commentMarker starts a comment line in word-list files.
const commentMarker = "#"

func defaultStopwordSet() map[string]struct{} {
	set := make(map[string]struct{}, len(defaultStopwords))
	for _, w := range defaultStopwords {
		set[w] = struct{}{}
	}
	return set
}

// LoadStopwords replaces the stopword set from a newline-delimited file and
// drops the per-book cache. A missing file falls back to the built-in set.
func (e *Extractor) LoadStopwords(path string) error {
	if path == "" {
		e.setStopwords(defaultStopwordSet())
		return nil
	}

	words, err := readWordList(path)
	if err != nil {
		if os.IsNotExist(err) {
			e.logger.Warn("stopword file missing, using built-in defaults", "path", path)
			e.setStopwords(defaultStopwordSet())
			return nil
		}
		return fmt.Errorf("load stopwords %s: %w", path, err)
	}

	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	e.setStopwords(set)
	e.logger.Info("stopword list loaded", "path", path, "words", len(set))
	return nil
}

// LoadKeywords replaces the forced-keyword set from a newline-delimited file
// and drops the per-book cache. The keyword file is optional.
func (e *Extractor) LoadKeywords(path string) error {
	if path == "" {
		e.setKeywords(make(map[string]struct{}))
		return nil
	}

	words, err := readWordList(path)
	if err != nil {
		if os.IsNotExist(err) {
			e.logger.Warn("keyword file missing, forced keywords disabled", "path", path)
			e.setKeywords(make(map[string]struct{}))
			return nil
		}
		return fmt.Errorf("load keywords %s: %w", path, err)
	}

	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	e.setKeywords(set)
	e.logger.Info("forced-keyword list loaded", "path", path, "words", len(set))
	return nil
}

func (e *Extractor) setStopwords(set map[string]struct{}) {
	e.mu.Lock()
	e.stopwords = set
	e.cache = make(map[int][]string)
	e.gen++
	e.mu.Unlock()
}

func (e *Extractor) setKeywords(set map[string]struct{}) {
	e.mu.Lock()
	e.keywords = set
	e.cache = make(map[int][]string)
	e.gen++
	e.mu.Unlock()
}

// readWordList reads one word per line, skipping blanks and comment lines.
func readWordList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, commentMarker) {
			continue
		}
		words = append(words, line)
	}
	return words, scanner.Err()
}
