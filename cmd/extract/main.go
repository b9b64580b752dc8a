// Command extract runs the descriptive-word extraction pipeline over text
// from a file or stdin and prints each word with its occurrence count.
// Useful for tuning stopword and forced-keyword lists before loading a corpus.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/kansouapp/kansou-server/internal/extract"
	"github.com/kansouapp/kansou-server/internal/tokenize"
)

func main() {
	input := flag.String("file", "", "Input text file (default: stdin)")
	wordForm := flag.String("word-form", extract.FormBase, "Word form: base or surface")
	adjNouns := flag.Bool("adjectival-nouns", false, "Also extract adjectival nouns")
	stopwords := flag.String("stopwords", "", "Stopword list file (default: built-in set)")
	keywords := flag.String("keywords", "", "Forced-keyword list file")
	flag.Parse()

	if err := run(*input, *wordForm, *adjNouns, *stopwords, *keywords); err != nil {
		fmt.Fprintf(os.Stderr, "extract: %v\n", err)
		os.Exit(1)
	}
}

func run(input, wordForm string, adjNouns bool, stopwords, keywords string) error {
	var text []byte
	var err error
	if input == "" {
		text, err = io.ReadAll(os.Stdin)
	} else {
		text, err = os.ReadFile(input)
	}
	if err != nil {
		return err
	}

	tok, err := tokenize.NewKagome()
	if err != nil {
		return err
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	e := extract.New(tok, extract.Policy{
		Form:                   wordForm,
		IncludeAdjectivalNouns: adjNouns,
	}, log)

	if err := e.LoadStopwords(stopwords); err != nil {
		return err
	}
	if err := e.LoadKeywords(keywords); err != nil {
		return err
	}

	words := e.Words(string(text))
	if len(words) == 0 {
		fmt.Println("no descriptive words found")
		return nil
	}

	// Tally in first-appearance order.
	counts := make(map[string]int, len(words))
	var order []string
	for _, w := range words {
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}

	for _, w := range order {
		fmt.Printf("%s\t%d\n", w, counts[w])
	}
	return nil
}
