package scoring

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nao1215/newsfilter/internal/morph"
)

// ChargedWords is an immutable set of normalized charged words.
// It is never modified after construction, so concurrent reads need no locking.
type ChargedWords struct {
	words map[string]struct{}
}

// NewChargedWords builds a set from the given words. Each word is trimmed and
// lower-cased; empty entries are skipped.
func NewChargedWords(words ...string) *ChargedWords {
	folder := morph.Default()
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = folder.Normalize(w)
		if w == "" {
			continue
		}
		set[w] = struct{}{}
	}
	return &ChargedWords{words: set}
}

// ReadChargedWords reads a newline-delimited word list.
func ReadChargedWords(readers ...io.Reader) (*ChargedWords, error) {
	var words []string
	for _, r := range readers {
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			words = append(words, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read charged words: %w", err)
		}
	}
	return NewChargedWords(words...), nil
}

// LoadChargedWords reads and merges newline-delimited word list files.
func LoadChargedWords(paths ...string) (*ChargedWords, error) {
	readers := make([]io.Reader, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path) //nolint:gosec // paths come from operator configuration
		if err != nil {
			return nil, fmt.Errorf("failed to load charged words from %s: %w", path, err)
		}
		readers = append(readers, strings.NewReader(string(data)))
	}
	return ReadChargedWords(readers...)
}

// Contains reports whether word is in the set.
// A nil set contains nothing.
func (c *ChargedWords) Contains(word string) bool {
	if c == nil {
		return false
	}
	_, ok := c.words[word]
	return ok
}

// Len returns the number of words in the set.
func (c *ChargedWords) Len() int {
	if c == nil {
		return 0
	}
	return len(c.words)
}
