package morph

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrMalformedDictionary is returned when a dictionary line cannot be parsed.
var ErrMalformedDictionary = errors.New("malformed dictionary line")

// Dictionary is a Normalizer backed by a form-to-lemma table.
//
// Lookups are made on the case-folded form. Words missing from the table
// are passed to the fallback normalizer. The table is immutable after
// construction, so a Dictionary is safe for concurrent use.
type Dictionary struct {
	lemmas   map[string]string
	fallback Normalizer
}

// NewDictionary creates a Dictionary from the given form-to-lemma map.
// Keys and values are folded with the fallback normalizer before being stored.
func NewDictionary(lemmas map[string]string, fallback Normalizer) *Dictionary {
	if fallback == nil {
		fallback = Default()
	}
	table := make(map[string]string, len(lemmas))
	for form, lemma := range lemmas {
		table[fallback.Normalize(form)] = fallback.Normalize(lemma)
	}
	return &Dictionary{lemmas: table, fallback: fallback}
}

// ReadDictionary parses a tab-separated "form<TAB>lemma" table.
// Empty lines and lines starting with '#' are ignored.
func ReadDictionary(r io.Reader, fallback Normalizer) (*Dictionary, error) {
	lemmas := make(map[string]string)
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		form, lemma, ok := strings.Cut(line, "\t")
		form, lemma = strings.TrimSpace(form), strings.TrimSpace(lemma)
		if !ok || form == "" || lemma == "" {
			return nil, fmt.Errorf("%w %d: %q", ErrMalformedDictionary, lineNo, line)
		}
		lemmas[form] = lemma
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dictionary: %w", err)
	}
	return NewDictionary(lemmas, fallback), nil
}

// LoadDictionary reads a dictionary file from disk.
func LoadDictionary(path string, fallback Normalizer) (*Dictionary, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("failed to open dictionary %s: %w", path, err)
	}
	defer f.Close()
	return ReadDictionary(f, fallback)
}

// Normalize returns the lemma for word, or the fallback form when unknown.
func (d *Dictionary) Normalize(word string) string {
	folded := d.fallback.Normalize(word)
	if lemma, ok := d.lemmas[folded]; ok {
		return lemma
	}
	return folded
}

// Len returns the number of word forms in the table.
func (d *Dictionary) Len() int {
	return len(d.lemmas)
}
