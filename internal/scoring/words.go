package scoring

import (
	"context"
	"runtime"
	"strings"
	"unicode/utf8"

	"github.com/nao1215/newsfilter/internal/morph"
)

const (
	// DefaultShortException is the short word kept despite the length filter.
	// The Russian negation particle carries sentiment and must not be dropped.
	DefaultShortException = "не"

	// minWordLength is the rune count a normalized word must exceed to be kept.
	minWordLength = 2

	// asciiPunctuation matches Python's string.punctuation.
	asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"
)

// quoteRemover deletes typographic quotes and ellipses anywhere in a token.
var quoteRemover = strings.NewReplacer("«", "", "»", "", "…", "")

// Splitter splits article text into normalized words.
// A Splitter is safe for concurrent use when its Normalizer is.
type Splitter struct {
	normalizer     morph.Normalizer
	shortException string
}

// SplitterOption configures a Splitter.
type SplitterOption func(*Splitter)

// WithNormalizer sets the word normalizer.
func WithNormalizer(n morph.Normalizer) SplitterOption {
	return func(s *Splitter) {
		if n != nil {
			s.normalizer = n
		}
	}
}

// WithShortException sets the short word kept despite the length filter.
// An empty value disables the exception.
func WithShortException(word string) SplitterOption {
	return func(s *Splitter) {
		s.shortException = word
	}
}

// NewSplitter creates a Splitter. Without options it lower-cases words and
// keeps "не".
func NewSplitter(opts ...SplitterOption) *Splitter {
	s := &Splitter{
		normalizer:     morph.Default(),
		shortException: DefaultShortException,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Split splits text on whitespace, cleans each token, normalizes it and keeps
// words longer than two runes plus the short exception.
//
// Split yields the processor after every token so that a long article does
// not starve sibling goroutines, and returns ctx.Err() as soon as ctx is done.
// Partial output is discarded on cancellation.
func (s *Splitter) Split(ctx context.Context, text string) ([]string, error) {
	tokens := strings.Fields(text)
	words := make([]string, 0, len(tokens))

	for _, token := range tokens {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		normalized := s.normalizer.Normalize(CleanWord(token))
		if s.keep(normalized) {
			words = append(words, normalized)
		}

		runtime.Gosched()
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return words, nil
}

func (s *Splitter) keep(word string) bool {
	if utf8.RuneCountInString(word) > minWordLength {
		return true
	}
	return s.shortException != "" && word == s.shortException
}

// CleanWord removes typographic quotes and ellipses and trims leading and
// trailing ASCII punctuation.
func CleanWord(token string) string {
	return strings.Trim(quoteRemover.Replace(token), asciiPunctuation)
}
