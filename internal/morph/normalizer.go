package morph

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Normalizer maps a word form to its normal form.
// Implementations must be safe for concurrent use.
type Normalizer interface {
	Normalize(word string) string
}

// NormalizerFunc adapts an ordinary function to the Normalizer interface.
type NormalizerFunc func(word string) string

// Normalize calls f(word).
func (f NormalizerFunc) Normalize(word string) string {
	return f(word)
}

// LowercaseNormalizer lower-cases words using Russian casing rules and
// composes them to NFC. It performs no lemmatization.
type LowercaseNormalizer struct {
	tag language.Tag
}

// NewLowercaseNormalizer creates a LowercaseNormalizer for the given language.
func NewLowercaseNormalizer(tag language.Tag) *LowercaseNormalizer {
	return &LowercaseNormalizer{tag: tag}
}

// Normalize returns the NFC lower-cased form of word.
func (n *LowercaseNormalizer) Normalize(word string) string {
	// cases.Caser keeps internal state, so one is created per call.
	caser := cases.Lower(n.tag)
	return caser.String(norm.NFC.String(strings.TrimSpace(word)))
}

// Default returns the normalizer used when no dictionary is configured.
func Default() Normalizer {
	return NewLowercaseNormalizer(language.Russian)
}
