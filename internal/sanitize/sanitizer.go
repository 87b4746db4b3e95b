package sanitize

import "errors"

// ErrArticleNotFound is returned when the page markup has no recognizable article.
var ErrArticleNotFound = errors.New("article not found")

// Sanitizer turns raw page HTML into article content.
// Implementations must be safe for concurrent use.
type Sanitizer interface {
	// Sanitize returns the article as plain text when plaintext is true and
	// as cleaned HTML otherwise.
	Sanitize(rawHTML string, plaintext bool) (string, error)
}

// Func adapts an ordinary function to the Sanitizer interface.
type Func func(rawHTML string, plaintext bool) (string, error)

// Sanitize calls f(rawHTML, plaintext).
func (f Func) Sanitize(rawHTML string, plaintext bool) (string, error) {
	return f(rawHTML, plaintext)
}
