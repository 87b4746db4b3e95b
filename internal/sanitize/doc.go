// Package sanitize extracts article text from news site markup.
//
// A Sanitizer receives the raw HTML of a page and returns either cleaned
// article HTML or plain text. When the page does not contain a recognizable
// article, Sanitize returns an error wrapping ErrArticleNotFound. The pipeline
// maps that error to the PARSING_ERROR status.
package sanitize
