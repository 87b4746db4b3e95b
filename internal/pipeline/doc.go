// Package pipeline rates news articles concurrently.
//
// Processor runs the per-article state machine
// FETCHING -> SANITIZING -> SCORING -> DONE and converts every failure into
// a model.Result with one of the four processing statuses. It never returns
// an error: classification happens locally so a failure of one URL cannot
// affect any other.
//
// BatchRunner fans a Rater out over a list of URLs and waits for all of them.
// It does not cancel siblings when one URL fails.
//
// CachedRater is a decorator that serves repeated ratings from a cache.Store.
// It is injected into the BatchRunner at construction time in place of the
// plain Processor.
package pipeline
