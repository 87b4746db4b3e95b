package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/newsfilter/internal/model"
)

// BatchRunner rates many URLs concurrently.
//
// Every URL is rated by its own goroutine. The runner waits for all of them
// and returns exactly one Result per input URL. Failures are isolated: the
// errgroup is created without a context, so no goroutine is ever cancelled
// because a sibling failed.
type BatchRunner struct {
	// rater rates a single URL. It is shared by all goroutines.
	rater Rater

	// concurrency caps the number of URLs rated at once. Zero means unlimited.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchRunner.
type BatchOption func(*BatchRunner)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchRunner) {
		b.logger = logger
	}
}

// WithConcurrency caps the number of concurrently rated URLs.
// Values <= 0 leave the runner unlimited.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchRunner) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchRunner creates a BatchRunner around rater.
func NewBatchRunner(rater Rater, opts ...BatchOption) *BatchRunner {
	b := &BatchRunner{rater: rater}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	return b
}

// Run rates every URL and returns the results in input order.
// URLs are expected to be deduplicated by the caller.
func (b *BatchRunner) Run(ctx context.Context, urls []string) []model.Result {
	results := make([]model.Result, len(urls))
	b.run(ctx, urls, func(result model.Result, index int) {
		// Each goroutine owns its slot, so no locking is needed.
		results[index] = result
	})
	return results
}

// RunWithCallback rates every URL and calls callback as soon as each
// result is ready. The callback receives the index of the URL in urls and
// is called from the rating goroutine, so it must be safe for concurrent use.
// RunWithCallback returns after all callbacks have returned.
func (b *BatchRunner) RunWithCallback(ctx context.Context, urls []string, callback func(result model.Result, index int)) {
	b.run(ctx, urls, callback)
}

func (b *BatchRunner) run(ctx context.Context, urls []string, callback func(model.Result, int)) {
	b.logger.Debug("starting batch",
		"total_urls", len(urls),
		"concurrency", b.concurrency,
	)
	start := time.Now()

	var g errgroup.Group
	if b.concurrency > 0 {
		g.SetLimit(b.concurrency)
	}

	for i, url := range urls {
		i, url := i, url
		g.Go(func() error {
			result := b.rater.Rate(ctx, url)
			callback(result, i)
			return nil
		})
	}

	// Goroutines never return errors; Wait is only the completion barrier.
	_ = g.Wait() //nolint:errcheck // always nil

	b.logger.Debug("batch complete",
		"total_urls", len(urls),
		"elapsed", time.Since(start),
	)
}
