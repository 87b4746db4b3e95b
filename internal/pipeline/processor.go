package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nao1215/newsfilter/internal/fetch"
	"github.com/nao1215/newsfilter/internal/model"
	"github.com/nao1215/newsfilter/internal/sanitize"
	"github.com/nao1215/newsfilter/internal/scoring"
)

const (
	// DefaultRequestTimeout bounds the fetch stage.
	DefaultRequestTimeout = 2 * time.Second

	// DefaultProcessingTimeout bounds the split and normalize stage.
	DefaultProcessingTimeout = 3 * time.Second
)

// Stage identifies a step of the per-article state machine.
type Stage int

const (
	// StageFetching downloads the page.
	StageFetching Stage = iota
	// StageSanitizing extracts article text from the page.
	StageSanitizing
	// StageScoring splits, normalizes and scores the text.
	StageScoring
	// StageDone is reached after a successful rating.
	StageDone
)

// String returns the stage name used in logs.
func (s Stage) String() string {
	switch s {
	case StageFetching:
		return "FETCHING"
	case StageSanitizing:
		return "SANITIZING"
	case StageScoring:
		return "SCORING"
	case StageDone:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}

// Processor rates one article at a time. It is stateless between calls and
// safe for concurrent use; all collaborators are shared read-only.
type Processor struct {
	fetcher           fetch.Fetcher
	sanitizer         sanitize.Sanitizer
	splitter          *scoring.Splitter
	charged           *scoring.ChargedWords
	requestTimeout    time.Duration
	processingTimeout time.Duration
	logger            *slog.Logger
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithRequestTimeout sets the fetch stage budget.
// Zero is allowed: the fetch starts with an expired context, so a fetcher
// that honours it reports TIMEOUT. Negative values are ignored.
func WithRequestTimeout(d time.Duration) ProcessorOption {
	return func(p *Processor) {
		if d >= 0 {
			p.requestTimeout = d
		}
	}
}

// WithProcessingTimeout sets the split and normalize stage budget.
// Zero is allowed and makes the splitter give up before the first word, which
// reports TIMEOUT. Negative values are ignored.
func WithProcessingTimeout(d time.Duration) ProcessorOption {
	return func(p *Processor) {
		if d >= 0 {
			p.processingTimeout = d
		}
	}
}

// WithSplitter sets the word splitter.
func WithSplitter(s *scoring.Splitter) ProcessorOption {
	return func(p *Processor) {
		if s != nil {
			p.splitter = s
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ProcessorOption {
	return func(p *Processor) {
		p.logger = logger
	}
}

// NewProcessor creates a Processor.
func NewProcessor(
	fetcher fetch.Fetcher,
	sanitizer sanitize.Sanitizer,
	charged *scoring.ChargedWords,
	opts ...ProcessorOption,
) *Processor {
	p := &Processor{
		fetcher:           fetcher,
		sanitizer:         sanitizer,
		splitter:          scoring.NewSplitter(),
		charged:           charged,
		requestTimeout:    DefaultRequestTimeout,
		processingTimeout: DefaultProcessingTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Rate implements Rater.
//
// The fetch and the split stages run under independent timeouts derived
// from ctx. When a timeout fires the stage goroutine is abandoned and its
// result discarded. Cancellation of ctx itself is reported as TIMEOUT too.
func (p *Processor) Rate(ctx context.Context, url string) model.Result {
	start := time.Now()

	html, err := runBounded(ctx, p.requestTimeout, func(ctx context.Context) (string, error) {
		return p.fetcher.Fetch(ctx, url)
	})
	if err != nil {
		if isTimeout(err) {
			return p.fail(url, StageFetching, model.StatusTimeout, err, start)
		}
		return p.fail(url, StageFetching, model.StatusFetchError, err, start)
	}
	p.logStage(url, StageFetching, start)

	text, err := p.sanitizer.Sanitize(html, true)
	if err != nil {
		return p.fail(url, StageSanitizing, model.StatusParsingError, err, start)
	}
	p.logStage(url, StageSanitizing, start)

	words, err := runBounded(ctx, p.processingTimeout, func(ctx context.Context) ([]string, error) {
		return p.splitter.Split(ctx, text)
	})
	if err != nil {
		return p.fail(url, StageScoring, model.StatusTimeout, err, start)
	}

	score := scoring.JaundiceRate(words, p.charged)
	p.logStage(url, StageDone, start)

	return model.NewOKResult(url, score, len(words))
}

func (p *Processor) fail(url string, stage Stage, status model.ProcessingStatus, err error, start time.Time) model.Result {
	p.logger.Debug("article rating failed",
		"url", url,
		"stage", stage.String(),
		"status", status.String(),
		"error", err,
		"elapsed", time.Since(start),
	)
	return model.NewFailedResult(url, status)
}

func (p *Processor) logStage(url string, stage Stage, start time.Time) {
	p.logger.Debug("article stage completed",
		"url", url,
		"stage", stage.String(),
		"elapsed", time.Since(start),
	)
}

// isTimeout reports whether err comes from an expired or cancelled context.
func isTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}

// runBounded runs fn in its own goroutine and waits at most timeout for it.
//
// The context passed to fn is cancelled when runBounded returns, so an
// abandoned fn observes cancellation, but its result is never awaited.
//
// With an already expired budget fn is called inline with the expired
// context and its own outcome is returned: a fn that honours ctx reports
// the context error, one that completes without blocking reports its result.
func runBounded[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if ctx.Err() != nil {
		return fn(ctx)
	}

	type outcome struct {
		value T
		err   error
	}
	done := make(chan outcome, 1)

	go func() {
		v, err := fn(ctx)
		done <- outcome{value: v, err: err}
	}()

	select {
	case o := <-done:
		return o.value, o.err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
