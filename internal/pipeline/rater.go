package pipeline

import (
	"context"

	"github.com/nao1215/newsfilter/internal/model"
)

// Rater rates a single article URL.
//
// Implementations must always return a Result for url and must classify
// their own failures into a ProcessingStatus instead of panicking.
type Rater interface {
	Rate(ctx context.Context, url string) model.Result
}

// RaterFunc adapts an ordinary function to the Rater interface.
type RaterFunc func(ctx context.Context, url string) model.Result

// Rate calls f(ctx, url).
func (f RaterFunc) Rate(ctx context.Context, url string) model.Result {
	return f(ctx, url)
}
