package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/nao1215/newsfilter/internal/cache"
	"github.com/nao1215/newsfilter/internal/model"
)

const (
	// DefaultCacheTTL is how long a cached rating stays valid.
	DefaultCacheTTL = 5 * time.Minute

	// DefaultCacheTimeout bounds each cache lookup and each cache write.
	DefaultCacheTimeout = 250 * time.Millisecond
)

// CachedRater serves ratings from a cache.Store and rates misses with the
// wrapped Rater. Concurrent ratings of the same article share one call of
// the wrapped Rater.
//
// Only OK and PARSING_ERROR results are stored. Fetch errors and timeouts
// depend on network conditions and are always retried on the next request.
// Cache failures are logged and otherwise ignored. A lookup that does not
// answer within the cache timeout counts as a miss, and a write that does
// not finish in time is dropped.
type CachedRater struct {
	next         Rater
	store        cache.Store
	ttl          time.Duration
	cacheTimeout time.Duration
	keyFn        func(url string) string
	group        singleflight.Group
	logger       *slog.Logger
}

// CachedOption configures a CachedRater.
type CachedOption func(*CachedRater)

// WithTTL sets the lifetime of cached results. Values <= 0 are ignored.
func WithTTL(ttl time.Duration) CachedOption {
	return func(c *CachedRater) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithCacheTimeout bounds each store Get and Set. Values <= 0 are ignored.
func WithCacheTimeout(d time.Duration) CachedOption {
	return func(c *CachedRater) {
		if d > 0 {
			c.cacheTimeout = d
		}
	}
}

// WithKeyFunc overrides how cache keys are derived from URLs.
func WithKeyFunc(fn func(url string) string) CachedOption {
	return func(c *CachedRater) {
		if fn != nil {
			c.keyFn = fn
		}
	}
}

// WithCacheLogger sets the logger.
func WithCacheLogger(logger *slog.Logger) CachedOption {
	return func(c *CachedRater) {
		c.logger = logger
	}
}

// NewCachedRater wraps next with store.
func NewCachedRater(next Rater, store cache.Store, opts ...CachedOption) *CachedRater {
	c := &CachedRater{
		next:  next,
		store: store,
		ttl:          DefaultCacheTTL,
		cacheTimeout: DefaultCacheTimeout,
		keyFn:        cache.ArticleFingerprint,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Rate implements Rater.
func (c *CachedRater) Rate(ctx context.Context, url string) model.Result {
	key := c.keyFn(url)

	cached, err := runBounded(ctx, c.cacheTimeout, func(ctx context.Context) (model.Result, error) {
		return c.store.Get(ctx, key)
	})
	switch {
	case err == nil:
		c.logger.Debug("rating served from cache", "url", url, "status", cached.Status.String())
		cached.URL = url
		return cached
	case !errors.Is(err, cache.ErrCacheMiss):
		c.logger.Warn("cache lookup failed", "url", url, "error", err)
	}

	// The shared call must not depend on the cancellation of whichever
	// caller happened to start it. Stage timeouts still bound it.
	shared := context.WithoutCancel(ctx)
	v, _, _ := c.group.Do(key, func() (any, error) {
		result := c.next.Rate(shared, url)
		if cacheable(result) {
			_, err := runBounded(shared, c.cacheTimeout, func(ctx context.Context) (struct{}, error) {
				return struct{}{}, c.store.Set(ctx, key, result, c.ttl)
			})
			if err != nil {
				c.logger.Warn("cache write failed", "url", url, "error", err)
			}
		}
		return result, nil
	})

	result := v.(model.Result) //nolint:forcetypeassert // the shared call only returns model.Result
	result.URL = url
	return result
}

// cacheable reports whether result depends only on the article itself.
func cacheable(result model.Result) bool {
	return result.Status == model.StatusOK || result.Status == model.StatusParsingError
}
