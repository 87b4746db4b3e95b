package pipeline

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nao1215/newsfilter/internal/cache"
	"github.com/nao1215/newsfilter/internal/model"
)

// memoryStore is an in-memory cache.Store for tests.
type memoryStore struct {
	mu      sync.Mutex
	entries map[string]model.Result
	getErr  error
	sets    int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{entries: make(map[string]model.Result)}
}

func (m *memoryStore) Get(_ context.Context, key string) (model.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return model.Result{}, m.getErr
	}
	r, ok := m.entries[key]
	if !ok {
		return model.Result{}, cache.ErrCacheMiss
	}
	return r, nil
}

func (m *memoryStore) Set(_ context.Context, key string, result model.Result, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = result
	m.sets++
	return nil
}

func (m *memoryStore) Close() error { return nil }

// countingRater returns status for every URL and counts calls.
func countingRater(status model.ProcessingStatus, calls *atomic.Int32) Rater {
	return RaterFunc(func(_ context.Context, url string) model.Result {
		calls.Add(1)
		if status == model.StatusOK {
			return model.NewOKResult(url, 50, 2)
		}
		return model.NewFailedResult(url, status)
	})
}

// TestCachedRaterRate tests cache hits, misses and what gets stored.
func TestCachedRaterRate(t *testing.T) {
	t.Parallel()

	const url = "https://inosmi.ru/a.html"
	ctx := context.Background()

	t.Run("second rating is served from cache", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		store := newMemoryStore()
		c := NewCachedRater(countingRater(model.StatusOK, &calls), store, WithCacheLogger(discardLogger()))

		first := c.Rate(ctx, url)
		second := c.Rate(ctx, url)

		if calls.Load() != 1 {
			t.Errorf("expected 1 call to the wrapped rater, got %d", calls.Load())
		}
		if !first.OK() || !second.OK() || second.ScoreValue() != 50 {
			t.Errorf("unexpected results %+v %+v", first, second)
		}
		if _, ok := store.entries[cache.ArticleFingerprint(url)]; !ok {
			t.Error("expected result stored under the article fingerprint")
		}
	})

	t.Run("parsing errors are cached", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		c := NewCachedRater(countingRater(model.StatusParsingError, &calls), newMemoryStore(), WithCacheLogger(discardLogger()))
		_ = c.Rate(ctx, url)
		r := c.Rate(ctx, url)

		if calls.Load() != 1 {
			t.Errorf("expected 1 call, got %d", calls.Load())
		}
		if r.Status != model.StatusParsingError {
			t.Errorf("expected PARSING_ERROR, got %s", r.Status)
		}
	})

	for _, status := range []model.ProcessingStatus{model.StatusFetchError, model.StatusTimeout} {
		status := status
		t.Run(status.String()+" is not cached", func(t *testing.T) {
			t.Parallel()

			var calls atomic.Int32
			store := newMemoryStore()
			c := NewCachedRater(countingRater(status, &calls), store, WithCacheLogger(discardLogger()))
			_ = c.Rate(ctx, url)
			_ = c.Rate(ctx, url)

			if calls.Load() != 2 {
				t.Errorf("expected 2 calls, got %d", calls.Load())
			}
			if store.sets != 0 {
				t.Errorf("expected nothing stored, got %d writes", store.sets)
			}
		})
	}

	t.Run("store errors fall through to the wrapped rater", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		store := newMemoryStore()
		store.getErr = errors.New("connection reset")
		c := NewCachedRater(countingRater(model.StatusOK, &calls), store, WithCacheLogger(discardLogger()))

		r := c.Rate(ctx, url)
		if !r.OK() {
			t.Errorf("expected OK, got %s", r.Status)
		}
		if calls.Load() != 1 {
			t.Errorf("expected 1 call, got %d", calls.Load())
		}
	})

	t.Run("cached result carries the requested url", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		c := NewCachedRater(countingRater(model.StatusOK, &calls), newMemoryStore(),
			WithKeyFunc(func(string) string { return "same" }),
			WithCacheLogger(discardLogger()),
		)
		_ = c.Rate(ctx, "https://a.example")
		r := c.Rate(ctx, "https://b.example")

		if r.URL != "https://b.example" {
			t.Errorf("expected requested url, got %q", r.URL)
		}
	})
}

// TestCachedRaterCollapsesConcurrentCalls tests that identical concurrent
// ratings share one call of the wrapped rater.
func TestCachedRaterCollapsesConcurrentCalls(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	release := make(chan struct{})
	rater := RaterFunc(func(_ context.Context, url string) model.Result {
		calls.Add(1)
		<-release
		return model.NewOKResult(url, 25, 4)
	})
	c := NewCachedRater(rater, newMemoryStore(), WithTTL(time.Minute), WithCacheLogger(discardLogger()))

	var wg sync.WaitGroup
	results := make([]model.Result, 5)
	for i := range results {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = c.Rate(context.Background(), "https://inosmi.ru/a.html")
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if calls.Load() != 1 {
		t.Errorf("expected 1 call, got %d", calls.Load())
	}
	for i, r := range results {
		if r.ScoreValue() != 25 {
			t.Errorf("result %d: expected score 25, got %v", i, r.ScoreValue())
		}
	}
}

// TestNewCachedRaterOptions tests option defaults.
func TestNewCachedRaterOptions(t *testing.T) {
	t.Parallel()

	c := NewCachedRater(okRater(0), newMemoryStore(), WithTTL(-time.Second), WithKeyFunc(nil))
	if c.ttl != DefaultCacheTTL {
		t.Errorf("expected default TTL, got %v", c.ttl)
	}
	if c.keyFn == nil || c.logger == nil {
		t.Error("expected default key function and logger")
	}
	if c.cacheTimeout != DefaultCacheTimeout {
		t.Errorf("expected default cache timeout, got %v", c.cacheTimeout)
	}

	c = NewCachedRater(okRater(0), newMemoryStore(), WithCacheTimeout(-time.Second))
	if c.cacheTimeout != DefaultCacheTimeout {
		t.Errorf("expected negative cache timeout to be ignored, got %v", c.cacheTimeout)
	}

	c = NewCachedRater(okRater(0), newMemoryStore(), WithCacheTimeout(time.Second))
	if c.cacheTimeout != time.Second {
		t.Errorf("expected 1s cache timeout, got %v", c.cacheTimeout)
	}
}

// stalledStore never answers until release is closed.
type stalledStore struct {
	release chan struct{}
}

func (s *stalledStore) Get(context.Context, string) (model.Result, error) {
	<-s.release
	return model.Result{}, cache.ErrCacheMiss
}

func (s *stalledStore) Set(context.Context, string, model.Result, time.Duration) error {
	<-s.release
	return nil
}

func (s *stalledStore) Close() error { return nil }

// TestCachedRaterStalledStore tests that an unresponsive store cannot hold a
// rating past the cache timeout.
func TestCachedRaterStalledStore(t *testing.T) {
	t.Parallel()

	store := &stalledStore{release: make(chan struct{})}
	t.Cleanup(func() { close(store.release) })

	var calls atomic.Int32
	rater := NewCachedRater(countingRater(model.StatusOK, &calls), store,
		WithCacheTimeout(50*time.Millisecond),
		WithCacheLogger(discardLogger()),
	)

	start := time.Now()
	result := rater.Rate(context.Background(), "https://inosmi.ru/a.html")
	elapsed := time.Since(start)

	if result.Status != model.StatusOK {
		t.Fatalf("expected OK, got %s", result.Status)
	}
	if calls.Load() != 1 {
		t.Errorf("expected the wrapped rater to run once, ran %d times", calls.Load())
	}
	if elapsed > time.Second {
		t.Errorf("stalled store delayed the rating by %v", elapsed)
	}
}
