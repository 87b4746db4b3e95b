package pipeline

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nao1215/newsfilter/internal/model"
)

// okRater rates every URL as OK after an optional delay.
func okRater(delay time.Duration) Rater {
	return RaterFunc(func(ctx context.Context, url string) model.Result {
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return model.NewFailedResult(url, model.StatusTimeout)
			}
		}
		return model.NewOKResult(url, 0, 1)
	})
}

func testURLs(n int) []string {
	urls := make([]string, n)
	for i := 0; i < n; i++ {
		urls[i] = fmt.Sprintf("https://example.com/article-%02d", i)
	}
	return urls
}

// TestBatchRunnerNew tests the BatchRunner constructor.
func TestBatchRunnerNew(t *testing.T) {
	t.Parallel()

	t.Run("creates runner with defaults", func(t *testing.T) {
		t.Parallel()

		b := NewBatchRunner(okRater(0))
		if b.concurrency != 0 {
			t.Errorf("expected unlimited concurrency, got %d", b.concurrency)
		}
		if b.logger == nil {
			t.Error("expected non-nil logger")
		}
	})

	t.Run("applies WithConcurrency option", func(t *testing.T) {
		t.Parallel()

		b := NewBatchRunner(okRater(0), WithConcurrency(5))
		if b.concurrency != 5 {
			t.Errorf("expected concurrency 5, got %d", b.concurrency)
		}
	})

	t.Run("ignores non-positive concurrency", func(t *testing.T) {
		t.Parallel()

		b := NewBatchRunner(okRater(0), WithConcurrency(-1))
		if b.concurrency != 0 {
			t.Errorf("expected unlimited concurrency, got %d", b.concurrency)
		}
	})

	t.Run("applies WithBatchLogger option", func(t *testing.T) {
		t.Parallel()

		b := NewBatchRunner(okRater(0), WithBatchLogger(nil))
		if b.logger == nil {
			t.Error("expected nil logger to fall back to default")
		}
	})
}

// TestBatchRunnerRun tests batch processing.
func TestBatchRunnerRun(t *testing.T) {
	t.Parallel()

	t.Run("returns one result per url in input order", func(t *testing.T) {
		t.Parallel()

		urls := testURLs(25)
		results := NewBatchRunner(okRater(time.Millisecond), WithBatchLogger(discardLogger())).
			Run(context.Background(), urls)

		if len(results) != len(urls) {
			t.Fatalf("expected %d results, got %d", len(urls), len(results))
		}
		seen := make(map[string]int)
		for i, r := range results {
			if r.URL != urls[i] {
				t.Errorf("result %d: expected %q, got %q", i, urls[i], r.URL)
			}
			seen[r.URL]++
		}
		for _, u := range urls {
			if seen[u] != 1 {
				t.Errorf("expected %q exactly once, got %d", u, seen[u])
			}
		}
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		results := NewBatchRunner(okRater(0), WithBatchLogger(discardLogger())).Run(context.Background(), nil)
		if len(results) != 0 {
			t.Errorf("expected no results, got %d", len(results))
		}
	})

	t.Run("failures do not affect siblings", func(t *testing.T) {
		t.Parallel()

		rater := RaterFunc(func(_ context.Context, url string) model.Result {
			if url == "https://broken.example" {
				return model.NewFailedResult(url, model.StatusFetchError)
			}
			return model.NewOKResult(url, 10, 10)
		})
		urls := []string{"https://a.example", "https://broken.example", "https://b.example"}

		results := NewBatchRunner(rater, WithBatchLogger(discardLogger())).Run(context.Background(), urls)

		want := []model.ProcessingStatus{model.StatusOK, model.StatusFetchError, model.StatusOK}
		for i, r := range results {
			if r.Status != want[i] {
				t.Errorf("result %d: expected %s, got %s", i, want[i], r.Status)
			}
		}
	})

	t.Run("stalled url times out while siblings finish", func(t *testing.T) {
		t.Parallel()

		slow := newTestProcessor(stallingFetcher(), WithRequestTimeout(0))
		fast := newTestProcessor(staticFetcher(testArticle))
		rater := RaterFunc(func(ctx context.Context, url string) model.Result {
			if url == "https://stalled.example" {
				return slow.Rate(ctx, url)
			}
			return fast.Rate(ctx, url)
		})
		urls := []string{"https://inosmi.ru/1.html", "https://stalled.example", "https://inosmi.ru/2.html"}

		start := time.Now()
		results := NewBatchRunner(rater, WithBatchLogger(discardLogger())).Run(context.Background(), urls)

		if results[1].Status != model.StatusTimeout {
			t.Errorf("expected TIMEOUT for stalled url, got %s", results[1].Status)
		}
		if results[0].Status != model.StatusOK || results[2].Status != model.StatusOK {
			t.Errorf("expected siblings to succeed, got %s and %s", results[0].Status, results[2].Status)
		}
		if elapsed := time.Since(start); elapsed > 5*time.Second {
			t.Errorf("batch took too long: %v", elapsed)
		}
	})

	t.Run("cancelled context still yields every result", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		urls := testURLs(5)
		results := NewBatchRunner(okRater(time.Second), WithBatchLogger(discardLogger())).Run(ctx, urls)

		for i, r := range results {
			if r.URL != urls[i] || r.Status != model.StatusTimeout {
				t.Errorf("result %d: expected TIMEOUT for %q, got %s for %q", i, urls[i], r.Status, r.URL)
			}
		}
	})

	t.Run("urls run concurrently", func(t *testing.T) {
		t.Parallel()

		start := time.Now()
		NewBatchRunner(okRater(100*time.Millisecond), WithBatchLogger(discardLogger())).
			Run(context.Background(), testURLs(10))

		if elapsed := time.Since(start); elapsed > 900*time.Millisecond {
			t.Errorf("expected concurrent execution, took %v", elapsed)
		}
	})
}

// TestBatchRunnerConcurrencyLimit tests that WithConcurrency caps in-flight ratings.
func TestBatchRunnerConcurrencyLimit(t *testing.T) {
	t.Parallel()

	var inFlight, maxInFlight atomic.Int32
	rater := RaterFunc(func(_ context.Context, url string) model.Result {
		n := inFlight.Add(1)
		for {
			m := maxInFlight.Load()
			if n <= m || maxInFlight.CompareAndSwap(m, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		inFlight.Add(-1)
		return model.NewOKResult(url, 0, 0)
	})

	results := NewBatchRunner(rater, WithConcurrency(3), WithBatchLogger(discardLogger())).
		Run(context.Background(), testURLs(20))

	if len(results) != 20 {
		t.Errorf("expected 20 results, got %d", len(results))
	}
	if got := maxInFlight.Load(); got > 3 {
		t.Errorf("expected at most 3 concurrent ratings, got %d", got)
	}
}

// TestBatchRunnerRunWithCallback tests streaming results.
func TestBatchRunnerRunWithCallback(t *testing.T) {
	t.Parallel()

	urls := testURLs(8)
	var mu sync.Mutex
	got := make(map[int]string)

	NewBatchRunner(okRater(time.Millisecond), WithBatchLogger(discardLogger())).
		RunWithCallback(context.Background(), urls, func(result model.Result, index int) {
			mu.Lock()
			defer mu.Unlock()
			got[index] = result.URL
		})

	if len(got) != len(urls) {
		t.Fatalf("expected %d callbacks, got %d", len(urls), len(got))
	}
	for i, u := range urls {
		if got[i] != u {
			t.Errorf("index %d: expected %q, got %q", i, u, got[i])
		}
	}
}
