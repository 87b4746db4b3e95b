package cache

import (
	"context"
	"errors"
	"net"
	"os"
	"testing"
	"time"

	"github.com/nao1215/newsfilter/internal/model"
)

// TestNewRedisStoreUnreachable tests that connection failures are reported.
func TestNewRedisStoreUnreachable(t *testing.T) {
	t.Parallel()

	// Reserve a port and close it so nothing is listening there.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err = NewRedisStore(ctx, RedisOptions{Addrs: []string{addr}, DialTimeout: 200 * time.Millisecond})
	if err == nil {
		t.Fatal("expected error for unreachable redis")
	}
}

// TestRedisStoreIntegration runs against a real server when
// NEWSFILTER_TEST_REDIS_ADDR is set.
func TestRedisStoreIntegration(t *testing.T) {
	addr := os.Getenv("NEWSFILTER_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("skipping redis integration test: NEWSFILTER_TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	store, err := NewRedisStore(ctx, RedisOptions{Addrs: []string{addr}})
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer store.Close()

	key := ArticleFingerprint("https://inosmi.ru/integration-" + time.Now().Format(time.RFC3339Nano))

	if _, err := store.Get(ctx, key); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}

	want := model.NewOKResult("https://inosmi.ru/a.html", 12.5, 8)
	if err := store.Set(ctx, key, want, time.Minute); err != nil {
		t.Fatalf("failed to set: %v", err)
	}
	got, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ScoreValue() != 12.5 || got.WordsCountValue() != 8 {
		t.Errorf("unexpected result %+v", got)
	}
}
