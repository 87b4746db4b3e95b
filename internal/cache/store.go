package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nao1215/newsfilter/internal/model"
)

// ErrCacheMiss is returned by Get when no live entry exists for the key.
var ErrCacheMiss = errors.New("cache miss")

// Store persists results with a time to live.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the cached result for key or ErrCacheMiss.
	Get(ctx context.Context, key string) (model.Result, error)

	// Set stores result under key for ttl. A ttl <= 0 stores without expiry.
	Set(ctx context.Context, key string, result model.Result, ttl time.Duration) error

	// Close releases the underlying connection.
	Close() error
}

func encodeResult(result model.Result) ([]byte, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return data, nil
}

func decodeResult(data []byte) (model.Result, error) {
	var result model.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return model.Result{}, fmt.Errorf("failed to decode cached result: %w", err)
	}
	return result, nil
}
