package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and let callers use
// errors.Is() while still printing a readable message.
var (
	// ErrInvalidPort is returned when the listen port is outside 1..65535.
	ErrInvalidPort = errors.New("invalid port: must be between 1 and 65535")

	// ErrInvalidTimeout is returned when a timeout is negative.
	// Zero is allowed and makes the corresponding stage time out immediately.
	ErrInvalidTimeout = errors.New("invalid timeout: must be non-negative")

	// ErrInvalidURLsLimit is returned when the per-request URL limit is not positive.
	ErrInvalidURLsLimit = errors.New("invalid urls limit: must be positive")

	// ErrInvalidCachePort is returned when the cache port is outside 1..65535.
	ErrInvalidCachePort = errors.New("invalid cache port: must be between 1 and 65535")

	// ErrInvalidCacheTTL is returned when the cache TTL is not positive.
	ErrInvalidCacheTTL = errors.New("invalid cache ttl: must be positive")

	// ErrConflictingCaches is returned when both a Redis host and a local
	// cache directory are configured.
	ErrConflictingCaches = errors.New("conflicting caches: --cache-host and --cache-dir cannot be used together")

	// ErrNoChargedWords is returned when no charged word list is configured.
	ErrNoChargedWords = errors.New("no charged word list: set --negative-words or --positive-words")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// Use 0 for the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidConcurrency is returned when the concurrency cap is negative.
	// Use 0 for no cap.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be non-negative")
)
