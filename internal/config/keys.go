package config

// Configuration keys. Each key is also the name of a command line flag, a
// top-level key in the config file and, upper-cased with "-" replaced by
// "_" and prefixed with FILTER_, an environment variable.
const (
	KeyHost              = "host"
	KeyPort              = "port"
	KeyRequestTimeout    = "request-timeout"
	KeyProcessingTimeout = "processing-timeout"
	KeyURLsLimit         = "urls-limit"
	KeyConcurrency       = "concurrency"
	KeyNegativeWords     = "negative-words"
	KeyPositiveWords     = "positive-words"
	KeyLemmas            = "lemmas"
	KeyCacheHost         = "cache-host"
	KeyCachePort         = "cache-port"
	KeyCachePassword     = "cache-password"
	KeyCacheDir          = "cache-dir"
	KeyCacheTTL          = "cache-ttl"
	KeyProxy             = "proxy"
	KeyUserAgent         = "user-agent"
	KeyHeaders           = "headers"
	KeyMaxBodySize       = "max-body-size"
	KeyVerbose           = "verbose"
	KeyJSONLogs          = "json-logs"

	// EnvPrefix is prepended to every environment variable name.
	EnvPrefix = "FILTER"
)
