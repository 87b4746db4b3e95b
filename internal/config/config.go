package config

import (
	"net"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "newsfilter"

	// DefaultPort is the HTTP listen port.
	DefaultPort = 8080

	// DefaultRequestTimeout bounds fetching one article page.
	DefaultRequestTimeout = 2 * time.Second

	// DefaultProcessingTimeout bounds splitting and normalizing one article.
	// Morphological analysis of a long article is the slowest step, so this
	// budget is larger than the fetch budget.
	DefaultProcessingTimeout = 3 * time.Second

	// DefaultURLsLimit is the maximum number of URLs accepted per request.
	DefaultURLsLimit = 10

	// DefaultCachePort is the standard Redis port.
	DefaultCachePort = 6379

	// DefaultCacheTTL is how long a rating is served from the cache.
	DefaultCacheTTL = 5 * time.Minute

	// DefaultNegativeWordsPath and DefaultPositiveWordsPath point at the
	// bundled charged word lists, relative to the working directory.
	DefaultNegativeWordsPath = "charged_dict/negative_words.txt"
	DefaultPositiveWordsPath = "charged_dict/positive_words.txt"

	// DefaultUserAgent identifies newsfilter to news sites.
	DefaultUserAgent = "newsfilter/1.0 (+https://github.com/nao1215/newsfilter)"

	// DefaultMaxBodySize limits the response body read per article (5MB).
	DefaultMaxBodySize = 5 * 1024 * 1024
)

// Config holds all configuration options for newsfilter.
// It is populated once at startup and passed down explicitly.
type Config struct {
	// Host is the listen address. Empty listens on all interfaces.
	Host string

	// Port is the HTTP listen port.
	Port int

	// RequestTimeout bounds the fetch stage of each article.
	RequestTimeout time.Duration

	// ProcessingTimeout bounds the split and normalize stage of each article.
	ProcessingTimeout time.Duration

	// URLsLimit is the maximum number of URLs per request.
	URLsLimit int

	// Concurrency caps how many articles of one batch are rated at once.
	// Zero rates every URL of the batch at the same time.
	Concurrency int

	// NegativeWordsPath and PositiveWordsPath are newline-delimited charged
	// word lists. Either may be empty, but not both.
	NegativeWordsPath string
	PositiveWordsPath string

	// LemmasPath is an optional tab-separated form-to-lemma dictionary.
	// When empty, words are only lower-cased.
	LemmasPath string

	// CacheHost enables the Redis result cache when set.
	CacheHost string

	// CachePort is the Redis port.
	CachePort int

	// CachePassword authenticates with Redis. It is redacted in logs.
	CachePassword string

	// CacheDir enables the local SQLite result cache when set.
	CacheDir string

	// CacheTTL is the lifetime of cached ratings.
	CacheTTL time.Duration

	// ProxyAddress routes article fetches through a SOCKS5 proxy ("host:port").
	ProxyAddress string

	// UserAgent is the User-Agent header sent to news sites.
	UserAgent string

	// Headers are extra HTTP headers sent with every article request.
	Headers map[string]string

	// MaxBodySize is the maximum article page size in bytes.
	// Set to 0 to use the default (5MB).
	MaxBodySize int64

	// Verbose enables debug logging.
	Verbose bool

	// JSONLogs switches log output from text to JSON.
	JSONLogs bool

	// ConfigFilePath is the config file that was loaded, if any.
	ConfigFilePath string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Port:              DefaultPort,
		RequestTimeout:    DefaultRequestTimeout,
		ProcessingTimeout: DefaultProcessingTimeout,
		URLsLimit:         DefaultURLsLimit,
		NegativeWordsPath: DefaultNegativeWordsPath,
		PositiveWordsPath: DefaultPositiveWordsPath,
		CachePort:         DefaultCachePort,
		CacheTTL:          DefaultCacheTTL,
		UserAgent:         DefaultUserAgent,
		Headers:           map[string]string{},
		MaxBodySize:       DefaultMaxBodySize,
	}
}

// XDGConfigDir returns the XDG config directory for newsfilter.
// On Linux: ~/.config/newsfilter
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for newsfilter.
// On Linux: ~/.cache/newsfilter
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Addr returns the listen address in "host:port" form.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// CacheAddr returns the Redis address, or "" when the Redis cache is disabled.
func (c *Config) CacheAddr() string {
	if c.CacheHost == "" {
		return ""
	}
	return net.JoinHostPort(c.CacheHost, strconv.Itoa(c.CachePort))
}

// CacheEnabled reports whether any result cache is configured.
func (c *Config) CacheEnabled() bool {
	return c.CacheHost != "" || c.CacheDir != ""
}

// ChargedWordPaths returns the configured word list paths, skipping empty ones.
func (c *Config) ChargedWordPaths() []string {
	var paths []string
	for _, p := range []string{c.NegativeWordsPath, c.PositiveWordsPath} {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// Validate checks if the configuration is valid and returns the first
// problem found.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return ErrInvalidPort
	}

	if c.RequestTimeout < 0 || c.ProcessingTimeout < 0 {
		return ErrInvalidTimeout
	}

	if c.URLsLimit <= 0 {
		return ErrInvalidURLsLimit
	}

	if c.Concurrency < 0 {
		return ErrInvalidConcurrency
	}

	if len(c.ChargedWordPaths()) == 0 {
		return ErrNoChargedWords
	}

	if c.CacheHost != "" && c.CacheDir != "" {
		return ErrConflictingCaches
	}

	if c.CacheEnabled() {
		if c.CachePort < 1 || c.CachePort > 65535 {
			return ErrInvalidCachePort
		}
		if c.CacheTTL <= 0 {
			return ErrInvalidCacheTTL
		}
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	return nil
}
