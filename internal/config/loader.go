package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".newsfilter"

// ErrConfigNotFound is returned when an explicitly requested configuration
// file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// NewViper returns a viper instance with newsfilter defaults registered and
// FILTER_* environment variables enabled.
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	defaults := NewConfig()
	v.SetDefault(KeyHost, defaults.Host)
	v.SetDefault(KeyPort, defaults.Port)
	v.SetDefault(KeyRequestTimeout, defaults.RequestTimeout.Seconds())
	v.SetDefault(KeyProcessingTimeout, defaults.ProcessingTimeout.Seconds())
	v.SetDefault(KeyURLsLimit, defaults.URLsLimit)
	v.SetDefault(KeyConcurrency, defaults.Concurrency)
	v.SetDefault(KeyNegativeWords, defaults.NegativeWordsPath)
	v.SetDefault(KeyPositiveWords, defaults.PositiveWordsPath)
	v.SetDefault(KeyLemmas, "")
	v.SetDefault(KeyCacheHost, "")
	v.SetDefault(KeyCachePort, defaults.CachePort)
	v.SetDefault(KeyCachePassword, "")
	v.SetDefault(KeyCacheDir, "")
	v.SetDefault(KeyCacheTTL, defaults.CacheTTL.Seconds())
	v.SetDefault(KeyProxy, "")
	v.SetDefault(KeyUserAgent, defaults.UserAgent)
	v.SetDefault(KeyMaxBodySize, defaults.MaxBodySize)
	v.SetDefault(KeyVerbose, false)
	v.SetDefault(KeyJSONLogs, false)

	return v
}

// Load builds a Config from v. Flags bound to v take precedence over
// environment variables, which take precedence over the config file.
//
// Timeouts and the cache TTL are read as (possibly fractional) seconds.
func Load(v *viper.Viper) *Config {
	cfg := NewConfig()

	cfg.Host = v.GetString(KeyHost)
	cfg.Port = v.GetInt(KeyPort)
	cfg.RequestTimeout = seconds(v.GetFloat64(KeyRequestTimeout))
	cfg.ProcessingTimeout = seconds(v.GetFloat64(KeyProcessingTimeout))
	cfg.URLsLimit = v.GetInt(KeyURLsLimit)
	cfg.Concurrency = v.GetInt(KeyConcurrency)
	cfg.NegativeWordsPath = v.GetString(KeyNegativeWords)
	cfg.PositiveWordsPath = v.GetString(KeyPositiveWords)
	cfg.LemmasPath = v.GetString(KeyLemmas)
	cfg.CacheHost = v.GetString(KeyCacheHost)
	cfg.CachePort = v.GetInt(KeyCachePort)
	cfg.CachePassword = v.GetString(KeyCachePassword)
	cfg.CacheDir = v.GetString(KeyCacheDir)
	cfg.CacheTTL = seconds(v.GetFloat64(KeyCacheTTL))
	cfg.ProxyAddress = v.GetString(KeyProxy)
	cfg.UserAgent = v.GetString(KeyUserAgent)
	cfg.MaxBodySize = v.GetInt64(KeyMaxBodySize)
	cfg.Verbose = v.GetBool(KeyVerbose)
	cfg.JSONLogs = v.GetBool(KeyJSONLogs)
	cfg.ConfigFilePath = v.ConfigFileUsed()

	for name, value := range v.GetStringMapString(KeyHeaders) {
		cfg.Headers[name] = value
	}

	return cfg
}

// seconds converts fractional seconds to a Duration.
func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// ReadConfigFile locates the config file and merges it into v.
//
// An explicit configPath must exist. Without one, FindConfigFile decides and
// a missing file is not an error. Returns the path that was read, or "".
func ReadConfigFile(v *viper.Viper, configPath string) (string, error) {
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return "", fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
	}

	path := FindConfigFile(configPath)
	if path == "" {
		return "", nil
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return "", fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return path, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .newsfilter in the current directory
// 3. Look for .newsfilter in the user's home directory
// 4. Look for config.yaml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), "config.yaml"))

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

// LoadDotEnv loads environment variables from .env files. Variables that
// are already set are not overridden. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}
