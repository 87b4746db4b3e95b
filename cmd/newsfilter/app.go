package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/nao1215/newsfilter/internal/cache"
	"github.com/nao1215/newsfilter/internal/config"
	"github.com/nao1215/newsfilter/internal/fetch"
	applog "github.com/nao1215/newsfilter/internal/log"
	"github.com/nao1215/newsfilter/internal/morph"
	"github.com/nao1215/newsfilter/internal/pipeline"
	"github.com/nao1215/newsfilter/internal/sanitize"
	"github.com/nao1215/newsfilter/internal/scoring"
)

// addRatingFlags registers the flags shared by serve and rate. Flag names
// are config keys so they can be bound to viper directly.
func addRatingFlags(fs *pflag.FlagSet) {
	defaults := config.NewConfig()

	fs.Float64(config.KeyRequestTimeout, defaults.RequestTimeout.Seconds(),
		"Seconds allowed for downloading one article")
	fs.Float64(config.KeyProcessingTimeout, defaults.ProcessingTimeout.Seconds(),
		"Seconds allowed for splitting and normalizing one article")
	fs.Int(config.KeyConcurrency, defaults.Concurrency,
		"Maximum articles rated at once per batch (0 = all at once)")
	fs.String(config.KeyNegativeWords, defaults.NegativeWordsPath, "Negative charged words file")
	fs.String(config.KeyPositiveWords, defaults.PositiveWordsPath, "Positive charged words file")
	fs.String(config.KeyLemmas, "", "Tab-separated word form to lemma dictionary")
	fs.String(config.KeyCacheHost, "", "Redis host for the result cache")
	fs.Int(config.KeyCachePort, defaults.CachePort, "Redis port for the result cache")
	fs.String(config.KeyCachePassword, "", "Redis password")
	fs.String(config.KeyCacheDir, "", "Directory of the local SQLite result cache")
	fs.Float64(config.KeyCacheTTL, defaults.CacheTTL.Seconds(), "Seconds a cached rating stays valid")
	fs.String(config.KeyProxy, "", "SOCKS5 proxy for article downloads (host:port)")
	fs.String(config.KeyUserAgent, defaults.UserAgent, "User-Agent sent to news sites")
	fs.StringToString(config.KeyHeaders, nil, "Extra request headers (Name=value,...)")
	fs.Int64(config.KeyMaxBodySize, defaults.MaxBodySize, "Maximum article page size in bytes")
}

// loadConfig merges defaults, the config file, .env, FILTER_* variables and
// command line flags, then validates the result.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	envFile, err := cmd.Flags().GetString("env-file")
	if err != nil {
		return nil, err
	}
	if err := config.LoadDotEnv(envFile); err != nil {
		return nil, err
	}

	v := config.NewViper()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	if _, err := config.ReadConfigFile(v, configPath); err != nil {
		return nil, err
	}

	cfg := config.Load(v)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// newLogger builds the process logger. minLevel is the level used when
// --verbose is not given.
func newLogger(w io.Writer, cfg *config.Config, minLevel slog.Level) *slog.Logger {
	opts := applog.Options{Verbose: cfg.Verbose, JSON: cfg.JSONLogs}
	if !cfg.Verbose {
		opts.Level = &minLevel
	}
	return applog.New(w, opts)
}

// app holds the wired rating components.
type app struct {
	fetcher *fetch.Client
	rater   pipeline.Rater
	runner  *pipeline.BatchRunner
	store   cache.Store
}

// newApp wires charged words, normalizer, fetcher, sanitizer, optional
// result cache and the batch runner from cfg.
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	charged, err := scoring.LoadChargedWords(cfg.ChargedWordPaths()...)
	if err != nil {
		return nil, err
	}
	logger.Debug("charged words loaded", "count", charged.Len(), "paths", cfg.ChargedWordPaths())

	normalizer := morph.Default()
	if cfg.LemmasPath != "" {
		dict, err := morph.LoadDictionary(cfg.LemmasPath, normalizer)
		if err != nil {
			return nil, err
		}
		logger.Debug("lemma dictionary loaded", "count", dict.Len(), "path", cfg.LemmasPath)
		normalizer = dict
	}

	fetcher, err := fetch.NewClient(
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithHeaders(cfg.Headers),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
		fetch.WithProxy(cfg.ProxyAddress),
		fetch.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	a := &app{fetcher: fetcher}

	a.rater = pipeline.NewProcessor(
		fetcher,
		sanitize.NewInosmiSanitizer(),
		charged,
		pipeline.WithRequestTimeout(cfg.RequestTimeout),
		pipeline.WithProcessingTimeout(cfg.ProcessingTimeout),
		pipeline.WithSplitter(scoring.NewSplitter(scoring.WithNormalizer(normalizer))),
		pipeline.WithLogger(logger),
	)

	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if store != nil {
		a.store = store
		a.rater = pipeline.NewCachedRater(a.rater, store,
			pipeline.WithTTL(cfg.CacheTTL),
			pipeline.WithCacheLogger(logger),
		)
	}

	opts := []pipeline.BatchOption{pipeline.WithBatchLogger(logger)}
	if cfg.Concurrency > 0 {
		opts = append(opts, pipeline.WithConcurrency(cfg.Concurrency))
	}
	a.runner = pipeline.NewBatchRunner(a.rater, opts...)

	return a, nil
}

// openStore opens the configured result cache, or returns nil when caching
// is disabled.
func openStore(ctx context.Context, cfg *config.Config) (cache.Store, error) {
	switch {
	case cfg.CacheHost != "":
		return cache.NewRedisStore(ctx, cache.RedisOptions{
			Addrs:    []string{cfg.CacheAddr()},
			Password: cfg.CachePassword,
		})
	case cfg.CacheDir != "":
		return cache.OpenSQLite(cfg.CacheDir, cache.DefaultSQLiteOptions())
	default:
		return nil, nil
	}
}

// Close releases the result cache.
func (a *app) Close() error {
	if a.store == nil {
		return nil
	}
	if err := a.store.Close(); err != nil {
		return fmt.Errorf("failed to close result cache: %w", err)
	}
	return nil
}

// errNoURLs is returned by rate when neither arguments nor a feed give URLs.
var errNoURLs = errors.New("no URLs to rate: pass URLs as arguments or use --feed")
