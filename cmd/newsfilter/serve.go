package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/nao1215/newsfilter/internal/config"
	"github.com/nao1215/newsfilter/internal/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Serve starts the HTTP API.

GET /?urls=<url>,<url>,... rates every listed article and returns a JSON
array with one {status, url, score, words_count} object per URL. Requests
with no URLs, with something that is not an http(s) URL, or with more URLs
than --urls-limit are rejected with 400 {"error": "..."}.

Examples:
  # Listen on :8080
  newsfilter serve

  # Cache ratings in Redis for ten minutes
  newsfilter serve --cache-host localhost --cache-ttl 600

  # Same, configured through the environment
  FILTER_PORT=9000 FILTER_URLS_LIMIT=20 newsfilter serve`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	defaults := config.NewConfig()
	cmd.Flags().String(config.KeyHost, defaults.Host, "Listen host (empty for all interfaces)")
	cmd.Flags().IntP(config.KeyPort, "p", defaults.Port, "Listen port")
	cmd.Flags().Int(config.KeyURLsLimit, defaults.URLsLimit, "Maximum URLs per request")
	addRatingFlags(cmd.Flags())

	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := newLogger(os.Stderr, cfg, slog.LevelInfo)
	slog.SetDefault(logger)
	if cfg.ConfigFilePath != "" {
		logger.Info("configuration loaded", "path", cfg.ConfigFilePath)
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	return serve(ctx, cfg, logger)
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) (err error) {
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if !cfg.Verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := server.New(a.runner,
		server.WithURLsLimit(cfg.URLsLimit),
		server.WithLogger(logger),
	)

	logger.Info("starting newsfilter",
		"addr", cfg.Addr(),
		"urls_limit", cfg.URLsLimit,
		"request_timeout", cfg.RequestTimeout,
		"processing_timeout", cfg.ProcessingTimeout,
		"cache", cacheKind(cfg),
	)
	return srv.ListenAndServe(ctx, cfg.Addr())
}

func cacheKind(cfg *config.Config) string {
	switch {
	case cfg.CacheHost != "":
		return "redis"
	case cfg.CacheDir != "":
		return "sqlite"
	default:
		return "none"
	}
}
