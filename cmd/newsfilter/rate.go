package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"

	"github.com/nao1215/newsfilter/internal/config"
	"github.com/nao1215/newsfilter/internal/feed"
	"github.com/nao1215/newsfilter/internal/model"
	"github.com/nao1215/newsfilter/internal/report"
	"github.com/nao1215/newsfilter/internal/server"
)

// NewRateCmd creates the rate command.
func NewRateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rate [url...]",
		Short: "Rate articles from the command line",
		Long: `Rate downloads the given articles and prints their jaundice rate.

URLs come from the arguments, from an RSS or Atom feed (--feed), or both.
Duplicates are rated once.

Examples:
  # Rate two articles
  newsfilter rate https://inosmi.ru/a.html https://inosmi.ru/b.html

  # Rate the latest 20 articles of a feed as a Markdown table
  newsfilter rate --feed https://inosmi.ru/export/rss2/index.xml --feed-limit 20 --format markdown

  # Write JSON to a file
  newsfilter rate -o results.json https://inosmi.ru/a.html`,
		Args: cobra.ArbitraryArgs,
		RunE: runRateCmd,
	}

	cmd.Flags().String("feed", "", "RSS or Atom feed to read article URLs from")
	cmd.Flags().Int("feed-limit", config.DefaultURLsLimit, "Maximum articles taken from --feed (0 = all)")
	cmd.Flags().StringP("format", "f", report.FormatText, "Output format: text, json or markdown")
	cmd.Flags().StringP("output", "o", "", "Write the report to this file instead of stdout")
	addRatingFlags(cmd.Flags())

	return cmd
}

// rateOptions are the rate-specific flags.
type rateOptions struct {
	feedURL   string
	feedLimit int
	format    string
	output    string
}

func getRateOptions(cmd *cobra.Command) (rateOptions, error) {
	var (
		opts rateOptions
		err  error
	)
	if opts.feedURL, err = cmd.Flags().GetString("feed"); err != nil {
		return opts, err
	}
	if opts.feedLimit, err = cmd.Flags().GetInt("feed-limit"); err != nil {
		return opts, err
	}
	if opts.format, err = cmd.Flags().GetString("format"); err != nil {
		return opts, err
	}
	if opts.output, err = cmd.Flags().GetString("output"); err != nil {
		return opts, err
	}
	return opts, nil
}

func runRateCmd(cmd *cobra.Command, args []string) error {
	opts, err := getRateOptions(cmd)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg, slog.LevelWarn)
	slog.SetDefault(logger)

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	out := cmd.OutOrStdout()
	if opts.output != "" {
		f, err := createOutputFile(opts.output)
		if err != nil {
			return err
		}
		defer f.Close() //nolint:errcheck // write errors are reported by the writer
		out = f
	}

	return rate(ctx, cfg, opts, args, out, logger)
}

func rate(ctx context.Context, cfg *config.Config, opts rateOptions, args []string, out io.Writer, logger *slog.Logger) (err error) {
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	urls, err := collectURLs(ctx, feed.NewReader(a.fetcher), opts, args)
	if err != nil {
		return err
	}

	// Validate the format before spending time on the batch.
	w, err := report.NewWriter(opts.format, out)
	if err != nil {
		return err
	}

	// Text output streams each result as it completes.
	if simple, ok := w.(*report.SimpleWriter); ok {
		return rateStreaming(ctx, a, urls, simple, logger)
	}

	results := a.runner.Run(ctx, urls)
	if _, err := w.Write(results); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func rateStreaming(ctx context.Context, a *app, urls []string, w *report.SimpleWriter, logger *slog.Logger) error {
	var (
		mu       sync.Mutex
		writeErr error
	)
	results := make([]model.Result, len(urls))

	a.runner.RunWithCallback(ctx, urls, func(result model.Result, index int) {
		results[index] = result

		mu.Lock()
		defer mu.Unlock()
		if _, err := w.WriteResult(result); err != nil && writeErr == nil {
			writeErr = err
		}
		logger.Debug("article rated", "url", result.URL, "status", result.Status.String())
	})

	if writeErr != nil {
		return fmt.Errorf("failed to write report: %w", writeErr)
	}
	if _, err := w.WriteSummary(results); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// linkReader is satisfied by *feed.Reader.
type linkReader interface {
	Links(ctx context.Context, feedURL string, limit int) ([]string, error)
}

// collectURLs merges argument URLs with feed links, keeping first
// occurrence order. Every entry must be an http(s) URL.
func collectURLs(ctx context.Context, feeds linkReader, opts rateOptions, args []string) ([]string, error) {
	urls := make([]string, 0, len(args))
	urls = append(urls, args...)

	if opts.feedURL != "" {
		links, err := feeds.Links(ctx, opts.feedURL, opts.feedLimit)
		if err != nil {
			return nil, err
		}
		urls = append(urls, links...)
	}

	seen := make(map[string]struct{}, len(urls))
	unique := urls[:0]
	for _, u := range urls {
		if !server.IsURL(u) {
			return nil, fmt.Errorf("not an http(s) URL: %q", u)
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		unique = append(unique, u)
	}

	if len(unique) == 0 {
		return nil, errNoURLs
	}
	return unique, nil
}

func createOutputFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(path) //nolint:gosec // path is provided by the user
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}
