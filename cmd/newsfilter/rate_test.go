package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/newsfilter/internal/model"
)

const (
	negativeWords = "../../charged_dict/negative_words.txt"
	positiveWords = "../../charged_dict/positive_words.txt"
	articleHTML   = "../../internal/sanitize/testdata/inosmi_article.html"
)

// newsSite serves the article fixture at /article.html and an RSS feed at
// /rss.xml. Every other path is 404.
func newsSite(t *testing.T) *httptest.Server {
	t.Helper()

	article, err := os.ReadFile(articleHTML)
	if err != nil {
		t.Fatalf("failed to read fixture: %v", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/article.html", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(article)
	})

	srv := httptest.NewServer(mux)
	mux.HandleFunc("/rss.xml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
		_, _ = w.Write([]byte(`<?xml version="1.0"?><rss version="2.0"><channel><title>t</title>` +
			`<item><link>` + srv.URL + `/article.html</link></item>` +
			`<item><link>` + srv.URL + `/gone.html</link></item>` +
			`</channel></rss>`))
	})
	t.Cleanup(srv.Close)
	return srv
}

func executeRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	base := []string{
		"--negative-words", negativeWords,
		"--positive-words", positiveWords,
		"--env-file", filepath.Join(t.TempDir(), "missing.env"),
		"--config", writeEmptyConfig(t),
	}
	if len(args) > 0 {
		args = append([]string{args[0]}, append(base, args[1:]...)...)
	}
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

// writeEmptyConfig keeps tests independent of any config file in the
// developer's home directory.
func writeEmptyConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("{}\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRateCmd(t *testing.T) {
	t.Parallel()

	srv := newsSite(t)

	t.Run("json output keeps argument order", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := executeRoot(t, "rate", "--format", "json",
			srv.URL+"/article.html", srv.URL+"/gone.html")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var results []model.Result
		if err := json.Unmarshal([]byte(stdout), &results); err != nil {
			t.Fatalf("invalid JSON %q: %v", stdout, err)
		}
		if len(results) != 2 {
			t.Fatalf("got %d results, want 2", len(results))
		}
		if results[0].Status != model.StatusOK || results[0].ScoreValue() <= 0 || results[0].WordsCountValue() == 0 {
			t.Errorf("unexpected article result: %+v", results[0])
		}
		if results[1].Status != model.StatusFetchError || results[1].Score != nil {
			t.Errorf("unexpected missing article result: %+v", results[1])
		}
	})

	t.Run("text output streams and summarizes", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := executeRoot(t, "rate", srv.URL+"/article.html")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{"Status: OK", "Articles: 1  Rated: 1  Failed: 0"} {
			if !strings.Contains(stdout, want) {
				t.Errorf("expected output to contain %q\n%s", want, stdout)
			}
		}
	})

	t.Run("feed input", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := executeRoot(t, "rate", "--format", "markdown", "--feed", srv.URL+"/rss.xml")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "1 of 2 articles could not be rated.") {
			t.Errorf("unexpected output:\n%s", stdout)
		}
	})

	t.Run("writes output file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out", "results.json")
		stdout, _, err := executeRoot(t, "rate", "--format", "json", "-o", path, srv.URL+"/article.html")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stdout != "" {
			t.Errorf("expected empty stdout, got %q", stdout)
		}
		data, err := os.ReadFile(path) //nolint:gosec // test file
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), `"status": "OK"`) {
			t.Errorf("unexpected file content:\n%s", data)
		}
	})

	t.Run("rejects non urls", func(t *testing.T) {
		t.Parallel()

		_, _, err := executeRoot(t, "rate", "hello")
		if err == nil || !strings.Contains(err.Error(), "not an http(s) URL") {
			t.Fatalf("expected URL error, got %v", err)
		}
	})

	t.Run("rejects unknown format", func(t *testing.T) {
		t.Parallel()

		_, _, err := executeRoot(t, "rate", "--format", "xml", srv.URL+"/article.html")
		if err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("requires urls", func(t *testing.T) {
		t.Parallel()

		_, _, err := executeRoot(t, "rate")
		if !errors.Is(err, errNoURLs) {
			t.Fatalf("expected errNoURLs, got %v", err)
		}
	})
}

type stubLinks []string

func (s stubLinks) Links(context.Context, string, int) ([]string, error) {
	return s, nil
}

func TestCollectURLs(t *testing.T) {
	t.Parallel()

	feeds := stubLinks{"https://b.example", "https://c.example"}
	opts := rateOptions{feedURL: "https://feed.example/rss"}

	got, err := collectURLs(context.Background(), feeds, opts, []string{"https://c.example", "https://a.example"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"https://c.example", "https://a.example", "https://b.example"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("got %v, want %v", got, want)
	}

	if _, err := collectURLs(context.Background(), feeds, rateOptions{}, nil); !errors.Is(err, errNoURLs) {
		t.Errorf("expected errNoURLs, got %v", err)
	}
}
