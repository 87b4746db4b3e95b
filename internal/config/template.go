package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ErrConfigExists is returned by WriteDefaultFile when the target exists
// and overwriting was not requested.
var ErrConfigExists = errors.New("configuration file already exists")

// templateEntry is one documented key of the generated config file.
type templateEntry struct {
	key     string
	value   string
	tag     string
	comment string
}

// templateEntries lists the keys written by `newsfilter init`, in order.
func templateEntries() []templateEntry {
	d := NewConfig()
	return []templateEntry{
		{KeyHost, d.Host, "!!str", "Listen address. Empty listens on all interfaces."},
		{KeyPort, strconv.Itoa(d.Port), "!!int", "HTTP listen port (FILTER_PORT)."},
		{KeyRequestTimeout, formatSeconds(d.RequestTimeout.Seconds()), "!!float", "Seconds allowed for fetching one article (FILTER_REQUEST_TIMEOUT)."},
		{KeyProcessingTimeout, formatSeconds(d.ProcessingTimeout.Seconds()), "!!float", "Seconds allowed for splitting and normalizing one article (FILTER_PROCESSING_TIMEOUT)."},
		{KeyURLsLimit, strconv.Itoa(d.URLsLimit), "!!int", "Maximum number of URLs per request (FILTER_URLS_LIMIT)."},
		{KeyConcurrency, strconv.Itoa(d.Concurrency), "!!int", "Articles rated at once per request. 0 rates all of them together."},
		{KeyNegativeWords, d.NegativeWordsPath, "!!str", "Newline-delimited list of negative charged words."},
		{KeyPositiveWords, d.PositiveWordsPath, "!!str", "Newline-delimited list of positive charged words."},
		{KeyLemmas, "", "!!str", "Optional form<TAB>lemma dictionary. Empty only lower-cases words."},
		{KeyCacheHost, "", "!!str", "Redis host for the shared result cache. Empty disables it."},
		{KeyCachePort, strconv.Itoa(d.CachePort), "!!int", "Redis port."},
		{KeyCacheDir, "", "!!str", "Directory for a local SQLite result cache. Cannot be combined with cache-host."},
		{KeyCacheTTL, formatSeconds(d.CacheTTL.Seconds()), "!!float", "Seconds a rating is served from the cache."},
		{KeyProxy, "", "!!str", "SOCKS5 proxy (host:port) for fetching articles."},
		{KeyUserAgent, d.UserAgent, "!!str", "User-Agent sent to news sites."},
		{KeyMaxBodySize, strconv.FormatInt(d.MaxBodySize, 10), "!!int", "Maximum article page size in bytes."},
	}
}

func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', 1, 64)
}

// DefaultFileYAML renders a commented config file holding the defaults.
func DefaultFileYAML() ([]byte, error) {
	root := &yaml.Node{
		Kind:        yaml.MappingNode,
		HeadComment: "newsfilter configuration.\nFlags and FILTER_* environment variables override these values.",
	}
	for _, e := range templateEntries() {
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: e.key, HeadComment: e.comment},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: e.tag, Value: e.value},
		)
	}
	root.Content = append(root.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: KeyHeaders, HeadComment: "Extra HTTP headers sent with every article request."},
		&yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Value: "Accept-Language"},
			{Kind: yaml.ScalarNode, Value: "ru-RU,ru;q=0.9"},
		}},
	)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}); err != nil {
		return nil, fmt.Errorf("failed to render config template: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to render config template: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteDefaultFile writes the default config file to path, creating parent
// directories as needed.
func WriteDefaultFile(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrConfigExists, path)
		}
	}

	data, err := DefaultFileYAML()
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
