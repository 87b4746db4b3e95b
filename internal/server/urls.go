package server

import (
	"net/url"
	"slices"
	"strings"
)

// SplitURLs parses a comma-separated URL list into a sorted set of trimmed,
// non-empty entries. SplitURLs(strings.Join(SplitURLs(s), ",")) equals
// SplitURLs(s).
func SplitURLs(raw string) []string {
	seen := make(map[string]struct{})
	urls := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, ok := seen[part]; ok {
			continue
		}
		seen[part] = struct{}{}
		urls = append(urls, part)
	}
	slices.Sort(urls)
	return urls
}

// IsURL reports whether s has an http or https scheme (in any case) and a host.
func IsURL(s string) bool {
	if strings.ContainsAny(s, " \t\r\n") {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Hostname() != ""
}
