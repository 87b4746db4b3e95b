package cache

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

const (
	// KeyPrefix namespaces every cache key written by newsfilter.
	KeyPrefix = "newsfilter:result:"

	// ArticleContentType is the content type assumed for article pages.
	ArticleContentType = "text/html"
)

// Fingerprint derives a cache key from the parts of a request that decide
// its response: method, scheme, host, path, query and content type.
func Fingerprint(method, scheme, host, path, query, contentType string) string {
	d := xxhash.New()
	for _, part := range []string{
		strings.ToUpper(method),
		strings.ToLower(scheme),
		strings.ToLower(host),
		path,
		query,
		strings.ToLower(contentType),
	} {
		_, _ = d.WriteString(part) //nolint:errcheck // xxhash never fails
		_, _ = d.Write([]byte{0})  //nolint:errcheck // field separator
	}
	return KeyPrefix + strconv.FormatUint(d.Sum64(), 16)
}

// ArticleFingerprint returns the cache key for rating the article at rawURL.
// http and https URLs of the same page get different keys.
// Unparseable URLs are fingerprinted by their raw text.
func ArticleFingerprint(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Fingerprint(http.MethodGet, "", "", rawURL, "", ArticleContentType)
	}
	return Fingerprint(http.MethodGet, u.Scheme, u.Host, u.EscapedPath(), u.RawQuery, ArticleContentType)
}
