// Package server exposes the article rater over HTTP.
//
// The only business endpoint is:
//
//	GET /?urls=<comma-separated list>
//
// The URL list is trimmed, deduplicated and sorted, then validated before
// any article is fetched. Validation failures and other HTTP-level errors
// are rendered as {"error": "<message>"} by ErrorMiddleware. A successful
// request returns a JSON array with one rating result per URL.
package server
