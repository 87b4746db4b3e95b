// Package main provides the entry point for the newsfilter CLI.
//
// newsfilter rates news articles by the share of emotionally charged words
// they contain (the "jaundice rate").
//
// Usage:
//
//	newsfilter serve
//	newsfilter rate <url>...
//	newsfilter rate --feed <rss-url>
//
// See --help for all available options.
package main

func main() {
	Execute()
}
