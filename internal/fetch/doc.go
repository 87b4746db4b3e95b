// Package fetch downloads article pages over HTTP.
//
// A single Client owns one pooled http.Client and is shared by every rating
// goroutine of the process. Responses are decoded to UTF-8 using the charset
// declared by the server or the page itself.
//
// Requests can optionally be routed through a SOCKS5 proxy built with
// golang.org/x/net/proxy.
package fetch
