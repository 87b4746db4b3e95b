// Package report renders batch rating results for the command line.
//
// Three formats are available: JSONWriter emits the same array the HTTP
// API returns, MarkdownWriter produces a table with a status chart, and
// SimpleWriter prints an aligned plain-text listing for terminals.
// All of them implement Writer and can be combined with MultiWriter.
package report
