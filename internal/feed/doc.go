// Package feed collects article URLs from RSS and Atom feeds so a whole
// news section can be rated in one batch.
package feed
