// Package scoring turns article text into a jaundice rate.
//
// The package has three parts:
//   - ChargedWords: the immutable set of emotionally loaded words
//   - Splitter: the word filter that splits, cleans and normalizes text
//   - JaundiceRate: the pure scoring function
//
// ChargedWords and Splitter are built once at startup and shared read-only
// by every rating goroutine.
package scoring
