// Package model defines the core data structures shared by the newsfilter packages.
//
// This package contains the following main types:
//   - ProcessingStatus: The terminal outcome of rating a single article
//   - Result: The per-URL rating result returned by the pipeline and the HTTP API
//
// Models live in their own package so that the pipeline, cache, server and
// report packages can all depend on them without import cycles.
package model
