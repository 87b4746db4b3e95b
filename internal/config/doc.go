// Package config provides configuration structures and utilities for newsfilter.
// It defines the server, pipeline, cache and word list settings, merges them
// from flags, FILTER_* environment variables and a YAML config file, and
// validates the result.
package config
