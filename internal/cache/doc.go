// Package cache stores rating results keyed by article fingerprint.
//
// Two Store implementations are provided:
//   - RedisStore: shared cache for several filter instances (go-redis UniversalClient)
//   - SQLiteStore: local on-disk cache for a single instance (modernc.org/sqlite)
//
// Results are stored as their JSON wire form, so a cached Result is
// indistinguishable from a freshly computed one.
package cache
