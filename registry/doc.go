// SPDX-License-Identifier: MIT

// Package registry stores named reference patterns and their fitted parameters.
//
// Readers (the matcher, the engine) depend only on Reader; the fitter is the
// sole Writer. Backends:
//
//   - MemoryStore: map guarded by a RWMutex, for tests and one-shot runs.
//   - SQLiteStore: one row per pattern in a pure-Go SQLite database
//     (modernc.org/sqlite); payloads are the versioned JSON codec.
//   - FileStore: a YAML pattern file, rewritten atomically on SaveFit and
//     optionally hot-reloaded through fsnotify.
//
// CachedStore wraps any Store with a bounded LRU read-through cache.
// All backends are safe for concurrent use; concurrent SaveFit calls on one
// pattern are last-writer-wins, and each SaveFit bumps Pattern.Version.
package registry
