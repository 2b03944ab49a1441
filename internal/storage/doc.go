// Package storage provides the persistent key/value capability used by the
// scan history.
//
// The history never talks to a global store. It receives a [Storage] with
// two operations, Get and Set, over string keys. Errors are returned
// explicitly and the caller decides how to degrade; the history store turns
// every error into an empty list.
//
// Implementations:
//   - MemoryStore: in-process map with an optional byte quota, used by tests
//     and as the default when no data directory is configured
//   - SQLiteStore: a SQLite-backed store (via modernc.org/sqlite) shared by
//     all origins; Bucket scopes it to a single origin, mirroring the
//     per-origin scoping of a browser's local storage
//
// Design decision: We use SQLite instead of a plain JSON file because
// several phishscan processes (the CLI and the local web UI) may write the
// same history. SQLite gives atomic single-key writes; the last write wins,
// which is the accepted behavior for this convenience feature.
package storage
