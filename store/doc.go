// Package store persists the per-entry metadata and opaque state blobs
// behind the durable navigation backends.
//
// A Store holds two things: the ordered entry metadata (path, key, index)
// that lets a backend reconstruct its stack, and state blobs keyed by entry
// key, for storage that cannot carry arbitrary state in the href cell
// itself. State round-trips through JSON, so values must be
// JSON-serializable; the navigation core never interprets them.
//
// Two implementations are provided: Bolt, backed by a bbolt database file,
// and Memory, a map-backed store for tests and ephemeral sessions.
package store
