// Package durable provides the persistent navigation backend: the visible
// href lives in a slot file (the process's address bar), while per-entry
// metadata and opaque state live in a store. Sessions survive restarts, and
// external rewrites of the slot surface as pops through the engine's
// blocking protocol.
//
//	st, err := store.OpenBolt(filepath.Join(dir, "history.db"))
//	backend, err := durable.Open(filepath.Join(dir, "current"), st)
//	eng, err := engine.New(backend)
//
//	stop, err := backend.Watch(eng.Pop)
//	defer stop()
//
// A slot written by an external party without metadata decodes with an
// unknown index; a pop onto it cannot be blocked and is applied
// unconditionally. If entry persistence fails during a commit, the backend
// degrades to a bare slot write: the visible href stays correct even
// though the entry's metadata and state are lost.
package durable
