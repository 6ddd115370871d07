// Package engine implements the navigation transition engine: the one
// push/replace/go algorithm, parameterized per backend by how the current
// index and location are read and how a new entry is committed.
//
// # Transitions
//
// A caller invokes Push, Replace, or Go. The engine builds the candidate
// (action, location) pair, runs it through the blocking protocol, commits it
// via the backend, and fans an Update out to listeners:
//
//	eng, err := engine.New(backend)
//	stop := eng.Listen(navhistory.ListenerFunc(func(u navhistory.Update) {
//	    render(u.Location)
//	}))
//	eng.Push("/settings", nil)
//
// # Blocking
//
// With no blockers registered every operation is applied unconditionally;
// this is the common, fast path. Once a blocker is registered, a Push or
// Replace is not committed: every blocker is called with a Transition whose
// Retry re-invokes the identical operation. A blocker lets the navigation
// through by unregistering itself and calling Retry.
//
// A pop reported by the backend (an out-of-band move, or the engine's own
// Go) is different: the backend cursor has already moved, so the engine
// first counter-moves it by the inverse delta, then notifies blockers with
// a Transition whose Retry re-applies the original delta. The held
// transition is a one-slot mailbox; the counter-move's own pop detection
// resolves it, and the same navigation is never fanned out to listeners
// twice.
//
// An entry with no retrievable index metadata cannot be counter-moved. A
// pop onto it is applied unconditionally and a warning is logged.
//
// # Retry Ordering
//
// A Retry invoked synchronously from inside a blocker callback is deferred
// until every blocker in the current round has been notified, then run as a
// fresh operation through the full allow/block decision.
package engine
