// Package slot provides the single "current href" cell shared by the
// durable navigation backends: one file holding the visible href plus
// optional entry metadata (key and stack index), rewritten atomically.
//
// The slot is the boundary with the outside world. This process writes full
// records; any other party may rewrite the file with a bare href. A Watch
// surfaces those out-of-band rewrites, which backends forward to the
// engine as a detected pop. Records written without metadata decode with
// an unknown index, which the engine treats as an unblockable navigation.
//
// The package also provides FileGuard, a marker-file implementation of
// navhistory.Guard: the marker exists exactly while a blocker is
// registered, telling cooperating external writers that a confirmation is
// pending.
package slot
