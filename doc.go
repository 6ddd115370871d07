// Package navhistory provides a navigation-history abstraction: a stack of
// locations (path plus opaque state) with push/replace/go transitions,
// listener fan-out, and a blocking protocol that lets subscribers veto a
// pending navigation and retry it later.
//
// The same transition engine drives every backend; backends only supply how
// the current index and location are read and how a new entry is committed.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	navhistory/      Root package with the Location model, path codec,
//	                 and the Backend interface consumed by the engine
//	├── engine/      The push/replace/go transition engine and blocking protocol
//	├── hooks/       Ordered callback lists used for listener/blocker fan-out
//	├── inmem/       In-memory backend (explicit entries slice and cursor)
//	├── slot/        Single-file "address bar" cell shared by durable backends
//	├── store/       Entry metadata and opaque state persistence (bbolt or memory)
//	├── durable/     Persistent backend: full path in the slot, state in a store
//	├── fragment/    Fragment backend: path carried after '#' of a base href
//	└── errors/      Structured error types
//
// # Quick Start
//
//	backend := inmem.New(inmem.WithInitialEntries("/"))
//	eng, err := engine.New(backend)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	stop := eng.Listen(navhistory.ListenerFunc(func(u navhistory.Update) {
//	    fmt.Println(u.Action, u.Location.Pathname)
//	}))
//	defer stop()
//
//	eng.Push("/inbox?unread=1", nil)
//	eng.Back()
//
// # Blocking
//
// A registered blocker turns every navigation into a proposal. The blocker
// receives a Transition and decides whether to let it through by calling
// Retry, typically after removing itself:
//
//	var unblock func() bool
//	unblock = eng.Block(navhistory.BlockerFunc(func(tx navhistory.Transition) {
//	    if confirm("Leave this page?") {
//	        unblock()
//	        tx.Retry()
//	    }
//	}))
//
// # State
//
// Location state is opaque to the core: it is stored and handed back, never
// interpreted. Backends that persist state serialize it as JSON, so values
// must survive a JSON round trip.
//
// # Thread Safety
//
// The engine serializes its operations internally. Listener and blocker
// callbacks run synchronously on the goroutine that triggered the
// transition; they must not assume a particular goroutine beyond that.
package navhistory
