// Package fragment provides the fragment navigation backend: the path is
// carried after the '#' of a base href, so the part of the slot before the
// fragment never changes. Useful when the visible cell is shared with a
// host that owns the base address.
//
//	st := store.NewMemory()
//	backend, err := fragment.Open(filepath.Join(dir, "current"), st,
//	    fragment.WithBase("app.html"))
//	eng, err := engine.New(backend)
//
//	eng.CreateHref("/inbox") // "app.html#/inbox"
//
// External parties tend to rewrite fragment slots with a bare href and no
// metadata; a pop onto such an entry has no retrievable index and is
// applied unconditionally. Entry metadata and state otherwise persist in
// the store exactly as for the durable backend.
package fragment
