// Package inmem provides the in-memory navigation backend: an explicit
// slice of locations and a cursor, with no persistence. It is the backend
// of choice for tests and for hosts without a durable address cell.
//
//	backend := inmem.New(
//	    inmem.WithInitialEntries("/", "/inbox"),
//	    inmem.WithInitialIndex(1),
//	)
//	eng, err := engine.New(backend)
//
// A push discards any forward entries beyond the cursor before appending;
// travel clamps to the valid range. CreateHref is the identity.
package inmem
