package navhistory

// UnknownIndex marks an entry whose position in the navigable sequence
// cannot be determined, typically one written by an external party without
// metadata. A pop onto such an entry cannot be blocked.
const UnknownIndex = -1

// Backend supplies the storage primitives the transition engine is
// parameterized by. Backends own their storage (an entries slice, or a slot
// plus a metadata store) and are its sole writers; the engine owns the
// externally observable cursor.
type Backend interface {
	// Read derives the current stack index and location from the backend's
	// storage. Index is UnknownIndex when no metadata is available.
	Read() (int, Location, error)

	// Write commits an entry at the given index. For ActionPush the index
	// is one past the engine's current index and any forward entries are
	// discarded; for ActionReplace the entry at index is overwritten.
	Write(loc Location, index int, action Action) error

	// Travel moves the backend cursor by delta, clamped to the valid
	// range. It only moves storage; the engine observes the move via Read.
	Travel(delta int) error

	// Len returns the number of entries in the navigable sequence, or 0
	// when the backend cannot know.
	Len() int

	// CreateHref renders path pieces as an href suitable for this backend:
	// the path itself for path-addressed backends, a fragment-prefixed
	// href for fragment backends.
	CreateHref(p Path) string
}

// Guard is optionally implemented by backends that can protect against
// losing a pending navigation, the analog of before-unload protection. The
// engine arms it while at least one blocker is registered and disarms it
// the moment the last blocker unregisters. Arm and Disarm must tolerate
// repeated calls.
type Guard interface {
	Arm()
	Disarm()
}
