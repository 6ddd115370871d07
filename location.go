package navhistory

// Action classifies how the current location changed.
type Action int

const (
	// ActionPop means the stack position changed without a new entry being
	// created by this engine call: an external back/forward move, a go(),
	// or the initial read.
	ActionPop Action = iota
	// ActionPush means a new entry was appended to the stack.
	ActionPush
	// ActionReplace means the entry at the current position was overwritten.
	ActionReplace
)

func (a Action) String() string {
	switch a {
	case ActionPop:
		return "POP"
	case ActionPush:
		return "PUSH"
	case ActionReplace:
		return "REPLACE"
	default:
		return "UNKNOWN"
	}
}

// Location is one point in the navigation stack. It is a value type and is
// never mutated after creation; transitions always produce a new Location.
type Location struct {
	// Pathname is the URL pathname, conventionally beginning with '/'.
	Pathname string
	// Search is the query string, including the leading '?', or empty.
	Search string
	// Hash is the fragment, including the leading '#', or empty.
	Hash string
	// State is host-defined data attached to this entry. The core stores
	// and returns it without interpreting it.
	State any
	// Key uniquely identifies this entry. The initial location of a
	// session carries DefaultKey.
	Key string
}

// Path returns the location's path pieces.
func (l Location) Path() Path {
	return Path{Pathname: l.Pathname, Search: l.Search, Hash: l.Hash}
}

// String renders the location as a path string.
func (l Location) String() string {
	return l.Path().String()
}

// NewLocation builds the candidate next location for a transition. Pieces
// absent from to default to the corresponding field of current. A fresh key
// is always generated, never reused from current; that is what makes every
// push and replace distinguishable in storage.
func NewLocation(current Location, to Path, state any) Location {
	next := Location{
		Pathname: current.Pathname,
		Search:   current.Search,
		Hash:     current.Hash,
		State:    state,
		Key:      NewKey(),
	}
	if to.Pathname != "" {
		next.Pathname = to.Pathname
	}
	if to.Search != "" {
		next.Search = to.Search
	}
	if to.Hash != "" {
		next.Hash = to.Hash
	}
	return next
}

// Update is delivered to listeners after a transition commits. The action
// and location are constructed once per transition and always form a
// consistent pair.
type Update struct {
	Action   Action
	Location Location
}

// Transition is delivered to blockers when a navigation is vetoed. Retry
// re-attempts exactly the captured operation: same target, same state. It is
// a closure over the specific attempted navigation, not a generic redo.
type Transition struct {
	Update
	Retry func()
}

// Listener receives committed navigation updates.
type Listener interface {
	OnUpdate(Update)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(Update)

func (f ListenerFunc) OnUpdate(u Update) { f(u) }

// Blocker intercepts pending navigations. A blocker that never calls
// Retry on a received Transition simply leaves that navigation un-applied.
type Blocker interface {
	OnTransition(Transition)
}

// BlockerFunc adapts a function to the Blocker interface.
type BlockerFunc func(Transition)

func (f BlockerFunc) OnTransition(tx Transition) { f(tx) }
