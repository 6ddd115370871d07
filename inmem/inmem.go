package inmem

import (
	"sync"

	navhistory "github.com/wippyai/nav-history"
	naverrors "github.com/wippyai/nav-history/errors"
)

// Backend keeps the navigable sequence as a slice of locations plus a
// cursor. It implements navhistory.Backend.
type Backend struct {
	mu      sync.Mutex
	entries []navhistory.Location
	index   int
}

type config struct {
	entries []string
	states  []any
	index   int
	hasIdx  bool
}

// Option configures New.
type Option func(*config)

// WithInitialEntries seeds the stack with the given path strings. The first
// entry carries the sentinel default key; later entries get fresh keys.
// Defaults to a single "/" entry.
func WithInitialEntries(paths ...string) Option {
	return func(c *config) { c.entries = paths }
}

// WithInitialStates attaches state to the initial entries, matched by
// position. Extra states are ignored.
func WithInitialStates(states ...any) Option {
	return func(c *config) { c.states = states }
}

// WithInitialIndex sets the starting cursor, clamped to the valid range.
// Defaults to the last initial entry.
func WithInitialIndex(index int) Option {
	return func(c *config) { c.index = index; c.hasIdx = true }
}

// New creates an in-memory backend.
func New(opts ...Option) *Backend {
	c := config{entries: []string{"/"}}
	for _, opt := range opts {
		opt(&c)
	}
	if len(c.entries) == 0 {
		c.entries = []string{"/"}
	}

	entries := make([]navhistory.Location, len(c.entries))
	for i, path := range c.entries {
		p := navhistory.ParsePath(path)
		loc := navhistory.Location{
			Pathname: p.Pathname,
			Search:   p.Search,
			Hash:     p.Hash,
			Key:      navhistory.NewKey(),
		}
		if loc.Pathname == "" {
			loc.Pathname = "/"
		}
		if i == 0 {
			loc.Key = navhistory.DefaultKey
		}
		if i < len(c.states) {
			loc.State = c.states[i]
		}
		entries[i] = loc
	}

	index := len(entries) - 1
	if c.hasIdx {
		index = clamp(c.index, 0, len(entries)-1)
	}

	return &Backend{entries: entries, index: index}
}

// Read returns the cursor and the location under it.
func (b *Backend) Read() (int, navhistory.Location, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.index, b.entries[b.index], nil
}

// Write commits an entry. A push discards forward entries beyond the old
// cursor before appending; a replace overwrites in place.
func (b *Backend) Write(loc navhistory.Location, index int, action navhistory.Action) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch action {
	case navhistory.ActionPush:
		if index < 0 || index > len(b.entries) {
			return naverrors.OutOfRange(naverrors.PhaseCommit, index, len(b.entries))
		}
		b.entries = append(b.entries[:index:index], loc)
		b.index = index
	case navhistory.ActionReplace:
		if index < 0 || index >= len(b.entries) {
			return naverrors.OutOfRange(naverrors.PhaseCommit, index, len(b.entries))
		}
		b.entries[index] = loc
		b.index = index
	default:
		return naverrors.Unsupported(naverrors.PhaseCommit, "commit action "+action.String())
	}
	return nil
}

// Travel moves the cursor by delta, clamped to the valid range.
func (b *Backend) Travel(delta int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.index = clamp(b.index+delta, 0, len(b.entries)-1)
	return nil
}

// Len returns the number of entries.
func (b *Backend) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// CreateHref is the identity: in-memory hrefs are the path itself.
func (b *Backend) CreateHref(p navhistory.Path) string {
	return p.String()
}

// Entries returns a copy of the current stack, oldest first.
func (b *Backend) Entries() []navhistory.Location {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]navhistory.Location, len(b.entries))
	copy(out, b.entries)
	return out
}

func clamp(n, low, high int) int {
	if n < low {
		return low
	}
	if n > high {
		return high
	}
	return n
}
