package fragment

import (
	"strings"
	"sync"

	"go.uber.org/zap"

	navhistory "github.com/wippyai/nav-history"
	naverrors "github.com/wippyai/nav-history/errors"
	"github.com/wippyai/nav-history/slot"
	"github.com/wippyai/nav-history/store"
)

// Backend is the fragment navigation backend. It implements
// navhistory.Backend and navhistory.Guard.
type Backend struct {
	mu    sync.Mutex
	slot  *slot.Slot
	store store.Store
	guard *slot.FileGuard
	base  string
	log   *zap.Logger
}

type config struct {
	base    string
	initial string
	log     *zap.Logger
}

// Option configures Open.
type Option func(*config)

// WithBase sets the href part before the fragment. Defaults to empty, which
// renders hrefs as "#/path".
func WithBase(base string) Option {
	return func(c *config) { c.base = base }
}

// WithInitialPath sets the path adopted when the slot file does not exist
// yet. Defaults to "/".
func WithInitialPath(path string) Option {
	return func(c *config) { c.initial = path }
}

// WithLogger sets the backend logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) { c.log = l }
}

// Open binds a slot file and a store into a fragment backend.
func Open(slotPath string, st store.Store, opts ...Option) (*Backend, error) {
	c := config{initial: "/", log: zap.NewNop()}
	for _, opt := range opts {
		opt(&c)
	}
	if st == nil {
		return nil, naverrors.NotInitialized(naverrors.PhaseOpen, "store")
	}
	if strings.Contains(c.base, "#") {
		return nil, naverrors.InvalidInput(naverrors.PhaseOpen, "base href must not contain '#'")
	}

	s, err := slot.Open(slotPath)
	if err != nil {
		return nil, err
	}

	b := &Backend{
		slot:  s,
		store: st,
		guard: slot.NewFileGuard(slotPath),
		base:  c.base,
		log:   c.log,
	}

	rec, ok, err := s.Read()
	if err != nil {
		return nil, err
	}

	switch {
	case !ok:
		path := navhistory.ParsePath(c.initial).String()
		rec = slot.Record{Href: b.href(path), Key: navhistory.DefaultKey, Index: 0}
		if err := b.adopt(rec, path); err != nil {
			return nil, err
		}
	case rec.Bare():
		path := b.fragmentOf(rec.Href)
		rec.Key = navhistory.DefaultKey
		rec.Index = 0
		if err := b.adopt(rec, path); err != nil {
			return nil, err
		}
	default:
		if _, found, err := st.GetEntry(rec.Index); err == nil && !found {
			path := b.fragmentOf(rec.Href)
			if err := st.PutEntry(rec.Index, store.Entry{Path: path, Key: rec.Key, Index: rec.Index}); err != nil {
				return nil, err
			}
		}
	}

	return b, nil
}

func (b *Backend) adopt(rec slot.Record, path string) error {
	if err := b.store.TruncateFrom(0); err != nil {
		return err
	}
	if err := b.store.PutEntry(0, store.Entry{Path: path, Key: rec.Key, Index: 0}); err != nil {
		return err
	}
	return b.slot.Write(rec)
}

// href renders a path in the slot's on-disk form.
func (b *Backend) href(path string) string {
	return b.base + "#" + path
}

// fragmentOf extracts the path from an on-disk href. A slot with no
// fragment reads as the root path.
func (b *Backend) fragmentOf(href string) string {
	if i := strings.IndexByte(href, '#'); i >= 0 {
		if f := href[i+1:]; f != "" {
			return f
		}
	}
	return "/"
}

// Read derives the current index and location from the slot and store.
func (b *Backend) Read() (int, navhistory.Location, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	rec, ok, err := b.slot.Read()
	if err != nil {
		return navhistory.UnknownIndex, navhistory.Location{}, err
	}
	if !ok {
		rec = slot.Record{Href: b.href("/"), Index: navhistory.UnknownIndex}
	}

	p := navhistory.ParsePath(b.fragmentOf(rec.Href))
	loc := navhistory.Location{
		Pathname: p.Pathname,
		Search:   p.Search,
		Hash:     p.Hash,
		Key:      rec.Key,
	}
	if loc.Pathname == "" {
		loc.Pathname = "/"
	}
	if loc.Key == "" {
		loc.Key = navhistory.DefaultKey
	}

	if rec.Key != "" {
		state, found, err := b.store.GetState(rec.Key)
		if err != nil {
			b.log.Warn("state blob unreadable", zap.String("key", rec.Key), zap.Error(err))
		} else if found {
			loc.State = state
		}
	}

	return rec.Index, loc, nil
}

// Write commits an entry. The fragment form cannot carry a nested '#', so
// such pathnames get an advisory warning; the commit still proceeds with
// whatever the codec renders.
func (b *Backend) Write(loc navhistory.Location, index int, action navhistory.Action) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if strings.Contains(loc.Pathname, "#") {
		b.log.Warn("pathname contains '#', fragment hrefs cannot represent it unambiguously",
			zap.String("pathname", loc.Pathname))
	}

	path := loc.String()
	if err := b.persist(loc, path, index, action); err != nil {
		b.log.Warn("entry persistence failed, committing lossy href",
			zap.String("path", path), zap.Error(err))
		if werr := b.slot.Write(slot.Record{Href: b.href(path)}); werr != nil {
			return naverrors.CommitFailed(path, werr)
		}
		return nil
	}

	if err := b.slot.Write(slot.Record{Href: b.href(path), Key: loc.Key, Index: index}); err != nil {
		return naverrors.CommitFailed(path, err)
	}
	return nil
}

func (b *Backend) persist(loc navhistory.Location, path string, index int, action navhistory.Action) error {
	if action == navhistory.ActionPush {
		if err := b.store.TruncateFrom(index); err != nil {
			return err
		}
	}
	if action == navhistory.ActionReplace {
		if old, found, err := b.store.GetEntry(index); err == nil && found && old.Key != loc.Key {
			if err := b.store.DeleteState(old.Key); err != nil {
				b.log.Warn("stale state blob not removed", zap.String("key", old.Key), zap.Error(err))
			}
		}
	}
	if err := b.store.PutEntry(index, store.Entry{Path: path, Key: loc.Key, Index: index}); err != nil {
		return err
	}
	if loc.State != nil {
		return b.store.PutState(loc.Key, loc.State)
	}
	return nil
}

// Travel moves the slot to the entry delta positions away, clamped to the
// stored range.
func (b *Backend) Travel(delta int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	n, err := b.store.Len()
	if err != nil {
		return err
	}
	if n == 0 {
		return nil
	}

	rec, ok, err := b.slot.Read()
	if err != nil {
		return err
	}
	current := 0
	if ok && rec.Index != navhistory.UnknownIndex {
		current = rec.Index
	}

	next := clamp(current+delta, 0, n-1)
	if next == current {
		return nil
	}

	entry, found, err := b.store.GetEntry(next)
	if err != nil {
		return err
	}
	if !found {
		return naverrors.OutOfRange(naverrors.PhaseTravel, next, n)
	}

	return b.slot.Write(slot.Record{Href: b.href(entry.Path), Key: entry.Key, Index: next})
}

// Len returns the number of stored entries.
func (b *Backend) Len() int {
	n, err := b.store.Len()
	if err != nil {
		return 0
	}
	return n
}

// CreateHref renders pieces as a fragment-prefixed href.
func (b *Backend) CreateHref(p navhistory.Path) string {
	return b.href(p.String())
}

// Watch surfaces external slot rewrites; wire it to Engine.Pop.
func (b *Backend) Watch(onPop func()) (func(), error) {
	return b.slot.Watch(onPop)
}

// Arm implements navhistory.Guard via the slot marker file.
func (b *Backend) Arm() { b.guard.Arm() }

// Disarm implements navhistory.Guard.
func (b *Backend) Disarm() { b.guard.Disarm() }

// Slot returns the underlying slot, mainly for tests and tooling.
func (b *Backend) Slot() *slot.Slot {
	return b.slot
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
