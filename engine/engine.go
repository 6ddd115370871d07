package engine

import (
	"sync"

	"go.uber.org/zap"

	navhistory "github.com/wippyai/nav-history"
	naverrors "github.com/wippyai/nav-history/errors"
	"github.com/wippyai/nav-history/hooks"
)

// Engine drives navigation transitions over a single Backend. It owns the
// externally observable cursor (action, location, index); the backend owns
// its storage.
type Engine struct {
	backend navhistory.Backend

	mu       sync.Mutex
	action   navhistory.Action
	location navhistory.Location
	index    int

	listeners hooks.List[navhistory.Update]
	blockers  hooks.List[navhistory.Transition]

	// blockedPop is the one-slot mailbox holding a reverted pop that is
	// awaiting blocker notification. Nil means no pending revert.
	blockedPop *navhistory.Transition

	notifying      bool
	pendingRetries []func()
}

// New creates an engine over backend and reads the initial cursor from it.
// The initial action is always ActionPop.
func New(backend navhistory.Backend) (*Engine, error) {
	if backend == nil {
		return nil, naverrors.NotInitialized(naverrors.PhaseEngine, "backend")
	}

	index, loc, err := backend.Read()
	if err != nil {
		return nil, naverrors.Wrap(naverrors.PhaseEngine, naverrors.KindIO, err, "read initial location")
	}

	return &Engine{
		backend:  backend,
		action:   navhistory.ActionPop,
		location: loc,
		index:    index,
	}, nil
}

// Action returns the classification of the last committed transition.
func (e *Engine) Action() navhistory.Action {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.action
}

// Location returns the current location.
func (e *Engine) Location() navhistory.Location {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.location
}

// Index returns the current stack index, or navhistory.UnknownIndex.
func (e *Engine) Index() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.index
}

// CreateHref renders a path string as an href for the active backend.
func (e *Engine) CreateHref(to string) string {
	return e.backend.CreateHref(navhistory.ParsePath(to))
}

// CreateHrefFrom renders path pieces as an href for the active backend.
func (e *Engine) CreateHrefFrom(p navhistory.Path) string {
	return e.backend.CreateHref(p)
}

// Push parses to and appends a new entry. See PushTo.
func (e *Engine) Push(to string, state any) error {
	return e.PushTo(navhistory.ParsePath(to), state)
}

// PushTo appends a new entry for the given pieces, discarding any forward
// entries. With blockers registered the entry is not committed; blockers
// receive a Transition whose Retry re-invokes this exact call.
func (e *Engine) PushTo(to navhistory.Path, state any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.push(to, state)
}

// Replace parses to and overwrites the current entry. See ReplaceTo.
func (e *Engine) Replace(to string, state any) error {
	return e.ReplaceTo(navhistory.ParsePath(to), state)
}

// ReplaceTo overwrites the entry at the current position. Blocking behaves
// as for PushTo.
func (e *Engine) ReplaceTo(to navhistory.Path, state any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.replace(to, state)
}

// Go moves the cursor by delta. Deltas that would leave the valid range are
// clamped by the backend. Go(0) with no blockers refreshes the cursor and
// delivers a Pop for the unchanged location.
func (e *Engine) Go(delta int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.travel(delta)
}

// Back is Go(-1).
func (e *Engine) Back() error { return e.Go(-1) }

// Forward is Go(1).
func (e *Engine) Forward() error { return e.Go(1) }

// Pop is the entry point for backends reporting an out-of-band cursor move
// (a platform back/forward analog). The resulting navigation runs through
// the same blocking protocol as everything else.
func (e *Engine) Pop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlePop()
}

// Listen registers a listener for committed updates and returns its removal
// token. Removing twice is a no-op.
func (e *Engine) Listen(l navhistory.Listener) func() bool {
	return e.listeners.Push(l.OnUpdate)
}

// Block registers a blocker and returns its removal token. Registering the
// first blocker arms the backend's Guard, if it has one; removing the last
// disarms it.
//
// A Retry called synchronously from inside a blocker callback takes effect
// only after every blocker in that round has been notified.
func (e *Engine) Block(b navhistory.Blocker) func() bool {
	e.mu.Lock()
	remove := e.blockers.Push(b.OnTransition)
	if e.blockers.Len() == 1 {
		if g, ok := e.backend.(navhistory.Guard); ok {
			g.Arm()
		}
	}
	e.mu.Unlock()

	return func() bool {
		e.mu.Lock()
		defer e.mu.Unlock()
		removed := remove()
		if removed && e.blockers.Len() == 0 {
			if g, ok := e.backend.(navhistory.Guard); ok {
				g.Disarm()
			}
		}
		return removed
	}
}

// push appends a new entry. Callers hold e.mu.
func (e *Engine) push(to navhistory.Path, state any) error {
	next := navhistory.NewLocation(e.location, to, state)
	if !e.allow(navhistory.ActionPush, next, func() { _ = e.PushTo(to, state) }) {
		return nil
	}

	if err := e.backend.Write(next, e.baseIndex()+1, navhistory.ActionPush); err != nil {
		Logger().Error("push commit failed",
			zap.String("path", next.String()),
			zap.Error(err))
		return naverrors.CommitFailed(next.String(), err)
	}

	e.apply(navhistory.ActionPush)
	return nil
}

// replace overwrites the current entry. Callers hold e.mu.
func (e *Engine) replace(to navhistory.Path, state any) error {
	next := navhistory.NewLocation(e.location, to, state)
	if !e.allow(navhistory.ActionReplace, next, func() { _ = e.ReplaceTo(to, state) }) {
		return nil
	}

	if err := e.backend.Write(next, e.baseIndex(), navhistory.ActionReplace); err != nil {
		Logger().Error("replace commit failed",
			zap.String("path", next.String()),
			zap.Error(err))
		return naverrors.CommitFailed(next.String(), err)
	}

	e.apply(navhistory.ActionReplace)
	return nil
}

// travel asks the backend to move its cursor, then processes the resulting
// pop. Callers hold e.mu.
func (e *Engine) travel(delta int) error {
	if err := e.backend.Travel(delta); err != nil {
		Logger().Error("travel failed", zap.Int("delta", delta), zap.Error(err))
		return err
	}
	e.handlePop()
	return nil
}

// handlePop resolves a cursor move that already happened in the backend.
// Callers hold e.mu.
func (e *Engine) handlePop() {
	if e.blockedPop != nil {
		// Second detection: the counter-move completed. Notify blockers
		// with the held transition instead of starting a new one.
		tx := *e.blockedPop
		e.blockedPop = nil
		e.notifyBlockers(tx)
		return
	}

	nextIndex, nextLocation, err := e.backend.Read()
	if err != nil {
		Logger().Error("read after pop failed, navigation abandoned", zap.Error(err))
		return
	}

	if e.blockers.Len() > 0 {
		if nextIndex != navhistory.UnknownIndex {
			delta := e.index - nextIndex
			if delta != 0 {
				move := -delta
				e.blockedPop = &navhistory.Transition{
					Update: navhistory.Update{Action: navhistory.ActionPop, Location: nextLocation},
					Retry:  e.deferRetry(func() { _ = e.Go(move) }),
				}
				// Undo the move that already happened; its own pop
				// detection resolves the mailbox above.
				_ = e.travel(delta)
			}
			return
		}

		Logger().Warn("pop onto an entry with no index metadata cannot be blocked, applying",
			zap.String("path", nextLocation.String()))
	}

	e.apply(navhistory.ActionPop)
}

// allow runs the blocking decision for a push/replace candidate. It returns
// true when the operation should commit. Callers hold e.mu.
func (e *Engine) allow(action navhistory.Action, loc navhistory.Location, retry func()) bool {
	if e.blockers.Len() == 0 {
		return true
	}
	e.notifyBlockers(navhistory.Transition{
		Update: navhistory.Update{Action: action, Location: loc},
		Retry:  e.deferRetry(retry),
	})
	return false
}

// notifyBlockers fans tx out to every blocker, then runs any retries that
// were requested during the round. Callers hold e.mu; the lock is released
// around the callbacks.
func (e *Engine) notifyBlockers(tx navhistory.Transition) {
	e.notifying = true
	e.mu.Unlock()
	e.blockers.Call(tx)
	e.mu.Lock()
	e.notifying = false

	for len(e.pendingRetries) > 0 {
		pending := e.pendingRetries
		e.pendingRetries = nil
		e.mu.Unlock()
		for _, retry := range pending {
			retry()
		}
		e.mu.Lock()
	}
}

// deferRetry wraps a retry closure so that an invocation from inside a
// blocker round is postponed until the round finishes.
func (e *Engine) deferRetry(retry func()) func() {
	return func() {
		e.mu.Lock()
		if e.notifying {
			e.pendingRetries = append(e.pendingRetries, retry)
			e.mu.Unlock()
			return
		}
		e.mu.Unlock()
		retry()
	}
}

// apply commits the cursor from backend reality and fans the update out.
// Listeners always observe action and location as a consistent pair. A
// failed read abandons the update without touching the cursor. Callers
// hold e.mu; the lock is released around listener callbacks.
func (e *Engine) apply(action navhistory.Action) {
	index, loc, err := e.backend.Read()
	if err != nil {
		Logger().Error("read current failed, update not delivered", zap.Error(err))
		return
	}

	e.action = action
	e.index = index
	e.location = loc

	u := navhistory.Update{Action: action, Location: loc}
	e.mu.Unlock()
	e.listeners.Call(u)
	e.mu.Lock()
}

func (e *Engine) baseIndex() int {
	if e.index == navhistory.UnknownIndex {
		return 0
	}
	return e.index
}
