package hooks

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
	loggerMu   sync.Mutex
)

// Logger returns the package logger. It is a no-op logger by default.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		loggerMu.Lock()
		if logger == nil {
			logger = zap.NewNop()
		}
		loggerMu.Unlock()
	})
	return logger
}

// SetLogger installs a logger for handler panic reports.
func SetLogger(l *zap.Logger) {
	loggerMu.Lock()
	logger = l
	loggerMu.Unlock()
}

type entry[T any] struct {
	fn func(T)
}

// List is an ordered collection of handlers with fan-out. The zero value is
// ready to use. It is safe for concurrent use.
type List[T any] struct {
	mu      sync.Mutex
	entries []*entry[T]
}

// Push appends a handler and returns its removal token. The token removes
// exactly this registration; calling it again, or after the handler is gone,
// is a no-op. The token reports whether it removed anything.
func (l *List[T]) Push(fn func(T)) func() bool {
	e := &entry[T]{fn: fn}

	l.mu.Lock()
	l.entries = append(l.entries, e)
	l.mu.Unlock()

	return func() bool {
		l.mu.Lock()
		defer l.mu.Unlock()
		for i, cand := range l.entries {
			if cand == e {
				// Copy-on-remove keeps snapshots taken by Call intact.
				next := make([]*entry[T], 0, len(l.entries)-1)
				next = append(next, l.entries[:i]...)
				next = append(next, l.entries[i+1:]...)
				l.entries = next
				return true
			}
		}
		return false
	}
}

// Call invokes every currently registered handler synchronously, in
// registration order. Handlers added or removed during the call do not
// affect this round.
func (l *List[T]) Call(arg T) {
	l.mu.Lock()
	snapshot := l.entries
	l.mu.Unlock()

	for _, e := range snapshot {
		invoke(e.fn, arg)
	}
}

// Len returns the current number of registered handlers.
func (l *List[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func invoke[T any](fn func(T), arg T) {
	defer func() {
		if r := recover(); r != nil {
			Logger().Warn("handler panicked during fan-out", zap.Any("panic", r))
		}
	}()
	fn(arg)
}
