package slot

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	naverrors "github.com/wippyai/nav-history/errors"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
	loggerMu   sync.Mutex
)

// Logger returns the slot package logger. It is a no-op logger by default.
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

// SetLogger installs a logger for watcher diagnostics.
func SetLogger(l *zap.Logger) {
	loggerMu.Lock()
	logger = l
	loggerMu.Unlock()
}

// Watch invokes onChange whenever the slot file is rewritten by someone
// other than this slot. The slot's own atomic writes are suppressed by
// content comparison. Watch returns a stop function that releases the
// watcher.
//
// onChange runs on the watcher goroutine; callers typically pass a closure
// that forwards to Engine.Pop, which serializes internally.
func (s *Slot) Watch(onChange func()) (func(), error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, naverrors.IO(naverrors.PhaseWatch, "create watcher", err)
	}

	// Watch the directory, not the file: atomic replacement swaps the
	// inode out from under a file-level watch.
	dir := filepath.Dir(s.path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, naverrors.IO(naverrors.PhaseWatch, "watch slot directory", err)
	}

	base := filepath.Base(s.path)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != base {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if s.changedExternally() {
					Logger().Debug("slot rewritten externally", zap.String("slot", s.path))
					onChange()
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				Logger().Warn("slot watcher error", zap.String("slot", s.path), zap.Error(err))
			}
		}
	}()

	return func() {
		w.Close()
		<-done
	}, nil
}
