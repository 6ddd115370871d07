package slot

import (
	"os"

	"go.uber.org/zap"
)

// FileGuard implements navhistory.Guard with a marker file next to the
// slot. The marker exists exactly while a blocker is registered; external
// writers that honor it hold off rewriting the slot until it disappears.
type FileGuard struct {
	path string
}

// NewFileGuard returns a guard whose marker sits at slotPath + ".guard".
func NewFileGuard(slotPath string) *FileGuard {
	return &FileGuard{path: slotPath + ".guard"}
}

// Arm creates the marker. Repeated calls are harmless.
func (g *FileGuard) Arm() {
	if err := os.WriteFile(g.path, []byte("pending\n"), 0o644); err != nil {
		Logger().Warn("cannot arm navigation guard", zap.String("marker", g.path), zap.Error(err))
	}
}

// Disarm removes the marker. Repeated calls are harmless.
func (g *FileGuard) Disarm() {
	if err := os.Remove(g.path); err != nil && !os.IsNotExist(err) {
		Logger().Warn("cannot disarm navigation guard", zap.String("marker", g.path), zap.Error(err))
	}
}

// Armed reports whether the marker currently exists.
func (g *FileGuard) Armed() bool {
	_, err := os.Stat(g.path)
	return err == nil
}
