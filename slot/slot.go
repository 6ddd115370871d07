package slot

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	navhistory "github.com/wippyai/nav-history"
	naverrors "github.com/wippyai/nav-history/errors"
)

// Record is the decoded content of a slot file: the visible href plus the
// metadata this process attaches to its own entries. A bare record (no key)
// was written by an external party and carries an unknown index.
type Record struct {
	Href  string
	Key   string
	Index int
}

// Bare reports whether the record carries no entry metadata.
func (r Record) Bare() bool {
	return r.Key == ""
}

// Slot is a single-file current-href cell with atomic rewrites.
type Slot struct {
	path string

	mu          sync.Mutex
	lastWritten string
}

// Open returns a slot over the given file path. The file is not created
// until the first Write.
func Open(path string) (*Slot, error) {
	if path == "" {
		return nil, naverrors.InvalidInput(naverrors.PhaseOpen, "slot path is empty")
	}
	return &Slot{path: path}, nil
}

// Path returns the slot file path.
func (s *Slot) Path() string {
	return s.path
}

// Read decodes the slot file. The second return is false when the file does
// not exist or is empty.
func (s *Slot) Read() (Record, bool, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, naverrors.IO(naverrors.PhaseRead, "read slot file", err)
	}

	line := strings.TrimSpace(string(raw))
	if line == "" {
		return Record{}, false, nil
	}
	return decode(line), true, nil
}

// Write encodes the record and atomically replaces the slot file. The
// written content is remembered so the watcher can tell our own writes
// apart from external ones.
func (s *Slot) Write(r Record) error {
	content := encode(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".slot-*")
	if err != nil {
		return naverrors.IO(naverrors.PhaseCommit, "create temp slot file", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return naverrors.IO(naverrors.PhaseCommit, "write temp slot file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return naverrors.IO(naverrors.PhaseCommit, "close temp slot file", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return naverrors.IO(naverrors.PhaseCommit, "replace slot file", err)
	}

	s.lastWritten = content
	return nil
}

// changedExternally reports whether the slot file no longer matches the
// last content this slot wrote.
func (s *Slot) changedExternally() bool {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		// Transient mid-rename states read as changes; the backend's
		// re-read sorts it out.
		return !os.IsNotExist(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return string(raw) != s.lastWritten
}

func encode(r Record) string {
	if r.Bare() {
		return r.Href + "\n"
	}
	return r.Href + "\t" + r.Key + "\t" + strconv.Itoa(r.Index) + "\n"
}

func decode(line string) Record {
	parts := strings.Split(line, "\t")
	if len(parts) < 3 {
		return Record{Href: parts[0], Index: navhistory.UnknownIndex}
	}
	index, err := strconv.Atoi(parts[2])
	if err != nil {
		index = navhistory.UnknownIndex
	}
	return Record{Href: parts[0], Key: parts[1], Index: index}
}
