package store

import (
	"encoding/json"
	"sync"

	naverrors "github.com/wippyai/nav-history/errors"
)

// Memory is a map-backed Store for tests and ephemeral sessions. State
// blobs round-trip through JSON like the durable implementation, so tests
// exercise the same serialization constraints.
type Memory struct {
	mu      sync.Mutex
	entries map[int]Entry
	state   map[string][]byte
	closed  bool
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[int]Entry),
		state:   make(map[string][]byte),
	}
}

// PutEntry writes the metadata for the entry at index.
func (s *Memory) PutEntry(index int, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return naverrors.Closed(naverrors.PhaseStore, "memory store")
	}
	s.entries[index] = e
	return nil
}

// GetEntry reads the metadata for the entry at index.
func (s *Memory) GetEntry(index int) (Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[index]
	return e, ok, nil
}

// TruncateFrom removes every entry at or beyond index and its state blob.
func (s *Memory) TruncateFrom(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return naverrors.Closed(naverrors.PhaseStore, "memory store")
	}
	for i, e := range s.entries {
		if i >= index {
			delete(s.entries, i)
			delete(s.state, e.Key)
		}
	}
	return nil
}

// Len returns the number of stored entries.
func (s *Memory) Len() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries), nil
}

// PutState stores an opaque state blob under an entry key.
func (s *Memory) PutState(key string, state any) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return naverrors.Wrap(naverrors.PhaseStore, naverrors.KindInvalidInput, err, "encode state")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return naverrors.Closed(naverrors.PhaseStore, "memory store")
	}
	s.state[key] = raw
	return nil
}

// GetState retrieves a state blob decoded from JSON.
func (s *Memory) GetState(key string) (any, bool, error) {
	s.mu.Lock()
	raw, ok := s.state[key]
	s.mu.Unlock()
	if !ok {
		return nil, false, nil
	}
	var state any
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, false, naverrors.Wrap(naverrors.PhaseStore, naverrors.KindCorruptEntry, err, "decode state")
	}
	return state, true, nil
}

// DeleteState removes a state blob.
func (s *Memory) DeleteState(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.state, key)
	return nil
}

// Close marks the store closed; further writes fail.
func (s *Memory) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
