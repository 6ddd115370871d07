package store

// Entry is the persisted metadata for one navigation stack entry.
type Entry struct {
	Path  string `json:"path"`
	Key   string `json:"key"`
	Index int    `json:"index"`
}

// Store persists entry metadata and opaque state blobs for a durable
// backend. Implementations must be safe for concurrent use.
type Store interface {
	// PutEntry writes the metadata for the entry at index.
	PutEntry(index int, e Entry) error

	// GetEntry reads the metadata for the entry at index.
	GetEntry(index int) (Entry, bool, error)

	// TruncateFrom removes every entry at or beyond index, along with its
	// state blob. Used when a push discards forward history.
	TruncateFrom(index int) error

	// Len returns the number of stored entries.
	Len() (int, error)

	// PutState stores an opaque state blob under an entry key.
	PutState(key string, state any) error

	// GetState retrieves a state blob. The second return is false when no
	// blob exists for the key.
	GetState(key string) (any, bool, error)

	// DeleteState removes a state blob. Missing keys are a no-op.
	DeleteState(key string) error

	// Close releases the store.
	Close() error
}
