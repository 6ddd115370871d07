package store

import (
	"encoding/binary"
	"encoding/json"
	"time"

	bolt "go.etcd.io/bbolt"

	naverrors "github.com/wippyai/nav-history/errors"
)

var (
	bucketEntries = []byte("entries")
	bucketState   = []byte("state")
)

// Bolt is a Store backed by a bbolt database file.
type Bolt struct {
	db *bolt.DB
}

// OpenBolt opens (or creates) the database at path and ensures the buckets
// exist. The file is locked for exclusive use by this process.
func OpenBolt(path string) (*Bolt, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, naverrors.IO(naverrors.PhaseOpen, "open history database", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketEntries); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketState)
		return err
	})
	if err != nil {
		db.Close()
		return nil, naverrors.IO(naverrors.PhaseOpen, "create history buckets", err)
	}

	return &Bolt{db: db}, nil
}

// PutEntry writes the metadata for the entry at index.
func (s *Bolt) PutEntry(index int, e Entry) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return naverrors.Wrap(naverrors.PhaseStore, naverrors.KindInvalidInput, err, "encode entry")
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketEntries).Put(itob(index), raw)
	})
	if err != nil {
		return naverrors.IO(naverrors.PhaseStore, "write entry", err)
	}
	return nil
}

// GetEntry reads the metadata for the entry at index.
func (s *Bolt) GetEntry(index int) (Entry, bool, error) {
	var e Entry
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketEntries).Get(itob(index))
		if raw == nil {
			return nil
		}
		found = true
		return json.Unmarshal(raw, &e)
	})
	if err != nil {
		return Entry{}, false, naverrors.CorruptEntry(naverrors.PhaseStore, index, err)
	}
	return e, found, nil
}

// TruncateFrom removes every entry at or beyond index and its state blob.
func (s *Bolt) TruncateFrom(index int) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		entries := tx.Bucket(bucketEntries)
		state := tx.Bucket(bucketState)

		c := entries.Cursor()
		for k, v := c.Seek(itob(index)); k != nil; k, v = c.Next() {
			var e Entry
			if json.Unmarshal(v, &e) == nil && e.Key != "" {
				if err := state.Delete([]byte(e.Key)); err != nil {
					return err
				}
			}
			if err := c.Delete(); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return naverrors.IO(naverrors.PhaseStore, "truncate entries", err)
	}
	return nil
}

// Len returns the number of stored entries.
func (s *Bolt) Len() (int, error) {
	var n int
	err := s.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket(bucketEntries).Stats().KeyN
		return nil
	})
	if err != nil {
		return 0, naverrors.IO(naverrors.PhaseStore, "count entries", err)
	}
	return n, nil
}

// PutState stores an opaque state blob under an entry key.
func (s *Bolt) PutState(key string, state any) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return naverrors.Wrap(naverrors.PhaseStore, naverrors.KindInvalidInput, err, "encode state")
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketState).Put([]byte(key), raw)
	})
	if err != nil {
		return naverrors.IO(naverrors.PhaseStore, "write state", err)
	}
	return nil
}

// GetState retrieves a state blob decoded from JSON.
func (s *Bolt) GetState(key string) (any, bool, error) {
	var state any
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketState).Get([]byte(key))
		if raw == nil {
			return nil
		}
		found = true
		return json.Unmarshal(raw, &state)
	})
	if err != nil {
		return nil, false, naverrors.Wrap(naverrors.PhaseStore, naverrors.KindCorruptEntry, err, "decode state")
	}
	return state, found, nil
}

// DeleteState removes a state blob.
func (s *Bolt) DeleteState(key string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketState).Delete([]byte(key))
	})
	if err != nil {
		return naverrors.IO(naverrors.PhaseStore, "delete state", err)
	}
	return nil
}

// Close releases the database.
func (s *Bolt) Close() error {
	return s.db.Close()
}

func itob(n int) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(n))
	return b
}
