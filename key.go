package navhistory

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// DefaultKey is the sentinel key carried by the very first location of a
// session, before any entry committed by this engine.
const DefaultKey = "default"

const keyLength = 8

// NewKey returns a short random identifier for a navigation entry. Keys only
// need to disambiguate stack entries; they are not cryptographically strong.
func NewKey() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])[:keyLength]
}
