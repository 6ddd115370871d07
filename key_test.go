package navhistory

import "testing"

func TestNewKey_Shape(t *testing.T) {
	k := NewKey()
	if len(k) != keyLength {
		t.Fatalf("key length = %d, want %d", len(k), keyLength)
	}
	for _, c := range k {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			t.Fatalf("key %q contains non-hex character %q", k, c)
		}
	}
}

func TestNewKey_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		k := NewKey()
		if seen[k] {
			t.Fatalf("duplicate key %q after %d generations", k, i)
		}
		seen[k] = true
	}
}
