package store

import (
	"path/filepath"
	"testing"
)

// Both implementations satisfy the same contract; run the suite over each.
func stores(t *testing.T) map[string]Store {
	t.Helper()
	b, err := OpenBolt(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { b.Close() })
	m := NewMemory()
	t.Cleanup(func() { m.Close() })
	return map[string]Store{"bolt": b, "memory": m}
}

func TestStore_EntryRoundTrip(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			in := Entry{Path: "/inbox?unread=1", Key: "abc12345", Index: 2}
			if err := s.PutEntry(2, in); err != nil {
				t.Fatal(err)
			}

			got, ok, err := s.GetEntry(2)
			if err != nil || !ok {
				t.Fatalf("ok=%v err=%v", ok, err)
			}
			if got != in {
				t.Fatalf("got %+v, want %+v", got, in)
			}

			_, ok, err = s.GetEntry(5)
			if err != nil || ok {
				t.Fatal("missing entry should read as absent")
			}
		})
	}
}

func TestStore_TruncateFrom(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 4; i++ {
				key := string(rune('a' + i))
				if err := s.PutEntry(i, Entry{Path: "/p", Key: key, Index: i}); err != nil {
					t.Fatal(err)
				}
				if err := s.PutState(key, i); err != nil {
					t.Fatal(err)
				}
			}

			if err := s.TruncateFrom(2); err != nil {
				t.Fatal(err)
			}

			n, err := s.Len()
			if err != nil || n != 2 {
				t.Fatalf("Len = %d err=%v, want 2", n, err)
			}
			if _, ok, _ := s.GetEntry(2); ok {
				t.Fatal("entry 2 should be gone")
			}
			if _, ok, _ := s.GetState("c"); ok {
				t.Fatal("state of a truncated entry should be gone")
			}
			if _, ok, _ := s.GetState("a"); !ok {
				t.Fatal("state of a surviving entry should remain")
			}
		})
	}
}

func TestStore_StateRoundTrip(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			state := map[string]any{"scroll": float64(42), "tab": "files"}
			if err := s.PutState("k1", state); err != nil {
				t.Fatal(err)
			}

			got, ok, err := s.GetState("k1")
			if err != nil || !ok {
				t.Fatalf("ok=%v err=%v", ok, err)
			}
			m, ok := got.(map[string]any)
			if !ok || m["scroll"] != float64(42) || m["tab"] != "files" {
				t.Fatalf("state did not round-trip: %#v", got)
			}

			if _, ok, _ := s.GetState("missing"); ok {
				t.Fatal("missing state should read as absent")
			}

			if err := s.DeleteState("k1"); err != nil {
				t.Fatal(err)
			}
			if _, ok, _ := s.GetState("k1"); ok {
				t.Fatal("deleted state should read as absent")
			}
			if err := s.DeleteState("k1"); err != nil {
				t.Fatal("double delete should be a no-op")
			}
		})
	}
}

func TestStore_NilState(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.PutState("nil", nil); err != nil {
				t.Fatal(err)
			}
			got, ok, err := s.GetState("nil")
			if err != nil || !ok {
				t.Fatalf("ok=%v err=%v", ok, err)
			}
			if got != nil {
				t.Fatalf("nil state came back as %#v", got)
			}
		})
	}
}

func TestBolt_ReopenPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	s, err := OpenBolt(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.PutEntry(0, Entry{Path: "/a", Key: "k0", Index: 0}); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = OpenBolt(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	got, ok, err := s.GetEntry(0)
	if err != nil || !ok || got.Path != "/a" {
		t.Fatalf("entry lost across reopen: %+v ok=%v err=%v", got, ok, err)
	}
}
