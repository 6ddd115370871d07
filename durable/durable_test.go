package durable

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	navhistory "github.com/wippyai/nav-history"
	"github.com/wippyai/nav-history/engine"
	"github.com/wippyai/nav-history/slot"
	"github.com/wippyai/nav-history/store"
)

func openBackend(t *testing.T, opts ...Option) (*Backend, string) {
	t.Helper()
	dir := t.TempDir()
	st, err := store.OpenBolt(filepath.Join(dir, "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })

	b, err := Open(filepath.Join(dir, "current"), st, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return b, dir
}

func TestOpen_SeedsMissingSlot(t *testing.T) {
	b, _ := openBackend(t, WithInitialPath("/home"))

	index, loc, err := b.Read()
	if err != nil {
		t.Fatal(err)
	}
	if index != 0 || loc.Pathname != "/home" || loc.Key != navhistory.DefaultKey {
		t.Fatalf("got index=%d loc=%+v", index, loc)
	}
	if b.Len() != 1 {
		t.Fatalf("Len = %d, want 1", b.Len())
	}
}

func TestOpen_NilStore(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "current"), nil); err == nil {
		t.Fatal("expected construction to fail fast without a store")
	}
}

func TestOpen_AdoptsBareSlot(t *testing.T) {
	dir := t.TempDir()
	slotPath := filepath.Join(dir, "current")
	if err := os.WriteFile(slotPath, []byte("/handed-over?x=1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	st, err := store.OpenBolt(filepath.Join(dir, "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	b, err := Open(slotPath, st)
	if err != nil {
		t.Fatal(err)
	}

	index, loc, err := b.Read()
	if err != nil {
		t.Fatal(err)
	}
	if index != 0 || loc.Pathname != "/handed-over" || loc.Search != "?x=1" {
		t.Fatalf("bare slot not adopted: index=%d loc=%+v", index, loc)
	}
	if loc.Key != navhistory.DefaultKey {
		t.Fatalf("adopted key = %q, want default", loc.Key)
	}
}

func TestEngine_PushTravelOverDurable(t *testing.T) {
	b, _ := openBackend(t)
	eng, err := engine.New(b)
	if err != nil {
		t.Fatal(err)
	}

	if err := eng.Push("/a", map[string]any{"scroll": 10}); err != nil {
		t.Fatal(err)
	}
	if err := eng.Push("/b", nil); err != nil {
		t.Fatal(err)
	}
	if eng.Index() != 2 || b.Len() != 3 {
		t.Fatalf("index=%d len=%d, want 2 and 3", eng.Index(), b.Len())
	}

	if err := eng.Back(); err != nil {
		t.Fatal(err)
	}
	loc := eng.Location()
	if loc.Pathname != "/a" || eng.Action() != navhistory.ActionPop {
		t.Fatalf("after back: %q %v", loc.Pathname, eng.Action())
	}

	// State persisted through the store and restored through the slot.
	m, ok := loc.State.(map[string]any)
	if !ok || m["scroll"] != float64(10) {
		t.Fatalf("state not restored: %#v", loc.State)
	}
}

func TestEngine_SessionResume(t *testing.T) {
	dir := t.TempDir()
	slotPath := filepath.Join(dir, "current")
	dbPath := filepath.Join(dir, "history.db")

	st, err := store.OpenBolt(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Open(slotPath, st)
	if err != nil {
		t.Fatal(err)
	}
	eng, err := engine.New(b)
	if err != nil {
		t.Fatal(err)
	}
	if err := eng.Push("/resumed", nil); err != nil {
		t.Fatal(err)
	}
	key := eng.Location().Key
	if err := st.Close(); err != nil {
		t.Fatal(err)
	}

	st, err = store.OpenBolt(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	b, err = Open(slotPath, st)
	if err != nil {
		t.Fatal(err)
	}

	index, loc, err := b.Read()
	if err != nil {
		t.Fatal(err)
	}
	if index != 1 || loc.Pathname != "/resumed" || loc.Key != key {
		t.Fatalf("session not resumed: index=%d loc=%+v", index, loc)
	}
	if b.Len() != 2 {
		t.Fatalf("Len = %d, want 2", b.Len())
	}
}

func TestExternalBareRewrite_UnblockablePop(t *testing.T) {
	b, _ := openBackend(t)
	eng, err := engine.New(b)
	if err != nil {
		t.Fatal(err)
	}

	var updates []navhistory.Update
	eng.Listen(navhistory.ListenerFunc(func(u navhistory.Update) { updates = append(updates, u) }))
	eng.Block(navhistory.BlockerFunc(func(navhistory.Transition) {
		t.Error("blockers must not be consulted for a metadata-less pop")
	}))

	// An external writer replaces the slot with a bare href.
	if err := os.WriteFile(b.Slot().Path(), []byte("/external\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	eng.Pop()

	if len(updates) != 1 || updates[0].Action != navhistory.ActionPop {
		t.Fatalf("updates = %v", updates)
	}
	if updates[0].Location.Pathname != "/external" {
		t.Fatalf("pathname = %q", updates[0].Location.Pathname)
	}
}

func TestExternalMetadataRewrite_BlockedAndRetried(t *testing.T) {
	b, _ := openBackend(t)
	eng, err := engine.New(b)
	if err != nil {
		t.Fatal(err)
	}
	if err := eng.Push("/a", nil); err != nil {
		t.Fatal(err)
	}

	var updates []navhistory.Update
	eng.Listen(navhistory.ListenerFunc(func(u navhistory.Update) { updates = append(updates, u) }))

	var held navhistory.Transition
	unblock := eng.Block(navhistory.BlockerFunc(func(tx navhistory.Transition) { held = tx }))

	// A cooperating external writer moves the slot back to entry 0 with
	// full metadata, like a platform back button.
	entry, found, err := mustEntry(b, 0)
	if err != nil || !found {
		t.Fatalf("entry 0 missing: %v", err)
	}
	if err := b.Slot().Write(slot.Record{Href: entry.Path, Key: entry.Key, Index: 0}); err != nil {
		t.Fatal(err)
	}
	// Simulate the slot having been rewritten by someone else: the engine
	// only sees the pop signal.
	eng.Pop()

	if held.Retry == nil {
		t.Fatal("blocker did not receive the transition")
	}
	if eng.Index() != 1 || len(updates) != 0 {
		t.Fatalf("blocked pop leaked: index=%d updates=%v", eng.Index(), updates)
	}

	unblock()
	held.Retry()

	if eng.Index() != 0 || eng.Location().Pathname != "/" {
		t.Fatalf("retry did not land on entry 0: index=%d path=%q", eng.Index(), eng.Location().Pathname)
	}
	if len(updates) != 1 {
		t.Fatalf("updates = %d, want exactly 1", len(updates))
	}
}

func mustEntry(b *Backend, index int) (store.Entry, bool, error) {
	st := b.store
	return st.GetEntry(index)
}

func TestWatch_FeedsEnginePop(t *testing.T) {
	b, _ := openBackend(t)
	eng, err := engine.New(b)
	if err != nil {
		t.Fatal(err)
	}

	updates := make(chan navhistory.Update, 4)
	eng.Listen(navhistory.ListenerFunc(func(u navhistory.Update) { updates <- u }))

	stop, err := b.Watch(eng.Pop)
	if err != nil {
		t.Fatal(err)
	}
	defer stop()

	if err := os.WriteFile(b.Slot().Path(), []byte("/from-outside\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case u := <-updates:
		if u.Action != navhistory.ActionPop || u.Location.Pathname != "/from-outside" {
			t.Fatalf("update = %+v", u)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("external rewrite never reached the engine")
	}
}

func TestGuard_MarkerFollowsBlockers(t *testing.T) {
	b, _ := openBackend(t)
	eng, err := engine.New(b)
	if err != nil {
		t.Fatal(err)
	}

	marker := b.Slot().Path() + ".guard"
	if _, err := os.Stat(marker); err == nil {
		t.Fatal("guard marker should not exist before blocking")
	}

	unblock := eng.Block(navhistory.BlockerFunc(func(navhistory.Transition) {}))
	if _, err := os.Stat(marker); err != nil {
		t.Fatal("guard marker missing while a blocker is registered")
	}

	unblock()
	if _, err := os.Stat(marker); err == nil {
		t.Fatal("guard marker should be removed with the last blocker")
	}
}

func TestWrite_RelativePathAdvisory(t *testing.T) {
	b, _ := openBackend(t)

	// Advisory only: the commit must still proceed.
	loc := navhistory.Location{Pathname: "relative", Key: navhistory.NewKey()}
	if err := b.Write(loc, 1, navhistory.ActionPush); err != nil {
		t.Fatalf("relative path should proceed with a warning, got %v", err)
	}
}
