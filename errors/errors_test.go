package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestError_Message(t *testing.T) {
	err := New(PhaseCommit, KindCommitFailed).
		Target("/inbox").
		Detail("slot write rejected").
		Build()

	msg := err.Error()
	if !strings.Contains(msg, "[commit]") {
		t.Errorf("message missing phase: %q", msg)
	}
	if !strings.Contains(msg, "commit_failed") {
		t.Errorf("message missing kind: %q", msg)
	}
	if !strings.Contains(msg, "/inbox") {
		t.Errorf("message missing target: %q", msg)
	}
	if !strings.Contains(msg, "slot write rejected") {
		t.Errorf("message missing detail: %q", msg)
	}
}

func TestError_CauseChain(t *testing.T) {
	cause := stderrors.New("disk full")
	err := CommitFailed("/inbox", cause)

	if !stderrors.Is(err, cause) {
		t.Fatal("errors.Is should find the cause")
	}
	if !strings.Contains(err.Error(), "disk full") {
		t.Errorf("cause missing from message: %q", err.Error())
	}
}

func TestError_IsMatchesPhaseAndKind(t *testing.T) {
	err := OutOfRange(PhaseTravel, 5, 3)

	if !stderrors.Is(err, &Error{Phase: PhaseTravel, Kind: KindOutOfRange}) {
		t.Fatal("Is should match on phase+kind")
	}
	if stderrors.Is(err, &Error{Phase: PhaseRead, Kind: KindOutOfRange}) {
		t.Fatal("Is should not match a different phase")
	}
}

func TestError_As(t *testing.T) {
	var structured *Error
	err := CorruptEntry(PhaseRead, 2, stderrors.New("bad json"))

	if !stderrors.As(err, &structured) {
		t.Fatal("errors.As should extract *Error")
	}
	if structured.Value != 2 {
		t.Fatalf("Value = %v, want 2", structured.Value)
	}
}

func TestBuilder_DetailFormatting(t *testing.T) {
	err := New(PhaseStore, KindIO).Detail("write %d bytes", 128).Build()
	if !strings.Contains(err.Error(), "write 128 bytes") {
		t.Errorf("formatted detail missing: %q", err.Error())
	}
}
