package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseParse  Phase = "parse"  // path parsing and validation
	PhaseOpen   Phase = "open"   // backend construction
	PhaseRead   Phase = "read"   // deriving index+location from storage
	PhaseCommit Phase = "commit" // persisting a new entry
	PhaseTravel Phase = "travel" // moving the backend cursor
	PhaseWatch  Phase = "watch"  // out-of-band change detection
	PhaseStore  Phase = "store"  // entry/state persistence
	PhaseEngine Phase = "engine" // transition engine operations
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidPath    Kind = "invalid_path"
	KindInvalidInput   Kind = "invalid_input"
	KindNotFound       Kind = "not_found"
	KindCorruptEntry   Kind = "corrupt_entry"
	KindOutOfRange     Kind = "out_of_range"
	KindCommitFailed   Kind = "commit_failed"
	KindIO             Kind = "io"
	KindClosed         Kind = "closed"
	KindUnsupported    Kind = "unsupported"
	KindNotInitialized Kind = "not_initialized"
)

// Error is the structured error type used throughout the library
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Target string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Target != "" {
		b.WriteString(" at ")
		b.WriteString(e.Target)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Target sets the href or storage target involved
func (b *Builder) Target(t string) *Builder {
	b.err.Target = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// InvalidPath creates an invalid path error
func InvalidPath(phase Phase, path, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidPath,
		Target: path,
		Detail: detail,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// OutOfRange creates an out of range error for a stack index
func OutOfRange(phase Phase, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfRange,
		Detail: fmt.Sprintf("index %d out of range (length %d)", index, length),
		Value:  index,
	}
}

// CorruptEntry creates an error for an entry that cannot be decoded
func CorruptEntry(phase Phase, index int, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindCorruptEntry,
		Detail: fmt.Sprintf("entry %d cannot be decoded", index),
		Value:  index,
		Cause:  cause,
	}
}

// CommitFailed creates a commit failure error
func CommitFailed(target string, cause error) *Error {
	return &Error{
		Phase:  PhaseCommit,
		Kind:   KindCommitFailed,
		Target: target,
		Detail: "commit entry",
		Cause:  cause,
	}
}

// IO wraps a storage I/O failure
func IO(phase Phase, detail string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindIO,
		Detail: detail,
		Cause:  cause,
	}
}

// Closed creates an error for operations on a closed backend or store
func Closed(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindClosed,
		Detail: fmt.Sprintf("%s is closed", what),
	}
}

// NotInitialized creates a not-initialized error for missing collaborators
func NotInitialized(phase Phase, component string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s not initialized", component),
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
