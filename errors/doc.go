// Package errors provides structured error types for the nav-history library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type includes the href or storage target involved and
// a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseCommit, errors.KindCommitFailed).
//		Target("/inbox?unread=1").
//		Detail("slot write rejected").
//		Cause(ioErr).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.OutOfRange(errors.PhaseTravel, 5, 3)
//	err := errors.CorruptEntry(errors.PhaseRead, 2, unmarshalErr)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
