// Package hooks provides small ordered callback lists used for listener and
// blocker fan-out.
//
// A List keeps handlers in registration order, allows the same handler to be
// registered more than once, and hands back a removal token per
// registration. Call fans an argument out to a snapshot of the current
// handlers, so handlers may register or remove handlers from inside a call
// without affecting the round in flight. A panicking handler is isolated: it
// is logged and the remaining handlers in the same round still run.
package hooks
