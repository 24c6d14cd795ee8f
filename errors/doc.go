/*
Package errors implements the error kinds used across the ledger.

Reuse the root errors declared in this package whenever possible and
register a custom kind with Register(code, description) only when an
extension needs a programmatically distinguishable failure. Every registered
code must be unique; registering a code twice panics at startup.

Create errors with ErrXyz.New("...") or errors.Wrap(err, "...") at the point
of failure so that a stack trace is attached. Test an error kind with
ErrXyz.Is(err), which unwraps any number of Wrap layers.

	%s  prints the error message
	%+v prints the message and the stack trace of the first wrap
*/
package errors
