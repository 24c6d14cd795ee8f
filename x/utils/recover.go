package utils

import (
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
)

// Recovery is a decorator to recover from panics in transactions,
// so we can log them as errors
type Recovery struct{}

var _ testament.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

// Check turns panics into ErrPanic errors.
func (Recovery) Check(ctx testament.Context, store testament.KVStore, tx testament.Tx, next testament.Checker) (_ *testament.CheckResult, err error) {
	defer errors.Recover(&err)
	return next.Check(ctx, store, tx)
}

// Deliver turns panics into ErrPanic errors.
func (Recovery) Deliver(ctx testament.Context, store testament.KVStore, tx testament.Tx, next testament.Deliverer) (_ *testament.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, store, tx)
}
