package sigs

import (
	"context"

	"github.com/iov-one/testament"
	"github.com/iov-one/testament/x"
)

type contextKey int // local to the sigs module

const (
	contextKeySigners contextKey = iota
)

// withSigners is a private method, as only this module
// can add a signer
func withSigners(ctx testament.Context, signers []testament.Address) testament.Context {
	return context.WithValue(ctx, contextKeySigners, signers)
}

// Authenticate reads the signers verified by the Decorator.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetAddresses returns who signed the current Context.
// May be empty
func (a Authenticate) GetAddresses(ctx testament.Context) []testament.Address {
	// (val, ok) form to return nil instead of panic if unset
	val, _ := ctx.Value(contextKeySigners).([]testament.Address)
	return val
}

// HasAddress returns true if given address signed the transaction.
func (a Authenticate) HasAddress(ctx testament.Context, addr testament.Address) bool {
	for _, s := range a.GetAddresses(ctx) {
		if addr.Equals(s) {
			return true
		}
	}
	return false
}
