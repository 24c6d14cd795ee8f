package safe

import (
	"context"

	"github.com/iov-one/testament"
	"github.com/iov-one/testament/x"
)

type contextKey int // local to the safe module

const (
	contextKeyWallet contextKey = iota
)

// withWallet is a private method, as only this module can authorize a
// wallet.
func withWallet(ctx testament.Context, wallet testament.Address) testament.Context {
	return context.WithValue(ctx, contextKeyWallet, wallet)
}

// Authenticate returns the wallet authorized by an exec header.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

func (Authenticate) GetAddresses(ctx testament.Context) []testament.Address {
	val, _ := ctx.Value(contextKeyWallet).(testament.Address)
	if val == nil {
		return nil
	}
	return []testament.Address{val}
}

func (a Authenticate) HasAddress(ctx testament.Context, addr testament.Address) bool {
	for _, w := range a.GetAddresses(ctx) {
		if addr.Equals(w) {
			return true
		}
	}
	return false
}
