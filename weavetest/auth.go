package weavetest

import (
	"context"
	"fmt"

	"github.com/iov-one/testament"
)

// Auth is a mock implementing x.Authenticator interface.
//
// This structure authenticates any of referenced addresses.
// You can use either Signer or Signers (or both) attributes to reference
// addresses. This is for the convenience and each time all signers
// (regardless which attribute) are considered.
type Auth struct {
	// Signer represents an authentication of a single signer. This is a
	// convenience attribute when creating an authentication method for a
	// single signer.
	Signer testament.Address

	// Signers represents an authentication of multiple signers.
	Signers []testament.Address
}

func (a *Auth) GetAddresses(testament.Context) []testament.Address {
	if a.Signer != nil {
		return append(append([]testament.Address{}, a.Signers...), a.Signer)
	}
	return a.Signers
}

func (a *Auth) HasAddress(ctx testament.Context, addr testament.Address) bool {
	for _, s := range a.GetAddresses(ctx) {
		if addr.Equals(s) {
			return true
		}
	}
	return false
}

// CtxAuth is a mock implementing x.Authenticator interface.
//
// This implementation is using context to store and retrieve addresses.
type CtxAuth struct {
	// Key used to set and retrieve addresses from the context. For
	// convenience only string type keys are allowed.
	Key string
}

func (a *CtxAuth) SetAddresses(ctx testament.Context, addrs ...testament.Address) testament.Context {
	return context.WithValue(ctx, a.Key, addrs)
}

func (a *CtxAuth) GetAddresses(ctx testament.Context) []testament.Address {
	val := ctx.Value(a.Key)
	if val == nil {
		return nil
	}
	addrs, ok := val.([]testament.Address)
	if !ok {
		panic(fmt.Sprintf("instead of []testament.Address got %T", ctx.Value(a.Key)))
	}
	return addrs
}

func (a *CtxAuth) HasAddress(ctx testament.Context, addr testament.Address) bool {
	for _, s := range a.GetAddresses(ctx) {
		if addr.Equals(s) {
			return true
		}
	}
	return false
}
