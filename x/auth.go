package x

import (
	"github.com/iov-one/testament"
)

// Authenticator is an interface we can use to extract authentication info
// from the context. This should be passed into the constructor of
// handlers, so we can plug in another authentication system,
// rather than hard-coding x/sigs for all extensions.
type Authenticator interface {
	// GetAddresses reveals all addresses that authorized the current
	// execution, in the order they were added.
	GetAddresses(testament.Context) []testament.Address
	// HasAddress checks if any authorized address matches this one
	HasAddress(testament.Context, testament.Address) bool
}

// MultiAuth chains together many Authenticators into one
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of Authenticator
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls}
}

// GetAddresses combines all addresses from all Authenticators. Duplicates
// are removed, the first occurrence wins.
func (m MultiAuth) GetAddresses(ctx testament.Context) []testament.Address {
	var res []testament.Address
	for _, impl := range m.impls {
		for _, a := range impl.GetAddresses(ctx) {
			if !containsAddress(res, a) {
				res = append(res, a)
			}
		}
	}
	return res
}

// HasAddress returns true iff any Authenticator support this
func (m MultiAuth) HasAddress(ctx testament.Context, addr testament.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// MainSigner returns the first authorized address if any, otherwise nil
func MainSigner(ctx testament.Context, auth Authenticator) testament.Address {
	signers := auth.GetAddresses(ctx)
	if len(signers) == 0 {
		return nil
	}
	return signers[0]
}

// HasAllAddresses returns true if all elements in required are
// also in context.
func HasAllAddresses(ctx testament.Context, auth Authenticator, required []testament.Address) bool {
	return HasNAddresses(ctx, auth, required, len(required))
}

// HasNAddresses returns true if at least n elements in requested are
// also in context. Each required address is counted once.
// Useful for threshold conditions (1 of 3, 3 of 5, etc...)
func HasNAddresses(ctx testament.Context, auth Authenticator, required []testament.Address, n int) bool {
	if n <= 0 {
		return true
	}

	var seen []testament.Address
	for _, r := range required {
		if containsAddress(seen, r) {
			continue
		}
		seen = append(seen, r)
		if auth.HasAddress(ctx, r) {
			n--
			if n == 0 {
				return true
			}
		}
	}
	return false
}

func containsAddress(list []testament.Address, a testament.Address) bool {
	for _, x := range list {
		if x.Equals(a) {
			return true
		}
	}
	return false
}
