package weavetest

import (
	"crypto/rand"

	"github.com/iov-one/testament"
	"github.com/iov-one/testament/crypto"
)

// NewKey returns a new random secp256k1 key. It panics on failure.
func NewKey() *crypto.PrivateKey {
	k, err := crypto.GenerateKey()
	if err != nil {
		panic(err)
	}
	return k
}

// NewAddress returns a random address that nobody holds the key of.
func NewAddress() testament.Address {
	raw := make([]byte, testament.AddressLength)
	if _, err := rand.Read(raw); err != nil {
		panic(err)
	}
	return raw
}
