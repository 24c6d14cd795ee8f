package bank

import (
	"github.com/holiman/uint256"
	"github.com/iov-one/testament/errors"
)

// AmountBytes returns the 32 byte big endian form of an amount, as stored
// in balances and carried by messages.
func AmountBytes(v *uint256.Int) []byte {
	if v == nil {
		v = new(uint256.Int)
	}
	b := v.Bytes32()
	return b[:]
}

// ParseAmount decodes a big endian amount of at most 32 bytes. An empty
// value is zero.
func ParseAmount(raw []byte) (*uint256.Int, error) {
	if len(raw) > 32 {
		return nil, errors.Wrapf(errors.ErrAmount, "amount must fit in 32 bytes, got %d", len(raw))
	}
	return new(uint256.Int).SetBytes(raw), nil
}

// Amount returns an amount from a small number.
func Amount(v uint64) *uint256.Int {
	return uint256.NewInt(v)
}
