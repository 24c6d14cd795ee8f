// Package bech32 converts addresses to and from the bech32 text form.
package bech32

import (
	"github.com/btcsuite/btcutil/bech32"
	"github.com/iov-one/testament/errors"
)

// Encode returns the bech32 form of payload under the hrp prefix.
func Encode(hrp string, payload []byte) ([]byte, error) {
	data, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	raw, err := bech32.Encode(hrp, data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return []byte(raw), nil
}

// Decode returns the prefix and the payload of a bech32 string.
func Decode(raw string) (string, []byte, error) {
	hrp, data, err := bech32.Decode(raw)
	if err != nil {
		return "", nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	payload, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return "", nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return hrp, payload, nil
}

// DecodePrefixed is Decode failing with ErrInput when the prefix is not hrp.
func DecodePrefixed(hrp, raw string) ([]byte, error) {
	got, payload, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	if got != hrp {
		return nil, errors.Wrapf(errors.ErrInput, "prefix %q, want %q", got, hrp)
	}
	return payload, nil
}
