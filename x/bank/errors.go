package bank

import "github.com/iov-one/testament/errors"

var (
	// ErrUnknownAsset is returned when an asset is neither the native
	// asset nor a created token.
	ErrUnknownAsset = errors.Register(400, "unknown asset")
)
