package sigs

import "github.com/iov-one/testament/errors"

// ErrInvalidSequence is returned when a signature carries a sequence that
// does not match the current signer sequence.
var ErrInvalidSequence = errors.Register(120, "invalid sequence number")
