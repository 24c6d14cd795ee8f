package sigs

import (
	"github.com/iov-one/testament/crypto"
	"github.com/iov-one/testament/errors"
)

// SignedTx represents a transaction that contains signatures,
// which can be verified by the Decorator
type SignedTx interface {
	// GetSignBytes returns the canonical byte representation of the Msg.
	GetSignBytes() ([]byte, error)

	// GetSignatures returns the signature of signers who signed the Msg.
	GetSignatures() []*StdSignature
}

// Validate ensures the StdSignature meets basic standards
func (s *StdSignature) Validate() error {
	if s.GetSequence() < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if len(s.GetSignature()) != crypto.SignatureLength {
		return errors.Wrap(errors.ErrUnauthorized, "malformed signature")
	}
	return nil
}
