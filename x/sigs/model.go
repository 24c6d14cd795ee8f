package sigs

import (
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/orm"
)

// BucketName is where we store the accounts
const BucketName = "sigs"

// maxSequenceValue is limited by the client. The greatest supported nonce
// value at client side is Number.MAX_SAFE_INTEGER = 2^53 - 1
const maxSequenceValue = (1 << 53) - 1

var _ orm.Model = (*UserData)(nil)

func (u *UserData) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Address", u.Address.Validate())
	if u.Sequence < 0 {
		errs = errors.AppendField(errs, "Sequence", ErrInvalidSequence)
	}
	return errs
}

// CheckAndIncrementSequence implements check and increment operation.
// If current sequence value is the same as given expected value then it is
// incremented. Otherwise an error is returned.
// Before incrementing the sequence, this function is testing for a value
// overflow.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", u.Sequence, expected)
	}
	next := u.Sequence + 1
	if next <= 0 || next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

// NewBucket returns the bucket keeping UserData by signer address.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &UserData{})
}

// loadUser returns the state of given signer. A signer that was never seen
// starts with sequence zero.
func loadUser(db testament.ReadOnlyKVStore, addr testament.Address) (*UserData, error) {
	var u UserData
	switch err := NewBucket().One(db, addr, &u); {
	case err == nil:
		return &u, nil
	case errors.ErrNotFound.Is(err):
		return &UserData{Address: addr.Clone()}, nil
	default:
		return nil, err
	}
}

// NextNonce returns the next numeric nonce value that should be used during a
// transaction signing.
func NextNonce(db testament.ReadOnlyKVStore, signer testament.Address) (int64, error) {
	u, err := loadUser(db, signer)
	if err != nil {
		return 0, errors.Wrap(err, "load user")
	}
	return u.Sequence, nil
}
