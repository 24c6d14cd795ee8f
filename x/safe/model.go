package safe

import (
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/orm"
)

const (
	// BucketName is where wallets are stored.
	BucketName = "safe"

	// ContractKind is the contract registry kind of a wallet address.
	ContractKind = "safe"

	// To avoid burning CPU, this is the maximum number of owners allowed
	// to be part of a single wallet.
	maxOwners = 50
)

var _ orm.Model = (*Safe)(nil)

func (s *Safe) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Address", s.Address.Validate())
	errs = errors.Append(errs, validateOwners(s.Owners, s.Threshold))
	if s.Guard != nil {
		errs = errors.AppendField(errs, "Guard", s.Guard.Validate())
	}
	for i, m := range s.Modules {
		if err := m.Validate(); err != nil {
			errs = errors.Append(errs, errors.Field("Modules", err, "module %d", i))
		}
	}
	if s.Nonce < 0 {
		errs = errors.AppendField(errs, "Nonce", errors.ErrModel)
	}
	return errs
}

// validateOwners enforces owner and threshold boundaries. This check is done
// on the model and the creation message.
func validateOwners(owners []testament.Address, threshold uint32) error {
	switch n := len(owners); {
	case n == 0:
		return errors.Field("Owners", errors.ErrEmpty, "no owners")
	case n > maxOwners:
		return errors.Field("Owners", errors.ErrInput, "too many owners")
	}
	for i, o := range owners {
		if err := o.Validate(); err != nil {
			return errors.Field("Owners", err, "owner %d", i)
		}
		for _, prev := range owners[:i] {
			if prev.Equals(o) {
				return errors.Field("Owners", errors.ErrDuplicate, "owner %s", o)
			}
		}
	}
	if threshold == 0 || int(threshold) > len(owners) {
		return errors.Field("Threshold", errors.ErrInput, "must be within [1, %d]", len(owners))
	}
	return nil
}

// IsOwner returns true if given address is one of the wallet owners.
func (s *Safe) IsOwner(addr testament.Address) bool {
	for _, o := range s.Owners {
		if o.Equals(addr) {
			return true
		}
	}
	return false
}

// IsModuleEnabled returns true if given address is an enabled module.
func (s *Safe) IsModuleEnabled(module testament.Address) bool {
	for _, m := range s.Modules {
		if m.Equals(module) {
			return true
		}
	}
	return false
}

// NewBucket returns the wallet bucket.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Safe{})
}

// WalletAddress returns the address of the n-th created wallet.
func WalletAddress(n uint64) testament.Address {
	return testament.NewCondition("safe", "wallet", orm.EncodeSequence(n)).Address()
}
