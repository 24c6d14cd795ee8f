package guard

import (
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/orm"
)

const (
	// BucketName is where guards are stored.
	BucketName = "guard"

	// ContractKind is the contract registry kind of a guard address.
	ContractKind = "guard"
)

var _ orm.Model = (*Guard)(nil)

func (g *Guard) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Address", g.Address.Validate())
	errs = errors.AppendField(errs, "Safe", g.Safe.Validate())
	errs = errors.AppendField(errs, "Will", g.Will.Validate())
	if g.LastTimestampTxs < 0 {
		errs = errors.AppendField(errs, "LastTimestampTxs", errors.ErrModel)
	}
	return errs
}

// LastActivity returns the time of the last wallet transaction.
func (g *Guard) LastActivity() testament.UnixTime {
	return testament.UnixTime(g.LastTimestampTxs)
}

// NewBucket returns the guard bucket.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Guard{},
		orm.WithIndex("safe", safeIndex, true))
}

// A wallet can have only one guard.
func safeIndex(m orm.Model) ([]byte, error) {
	g, ok := m.(*Guard)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	return g.Safe, nil
}
