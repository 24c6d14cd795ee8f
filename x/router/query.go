package router

import (
	"context"

	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/orm"
	"github.com/iov-one/testament/x/will"
)

// RegisterQuery exposes will records and owner counters, together with the
// address prediction and activation check queries of the controller.
func (c *Controller) RegisterQuery(qr testament.QueryRouter) {
	c.records.Register("willrecords", qr)
	c.counters.Register("ownercounters", qr)
	qr.Register("/router/nextwill", testament.QueryFunc(c.queryNextWill))
	qr.Register("/router/nextguard", testament.QueryFunc(c.queryNextGuard))
	qr.Register("/router/active", testament.QueryFunc(c.queryActive))
}

// queryNextWill expects the owner address followed by a single kind byte.
func (c *Controller) queryNextWill(db testament.ReadOnlyKVStore, mod string, data []byte) ([]testament.Model, error) {
	if len(data) != testament.AddressLength+1 {
		return nil, errors.Wrap(errors.ErrInput, "owner address and kind expected")
	}
	owner := testament.Address(data[:testament.AddressLength])
	kind := will.Kind(data[testament.AddressLength])
	if !kind.Valid() {
		return nil, errors.Wrapf(errors.ErrInput, "will kind %d", kind)
	}
	addr, err := c.NextWillAddress(db, owner, kind)
	if err != nil {
		return nil, err
	}
	return []testament.Model{testament.Pair(data, addr)}, nil
}

func (c *Controller) queryNextGuard(db testament.ReadOnlyKVStore, mod string, data []byte) ([]testament.Model, error) {
	owner := testament.Address(data)
	if err := owner.Validate(); err != nil {
		return nil, err
	}
	addr, err := c.NextGuardAddress(db, owner)
	if err != nil {
		return nil, err
	}
	return []testament.Model{testament.Pair(data, addr)}, nil
}

// queryActive expects the encoded will id followed by the encoded unix time
// the check is made at. The value is a single byte, 1 if the will can be
// activated.
func (c *Controller) queryActive(db testament.ReadOnlyKVStore, mod string, data []byte) ([]testament.Model, error) {
	if len(data) != 16 {
		return nil, errors.Wrap(errors.ErrInput, "will id and time expected")
	}
	id, err := orm.DecodeSequence(data[:8])
	if err != nil {
		return nil, err
	}
	at, err := orm.DecodeSequence(data[8:])
	if err != nil {
		return nil, err
	}
	ctx := testament.WithBlockTime(context.Background(), testament.UnixTime(at).Time())
	ok, err := c.CheckActiveWill(ctx, db, id)
	if err != nil {
		return nil, err
	}
	value := []byte{0}
	if ok {
		value[0] = 1
	}
	return []testament.Model{testament.Pair(data[:8], value)}, nil
}
