package router

import (
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/gconf"
	"github.com/iov-one/testament/orm"
	"github.com/iov-one/testament/x/bank"
	"github.com/iov-one/testament/x/will"
	"github.com/samber/lo"
)

// PackageName is the configuration and route prefix of this extension.
const PackageName = "router"

// Address is the identity of the router. It deploys wills and guards and is
// the only caller wills accept state changes from.
var Address = testament.NewCondition("router", "deployer", []byte("will")).Address()

var _ gconf.OwnedConfig = (*Configuration)(nil)

func (c *Configuration) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Owner", c.Owner.Validate())
	if _, err := bank.ParseAmount(c.WillFee); err != nil {
		errs = errors.AppendField(errs, "WillFee", err)
	}
	if c.FeeReceiver != nil {
		errs = errors.AppendField(errs, "FeeReceiver", c.FeeReceiver.Validate())
	}
	for i, o := range c.Operators {
		if err := o.Validate(); err != nil {
			errs = errors.Append(errs, errors.Field("Operators", err, "operator %d", i))
		}
	}
	return errs
}

func (c *Configuration) GetOwner() testament.Address {
	return c.Owner
}

// IsOperator returns true if addr can change the fee and the limits.
func (c *Configuration) IsOperator(addr testament.Address) bool {
	return lo.ContainsBy(c.Operators, func(o testament.Address) bool { return o.Equals(addr) })
}

func loadConf(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, PackageName, &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}

var _ orm.Model = (*WillRecord)(nil)

func (r *WillRecord) Validate() error {
	var errs error
	if r.WillID == 0 {
		errs = errors.AppendField(errs, "WillID", errors.ErrEmpty)
	}
	errs = errors.AppendField(errs, "Owner", r.Owner.Validate())
	errs = errors.AppendField(errs, "WillAddress", r.WillAddress.Validate())
	if r.Kind == will.Forwarding {
		errs = errors.AppendField(errs, "GuardAddress", r.GuardAddress.Validate())
	} else if r.Kind != will.Custody {
		errs = errors.AppendField(errs, "Kind", errors.ErrModel)
	}
	switch r.Status {
	case will.Active, will.Deleted, will.Triggered:
	default:
		errs = errors.AppendField(errs, "Status", errors.ErrModel)
	}
	return errs
}

// NewRecordBucket returns the bucket of will records, keyed by will id and
// indexed by owner.
func NewRecordBucket() orm.ModelBucket {
	return orm.NewModelBucket("willrec", &WillRecord{},
		orm.WithIndex("owner", recordOwner, false),
	)
}

func recordOwner(m orm.Model) ([]byte, error) {
	r, ok := m.(*WillRecord)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	return r.Owner, nil
}

var _ orm.Model = (*OwnerCounters)(nil)

func (c *OwnerCounters) Validate() error {
	return errors.AppendField(nil, "Owner", c.Owner.Validate())
}

// NewCountersBucket returns the bucket of per owner counters.
func NewCountersBucket() orm.ModelBucket {
	return orm.NewModelBucket("ownercnt", &OwnerCounters{})
}
