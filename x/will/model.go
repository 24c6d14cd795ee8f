package will

import (
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/orm"
	"github.com/samber/lo"
)

// BucketName is where wills are stored.
const BucketName = "will"

// ContractKind is the contract registry kind of a will address.
const ContractKind = "will"

// Valid returns true for a known will kind.
func (k Kind) Valid() bool {
	return k == Custody || k == Forwarding
}

func (k Kind) String() string {
	switch k {
	case Custody:
		return "custody"
	case Forwarding:
		return "forwarding"
	}
	return "invalid"
}

func (s Status) String() string {
	switch s {
	case Active:
		return "active"
	case Deleted:
		return "deleted"
	case Triggered:
		return "triggered"
	}
	return "invalid"
}

var _ orm.Model = (*Will)(nil)

func (w *Will) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Owner", w.Owner.Validate())
	errs = errors.AppendField(errs, "Address", w.Address.Validate())
	errs = errors.AppendField(errs, "Router", w.Router.Validate())
	if !w.Kind.Valid() {
		errs = errors.AppendField(errs, "Kind", errors.ErrModel)
	}
	if w.Kind == Forwarding {
		errs = errors.AppendField(errs, "Safe", w.Safe.Validate())
		errs = errors.AppendField(errs, "Guard", w.Guard.Validate())
	}
	switch w.Status {
	case Active, Deleted, Triggered:
	default:
		errs = errors.AppendField(errs, "Status", errors.ErrModel)
	}
	for i, e := range w.Entries {
		if err := e.Validate(); err != nil {
			errs = errors.Append(errs, errors.Field("Entries", err, "entry %d", i))
		}
	}
	if w.LackOfOutgoingTxRange < 0 {
		errs = errors.AppendField(errs, "LackOfOutgoingTxRange", errors.ErrModel)
	}
	return errs
}

func (e *DistributionEntry) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Asset", e.Asset.Validate())
	errs = errors.AppendField(errs, "Beneficiary", e.Beneficiary.Validate())
	if e.Percent == 0 || e.Percent > 100 {
		errs = errors.AppendField(errs, "Percent", ErrInvalidPercent)
	}
	return errs
}

// Percent returns the percent of the asset given beneficiary receives.
func (w *Will) Percent(asset, beneficiary testament.Address) uint32 {
	e, ok := lo.Find(w.Entries, func(e *DistributionEntry) bool {
		return e.Asset.Equals(asset) && e.Beneficiary.Equals(beneficiary)
	})
	if !ok {
		return 0
	}
	return e.Percent
}

// IsBeneficiary returns true if addr receives a part of any asset.
func (w *Will) IsBeneficiary(addr testament.Address) bool {
	return containsAddress(w.Beneficiaries, addr)
}

// HasSigned returns true if addr attestation was recorded.
func (w *Will) HasSigned(addr testament.Address) bool {
	return containsAddress(w.Signers, addr)
}

// Source is the address the will pays out from.
func (w *Will) Source() testament.Address {
	if w.Kind == Forwarding {
		return w.Safe
	}
	return w.Address
}

// Config returns the current configuration of the will, one distribution
// row per beneficiary.
func (w *Will) Config() (*MainConfig, *ExtraConfig) {
	rows := lo.Map(w.Beneficiaries, func(b testament.Address, _ int) *Distribution {
		row := &Distribution{User: b}
		for _, asset := range w.Assets {
			if p := w.Percent(asset, b); p > 0 {
				row.Assets = append(row.Assets, asset)
				row.Percents = append(row.Percents, p)
			}
		}
		return row
	})
	names := lo.Times(len(rows), func(i int) string {
		if i < len(w.Nicknames) {
			return w.Nicknames[i]
		}
		return ""
	})
	main := &MainConfig{Name: w.Name, Note: w.Note, Nicknames: names, Distributions: rows}
	extra := &ExtraConfig{MinRequiredSignatures: w.MinRequiredSignatures, LackOfOutgoingTxRange: w.LackOfOutgoingTxRange}
	return main, extra
}

func containsAddress(list []testament.Address, addr testament.Address) bool {
	return lo.ContainsBy(list, func(a testament.Address) bool { return a.Equals(addr) })
}

func addressKey(a testament.Address) string {
	return string(a)
}

// NewBucket returns the will bucket. Wills are indexed by owner.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Will{},
		orm.WithIndex("owner", ownerIndex, false),
	)
}

func ownerIndex(m orm.Model) ([]byte, error) {
	w, ok := m.(*Will)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	return w.Owner, nil
}

// RegisterQuery exposes wills under "/wills" and "/wills/owner".
func RegisterQuery(qr testament.QueryRouter) {
	NewBucket().Register("wills", qr)
}
