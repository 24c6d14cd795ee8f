package router

import (
	"github.com/holiman/uint256"
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/crypto"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/orm"
	"github.com/iov-one/testament/x"
	"github.com/iov-one/testament/x/bank"
	"github.com/iov-one/testament/x/guard"
	"github.com/iov-one/testament/x/safe"
	"github.com/iov-one/testament/x/whitelist"
	"github.com/iov-one/testament/x/will"
)

// Controller keeps the registry of wills and drives their lifecycle.
type Controller struct {
	records  orm.ModelBucket
	counters orm.ModelBucket
	willSeq  orm.Sequence
	bank     bank.Controller
	wallets  *safe.Controller
	guards   *guard.Controller
	wills    *will.Controller
}

// NewController returns a router controller. Wills created by it accept
// state changes from the router Address only.
func NewController(b bank.Controller, wallets *safe.Controller, guards *guard.Controller, wl whitelist.Checker) *Controller {
	return &Controller{
		records:  NewRecordBucket(),
		counters: NewCountersBucket(),
		willSeq:  orm.NewSequence("willrec", "id"),
		bank:     b,
		wallets:  wallets,
		guards:   guards,
		wills:    will.NewController(Address, b, wl, wallets, guards),
	}
}

// Wills returns the controller of the wills deployed by this router.
func (c *Controller) Wills() *will.Controller {
	return c.wills
}

// Record returns the record of a will. It fails with ErrWillNotFound.
func (c *Controller) Record(db testament.ReadOnlyKVStore, willID uint64) (*WillRecord, error) {
	var r WillRecord
	if err := c.records.One(db, orm.EncodeSequence(willID), &r); err != nil {
		if errors.ErrNotFound.Is(err) {
			return nil, errors.Wrapf(ErrWillNotFound, "will %d", willID)
		}
		return nil, err
	}
	return &r, nil
}

func (c *Controller) saveRecord(db testament.KVStore, r *WillRecord) error {
	_, err := c.records.Put(db, orm.EncodeSequence(r.WillID), r)
	return err
}

// Counters returns the counters of an owner. An owner without wills has
// zero counters.
func (c *Controller) Counters(db testament.ReadOnlyKVStore, owner testament.Address) (*OwnerCounters, error) {
	var oc OwnerCounters
	switch err := c.counters.One(db, owner, &oc); {
	case err == nil:
		return &oc, nil
	case errors.ErrNotFound.Is(err):
		return &OwnerCounters{Owner: owner}, nil
	default:
		return nil, err
	}
}

func (c *Controller) saveCounters(db testament.KVStore, oc *OwnerCounters) error {
	_, err := c.counters.Put(db, oc.Owner, oc)
	return err
}

// WillsByOwner returns the records of all wills of an owner, deleted and
// triggered ones included.
func (c *Controller) WillsByOwner(db testament.ReadOnlyKVStore, owner testament.Address) ([]*WillRecord, error) {
	var records []*WillRecord
	if _, err := c.records.ByIndex(db, "owner", owner, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func template(kind will.Kind) string {
	if kind == will.Forwarding {
		return crypto.TemplateForwardingWill
	}
	return crypto.TemplateCustodyWill
}

// NextWillAddress predicts the address of the next will of given kind the
// owner creates.
func (c *Controller) NextWillAddress(db testament.ReadOnlyKVStore, owner testament.Address, kind will.Kind) (testament.Address, error) {
	oc, err := c.Counters(db, owner)
	if err != nil {
		return nil, err
	}
	return crypto.CreateAddress2(Address, owner, oc.Nonce, template(kind)), nil
}

// NextGuardAddress predicts the address of the guard created together with
// the next forwarding will of the owner.
func (c *Controller) NextGuardAddress(db testament.ReadOnlyKVStore, owner testament.Address) (testament.Address, error) {
	oc, err := c.Counters(db, owner)
	if err != nil {
		return nil, err
	}
	return crypto.CreateAddress2(Address, owner, oc.Nonce, crypto.TemplateGuard), nil
}

// CreateParams describe a will creation request.
type CreateParams struct {
	Kind  will.Kind
	Main  *will.MainConfig
	Extra *will.ExtraConfig
	// Safe is the wallet of a forwarding will.
	Safe testament.Address
	// Deposit is the native amount paid by the payer.
	Deposit *uint256.Int
}

// Create deploys a will. The payer covers the fee. A custody will is owned
// by the payer and receives the rest of the deposit. A forwarding will is
// owned by the wallet, which the payer must be an owner of, and the rest of
// the deposit stays with the payer. The caller must have checked that the
// wallet of a forwarding will authorized the creation.
func (c *Controller) Create(ctx testament.Context, db testament.KVStore, payer testament.Address, p CreateParams) (*WillRecord, error) {
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	now, err := testament.BlockUnixTime(ctx)
	if err != nil {
		return nil, err
	}

	owner := payer
	if p.Kind == will.Forwarding {
		owner = p.Safe
		if err := c.checkWallet(db, p.Safe, payer); err != nil {
			return nil, err
		}
	}

	counters, err := c.Counters(db, owner)
	if err != nil {
		return nil, err
	}
	if conf.WillLimit > 0 && counters.WillCount >= conf.WillLimit {
		return nil, errors.Wrapf(ErrWillLimitExceeded, "%s has %d wills", owner, counters.WillCount)
	}

	fee, err := bank.ParseAmount(conf.WillFee)
	if err != nil {
		return nil, err
	}
	deposit := p.Deposit
	if deposit == nil {
		deposit = new(uint256.Int)
	}
	if deposit.Lt(fee) {
		return nil, errors.Wrapf(will.ErrNotEnoughEther, "fee is %s, deposit %s", fee.Dec(), deposit.Dec())
	}
	funds, err := c.bank.Balance(db, bank.NativeAsset, payer)
	if err != nil {
		return nil, err
	}
	if funds.Lt(deposit) {
		return nil, errors.Wrapf(will.ErrNotEnoughEther, "deposit %s, balance %s", deposit.Dec(), funds.Dec())
	}

	id, err := c.willSeq.NextInt(db)
	if err != nil {
		return nil, err
	}
	rec := &WillRecord{
		WillID:      id,
		Owner:       owner,
		WillAddress: crypto.CreateAddress2(Address, owner, counters.Nonce, template(p.Kind)),
		Kind:        p.Kind,
		Status:      will.Active,
		CreatedAt:   int64(now),
	}
	if p.Kind == will.Forwarding {
		rec.GuardAddress = crypto.CreateAddress2(Address, owner, counters.Nonce, crypto.TemplateGuard)
		if _, err := c.guards.Create(ctx, db, rec.GuardAddress, p.Safe, rec.WillAddress); err != nil {
			return nil, errors.Wrap(err, "deploy guard")
		}
		if err := c.wallets.SetGuard(db, p.Safe, rec.GuardAddress); err != nil {
			return nil, err
		}
		if err := c.wallets.EnableModule(db, p.Safe, rec.WillAddress); err != nil {
			return nil, err
		}
	}

	_, err = c.wills.Initialize(ctx, db, Address, will.InitParams{
		WillID:           id,
		Kind:             p.Kind,
		Owner:            owner,
		Address:          rec.WillAddress,
		Safe:             p.Safe,
		Guard:            rec.GuardAddress,
		Main:             p.Main,
		Extra:            p.Extra,
		BeneficiaryLimit: conf.BeneficiaryLimit,
	})
	if err != nil {
		return nil, err
	}
	if err := c.saveRecord(db, rec); err != nil {
		return nil, err
	}
	counters.Nonce++
	counters.WillCount++
	if err := c.saveCounters(db, counters); err != nil {
		return nil, err
	}

	if !fee.IsZero() && conf.FeeReceiver != nil {
		if err := c.bank.Transfer(ctx, db, bank.NativeAsset, payer, conf.FeeReceiver, fee); err != nil {
			return nil, errors.Wrap(err, "will fee")
		}
	}
	if p.Kind == will.Custody {
		rest := new(uint256.Int).Sub(deposit, fee)
		if err := c.bank.Transfer(ctx, db, bank.NativeAsset, payer, rec.WillAddress, rest); err != nil {
			return nil, errors.Wrap(err, "deposit")
		}
	}

	testament.GetLogger(ctx).Info("will created",
		"willId", rec.WillID, "owner", rec.Owner, "kind", rec.Kind, "address", rec.WillAddress)
	return rec, nil
}

// checkWallet requires the payer to own the wallet and the wallet to have
// neither a guard nor a module.
func (c *Controller) checkWallet(db testament.ReadOnlyKVStore, wallet, payer testament.Address) error {
	w, err := c.wallets.Get(db, wallet)
	if err != nil {
		return err
	}
	if !w.IsOwner(payer) {
		return errors.Wrapf(ErrSignerIsNotOwnerOfSafeWallet, "%s", payer)
	}
	if w.Guard != nil || len(w.Modules) != 0 {
		return errors.Wrapf(ErrExistedGuardInSafeWallet, "wallet %s", wallet)
	}
	return nil
}

// authorize loads the record of an active will and requires its owner to
// have authorized the transaction. The owner of a forwarding will is its
// wallet, which authorizes through an exec header.
func (c *Controller) authorize(ctx testament.Context, db testament.ReadOnlyKVStore, auth x.Authenticator, willID uint64) (*WillRecord, error) {
	rec, err := c.Record(db, willID)
	if err != nil {
		return nil, err
	}
	if !auth.HasAddress(ctx, rec.Owner) {
		return nil, errors.Wrapf(will.ErrOnlyOwner, "will %d", willID)
	}
	if rec.Status != will.Active {
		return nil, errors.Wrapf(will.ErrWillNotActive, "will %d is %s", willID, rec.Status)
	}
	return rec, nil
}

// lock guards operations that transfer value out of a will.
func lock(db testament.KVStore, rec *WillRecord) (func(), error) {
	return x.Lock(db, PackageName, orm.EncodeSequence(rec.WillID))
}

// Delete marks the will deleted, refunds a custody will and detaches a
// forwarding will from its wallet.
func (c *Controller) Delete(ctx testament.Context, db testament.KVStore, rec *WillRecord) (*uint256.Int, error) {
	release, err := lock(db, rec)
	if err != nil {
		return nil, err
	}
	defer release()

	rec.Status = will.Deleted
	if err := c.saveRecord(db, rec); err != nil {
		return nil, err
	}
	counters, err := c.Counters(db, rec.Owner)
	if err != nil {
		return nil, err
	}
	if counters.WillCount > 0 {
		counters.WillCount--
	}
	if err := c.saveCounters(db, counters); err != nil {
		return nil, err
	}
	if rec.Kind == will.Forwarding {
		if err := c.detach(db, rec); err != nil {
			return nil, err
		}
	}
	refund, err := c.wills.Delete(ctx, db, Address, rec.WillAddress)
	if err != nil {
		return nil, err
	}
	testament.GetLogger(ctx).Info("will deleted", "willId", rec.WillID, "owner", rec.Owner, "kind", rec.Kind)
	return refund, nil
}

// detach removes the guard and the module of a deleted forwarding will, if
// the wallet still has them.
func (c *Controller) detach(db testament.KVStore, rec *WillRecord) error {
	w, err := c.wallets.Get(db, rec.Owner)
	if err != nil {
		return err
	}
	if w.Guard.Equals(rec.GuardAddress) {
		if err := c.wallets.SetGuard(db, w.Address, nil); err != nil {
			return err
		}
	}
	if err := c.guards.Remove(db, rec.GuardAddress); err != nil && !errors.ErrNotFound.Is(err) {
		return err
	}
	if w.IsModuleEnabled(rec.WillAddress) {
		return c.wallets.DisableModule(db, w.Address, rec.WillAddress)
	}
	return nil
}

// Withdraw sends native funds held by the will to its owner.
func (c *Controller) Withdraw(ctx testament.Context, db testament.KVStore, rec *WillRecord, amount *uint256.Int) error {
	release, err := lock(db, rec)
	if err != nil {
		return err
	}
	defer release()
	return c.wills.Withdraw(ctx, db, Address, rec.WillAddress, amount)
}

// Activate evaluates an activation request of a beneficiary.
func (c *Controller) Activate(ctx testament.Context, db testament.KVStore, willID uint64, beneficiary testament.Address, signature []byte) (*WillRecord, *will.Activation, error) {
	conf, err := loadConf(db)
	if err != nil {
		return nil, nil, err
	}
	rec, err := c.Record(db, willID)
	if err != nil {
		return nil, nil, err
	}
	release, err := lock(db, rec)
	if err != nil {
		return nil, nil, err
	}
	defer release()

	if rec.Status != will.Active {
		return nil, nil, errors.Wrapf(will.ErrWillNotActive, "will %d is %s", willID, rec.Status)
	}
	// The record is marked before the payout moves any value.
	markTriggered := func() error {
		rec.Status = will.Triggered
		return c.saveRecord(db, rec)
	}
	res, err := c.wills.ActivateWithHook(ctx, db, Address, rec.WillAddress, beneficiary, signature, conf.ChainID, markTriggered)
	if err != nil {
		return nil, nil, err
	}
	return rec, res, nil
}

// CheckActiveWill reports whether an activation call by a beneficiary would
// trigger the will now.
func (c *Controller) CheckActiveWill(ctx testament.Context, db testament.ReadOnlyKVStore, willID uint64) (bool, error) {
	rec, err := c.Record(db, willID)
	if err != nil {
		return false, err
	}
	if rec.Status != will.Active {
		return false, nil
	}
	return c.wills.CanActivate(ctx, db, rec.WillAddress)
}
