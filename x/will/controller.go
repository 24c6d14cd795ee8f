package will

import (
	"github.com/holiman/uint256"
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/orm"
	"github.com/iov-one/testament/x/bank"
	"github.com/iov-one/testament/x/whitelist"
	"github.com/samber/lo"
)

// Wallets is the multisig wallet functionality a forwarding will relies on.
type Wallets interface {
	IsOwner(db testament.ReadOnlyKVStore, wallet, addr testament.Address) (bool, error)
	Guard(db testament.ReadOnlyKVStore, wallet testament.Address) (testament.Address, error)
	IsModuleEnabled(db testament.ReadOnlyKVStore, wallet, module testament.Address) (bool, error)
	ExecFromModule(ctx testament.Context, db testament.KVStore, wallet, module, asset, to testament.Address, amount *uint256.Int) error
}

// ActivityTracker returns the last activity time recorded by a guard.
type ActivityTracker interface {
	LastTimestamp(db testament.ReadOnlyKVStore, guard testament.Address) (testament.UnixTime, error)
}

// Controller manages wills. Every state change must be requested by the
// router the controller was created for.
type Controller struct {
	bucket    orm.ModelBucket
	router    testament.Address
	bank      bank.Controller
	whitelist whitelist.Checker
	wallets   Wallets
	guards    ActivityTracker
}

// NewController returns a will controller that accepts state changes from
// given router address only.
func NewController(router testament.Address, b bank.Controller, wl whitelist.Checker, wallets Wallets, guards ActivityTracker) *Controller {
	return &Controller{
		bucket:    NewBucket(),
		router:    router,
		bank:      b,
		whitelist: wl,
		wallets:   wallets,
		guards:    guards,
	}
}

// InitParams describe a will being deployed.
type InitParams struct {
	WillID  uint64
	Kind    Kind
	Owner   testament.Address
	Address testament.Address
	// Safe and Guard are required for forwarding wills.
	Safe             testament.Address
	Guard            testament.Address
	Main             *MainConfig
	Extra            *ExtraConfig
	BeneficiaryLimit uint32
}

// Initialize sets up a will. It can be called only once per address.
func (c *Controller) Initialize(ctx testament.Context, db testament.KVStore, caller testament.Address, p InitParams) (*Will, error) {
	if !caller.Equals(c.router) {
		return nil, errors.Wrapf(ErrOnlyRouter, "caller %s", caller)
	}
	var prev Will
	switch err := c.bucket.One(db, p.Address, &prev); {
	case err == nil:
		if prev.Initialized {
			return nil, errors.Wrapf(ErrWillAlreadyInitialized, "will %s", p.Address)
		}
	case !errors.ErrNotFound.Is(err):
		return nil, err
	}
	if p.Main == nil {
		return nil, errors.Wrap(ErrEmptyArray, "no configuration")
	}
	if len(p.Main.Nicknames) != len(p.Main.Distributions) {
		return nil, errors.Wrapf(ErrTwoArraysLengthMismatch, "%d nicknames, %d distributions", len(p.Main.Nicknames), len(p.Main.Distributions))
	}
	now, err := testament.BlockUnixTime(ctx)
	if err != nil {
		return nil, err
	}

	w := &Will{
		WillID:                p.WillID,
		Kind:                  p.Kind,
		Owner:                 p.Owner,
		Address:               p.Address,
		Router:                caller,
		Safe:                  p.Safe,
		Guard:                 p.Guard,
		Status:                Active,
		Initialized:           true,
		Name:                  p.Main.Name,
		Note:                  p.Main.Note,
		Nicknames:             p.Main.Nicknames,
		MinRequiredSignatures: p.Extra.GetMinRequiredSignatures(),
		LackOfOutgoingTxRange: p.Extra.GetLackOfOutgoingTxRange(),
		LastActivity:          int64(now),
		CreatedAt:             int64(now),
	}
	if !w.Kind.Valid() {
		return nil, errors.Wrapf(errors.ErrInput, "will kind %d", p.Kind)
	}
	pl, err := c.buildPlan(db, w, p.Main.Distributions)
	if err != nil {
		return nil, err
	}
	if err := checkExtra(p.Extra, len(pl.beneficiaries), p.BeneficiaryLimit); err != nil {
		return nil, err
	}
	pl.apply(w)
	if err := c.save(db, w); err != nil {
		return nil, err
	}
	if err := c.bank.RegisterContract(db, w.Address, ContractKind); err != nil {
		return nil, errors.Wrap(err, "register contract")
	}
	return w, nil
}

// Get returns the will stored under given address.
func (c *Controller) Get(db testament.ReadOnlyKVStore, addr testament.Address) (*Will, error) {
	var w Will
	if err := c.bucket.One(db, addr, &w); err != nil {
		return nil, errors.Wrapf(err, "will %s", addr)
	}
	return &w, nil
}

func (c *Controller) save(db testament.KVStore, w *Will) error {
	if _, err := c.bucket.Put(db, w.Address, w); err != nil {
		return errors.Wrap(err, "cannot store will")
	}
	return nil
}

// load returns an active will after checking that the caller is the router
// of that will.
func (c *Controller) load(db testament.ReadOnlyKVStore, caller, addr testament.Address) (*Will, error) {
	w, err := c.Get(db, addr)
	if err != nil {
		return nil, err
	}
	if !caller.Equals(w.Router) {
		return nil, errors.Wrapf(ErrOnlyRouter, "caller %s", caller)
	}
	if w.Status != Active {
		return nil, errors.Wrapf(ErrWillNotActive, "will %d is %s", w.WillID, w.Status)
	}
	return w, nil
}

// loadLinked is load that also requires a forwarding will to still be the
// guard owner and an enabled module of its wallet.
func (c *Controller) loadLinked(db testament.ReadOnlyKVStore, caller, addr testament.Address) (*Will, error) {
	w, err := c.load(db, caller, addr)
	if err != nil {
		return nil, err
	}
	if err := c.CheckLinkage(db, w); err != nil {
		return nil, err
	}
	return w, nil
}

// CheckLinkage reads the wallet of a forwarding will and fails if the will
// guard was replaced or the will module disabled. Custody wills always pass.
func (c *Controller) CheckLinkage(db testament.ReadOnlyKVStore, w *Will) error {
	if w.Kind != Forwarding {
		return nil
	}
	guard, err := c.wallets.Guard(db, w.Safe)
	if err != nil {
		return err
	}
	if !w.Guard.Equals(guard) {
		return errors.Wrapf(ErrGuardSafeWalletInvalid, "wallet %s guard is %s", w.Safe, guard)
	}
	enabled, err := c.wallets.IsModuleEnabled(db, w.Safe, w.Address)
	if err != nil {
		return err
	}
	if !enabled {
		return errors.Wrapf(ErrModuleSafeWalletInvalid, "will %s not enabled on wallet %s", w.Address, w.Safe)
	}
	return nil
}

// touch records an owner action, refreshing the custody dormancy reference.
func touch(ctx testament.Context, w *Will) error {
	now, err := testament.BlockUnixTime(ctx)
	if err != nil {
		return err
	}
	w.LastActivity = int64(now)
	return nil
}

// SetDistribution replaces the distribution plan and the signature
// threshold. Name, note and dormancy window are kept.
func (c *Controller) SetDistribution(ctx testament.Context, db testament.KVStore, caller, addr testament.Address, nicknames []string, rows []*Distribution, minSignatures, beneficiaryLimit uint32) (*Will, error) {
	w, err := c.loadLinked(db, caller, addr)
	if err != nil {
		return nil, err
	}
	main := &MainConfig{Name: w.Name, Note: w.Note, Nicknames: nicknames, Distributions: rows}
	extra := &ExtraConfig{MinRequiredSignatures: minSignatures, LackOfOutgoingTxRange: w.LackOfOutgoingTxRange}
	return c.configure(ctx, db, w, main, extra, beneficiaryLimit)
}

// SetBeneficiaries splits every tracked asset equally between given
// beneficiaries. The native asset is used when the will tracks none.
func (c *Controller) SetBeneficiaries(ctx testament.Context, db testament.KVStore, caller, addr testament.Address, nicknames []string, beneficiaries []testament.Address, minSignatures, beneficiaryLimit uint32) (*Will, error) {
	if len(nicknames) != len(beneficiaries) {
		return nil, errors.Wrapf(ErrTwoArraysLengthMismatch, "%d nicknames, %d beneficiaries", len(nicknames), len(beneficiaries))
	}
	if len(beneficiaries) == 0 {
		return nil, errors.Wrap(ErrEmptyArray, "no beneficiaries")
	}
	w, err := c.loadLinked(db, caller, addr)
	if err != nil {
		return nil, err
	}

	// Repeated beneficiaries collapse, keeping the first nickname.
	var (
		users []testament.Address
		names []string
	)
	for i, b := range beneficiaries {
		if containsAddress(users, b) {
			continue
		}
		users = append(users, b)
		names = append(names, nicknames[i])
	}
	assets := w.Assets
	if len(assets) == 0 {
		assets = []testament.Address{bank.NativeAsset}
	}
	main := &MainConfig{Name: w.Name, Note: w.Note, Nicknames: names, Distributions: EqualSplit(users, assets)}
	extra := &ExtraConfig{MinRequiredSignatures: minSignatures, LackOfOutgoingTxRange: w.LackOfOutgoingTxRange}
	return c.configure(ctx, db, w, main, extra, beneficiaryLimit)
}

// SetConfig replaces the whole configuration of the will.
func (c *Controller) SetConfig(ctx testament.Context, db testament.KVStore, caller, addr testament.Address, main *MainConfig, extra *ExtraConfig, beneficiaryLimit uint32) (*Will, error) {
	w, err := c.loadLinked(db, caller, addr)
	if err != nil {
		return nil, err
	}
	if main == nil {
		return nil, errors.Wrap(ErrEmptyArray, "no configuration")
	}
	return c.configure(ctx, db, w, main, extra, beneficiaryLimit)
}

func (c *Controller) configure(ctx testament.Context, db testament.KVStore, w *Will, main *MainConfig, extra *ExtraConfig, beneficiaryLimit uint32) (*Will, error) {
	if len(main.Nicknames) != len(main.Distributions) {
		return nil, errors.Wrapf(ErrTwoArraysLengthMismatch, "%d nicknames, %d distributions", len(main.Nicknames), len(main.Distributions))
	}
	pl, err := c.buildPlan(db, w, main.Distributions)
	if err != nil {
		return nil, err
	}
	if err := checkExtra(extra, len(pl.beneficiaries), beneficiaryLimit); err != nil {
		return nil, err
	}
	pl.apply(w)
	w.Name = main.Name
	w.Note = main.Note
	w.Nicknames = main.Nicknames
	w.MinRequiredSignatures = extra.MinRequiredSignatures
	w.LackOfOutgoingTxRange = extra.LackOfOutgoingTxRange
	if err := touch(ctx, w); err != nil {
		return nil, err
	}
	return w, c.save(db, w)
}

// SetActivationTrigger changes the dormancy window, in seconds.
func (c *Controller) SetActivationTrigger(ctx testament.Context, db testament.KVStore, caller, addr testament.Address, lackOfOutgoingTxRange int64) (*Will, error) {
	w, err := c.loadLinked(db, caller, addr)
	if err != nil {
		return nil, err
	}
	if lackOfOutgoingTxRange <= 0 {
		return nil, errors.Wrap(ErrActivationTriggerInvalid, "dormancy window must be positive")
	}
	w.LackOfOutgoingTxRange = lackOfOutgoingTxRange
	if err := touch(ctx, w); err != nil {
		return nil, err
	}
	return w, c.save(db, w)
}

// SetNameNote changes the descriptive fields of the will.
func (c *Controller) SetNameNote(ctx testament.Context, db testament.KVStore, caller, addr testament.Address, name, note string) (*Will, error) {
	w, err := c.loadLinked(db, caller, addr)
	if err != nil {
		return nil, err
	}
	w.Name = name
	w.Note = note
	if err := touch(ctx, w); err != nil {
		return nil, err
	}
	return w, c.save(db, w)
}

// Delete marks the will deleted and clears its plan. The native balance of
// a custody will is refunded to the owner and returned.
func (c *Controller) Delete(ctx testament.Context, db testament.KVStore, caller, addr testament.Address) (*uint256.Int, error) {
	w, err := c.load(db, caller, addr)
	if err != nil {
		return nil, err
	}
	w.Status = Deleted
	w.Entries = nil
	w.Beneficiaries = nil
	w.Assets = nil
	w.Nicknames = nil
	w.Signers = nil
	if err := c.save(db, w); err != nil {
		return nil, err
	}

	refund := new(uint256.Int)
	if w.Kind != Custody {
		return refund, nil
	}
	refund, err = c.bank.Balance(db, bank.NativeAsset, w.Address)
	if err != nil {
		return nil, err
	}
	if err := c.bank.Transfer(ctx, db, bank.NativeAsset, w.Address, w.Owner, refund); err != nil {
		return nil, errors.Wrap(err, "refund")
	}
	return refund, nil
}

// Withdraw sends an amount of the native balance held by the will to its
// owner. The will stays active.
func (c *Controller) Withdraw(ctx testament.Context, db testament.KVStore, caller, addr testament.Address, amount *uint256.Int) error {
	w, err := c.load(db, caller, addr)
	if err != nil {
		return err
	}
	balance, err := c.bank.Balance(db, bank.NativeAsset, w.Address)
	if err != nil {
		return err
	}
	if balance.Lt(amount) {
		return errors.Wrapf(ErrNotEnoughEther, "balance %s, requested %s", balance.Dec(), amount.Dec())
	}
	if err := touch(ctx, w); err != nil {
		return err
	}
	if err := c.save(db, w); err != nil {
		return err
	}
	return c.bank.Transfer(ctx, db, bank.NativeAsset, w.Address, w.Owner, amount)
}

// Beneficiaries returns the beneficiaries in configuration order.
func (c *Controller) Beneficiaries(db testament.ReadOnlyKVStore, addr testament.Address) ([]testament.Address, error) {
	w, err := c.Get(db, addr)
	if err != nil {
		return nil, err
	}
	return w.Beneficiaries, nil
}

// Assets returns the distributed assets in configuration order.
func (c *Controller) Assets(db testament.ReadOnlyKVStore, addr testament.Address) ([]testament.Address, error) {
	w, err := c.Get(db, addr)
	if err != nil {
		return nil, err
	}
	return w.Assets, nil
}

// Info returns the identifier, owner and status of the will.
func (c *Controller) Info(db testament.ReadOnlyKVStore, addr testament.Address) (uint64, testament.Address, Status, error) {
	w, err := c.Get(db, addr)
	if err != nil {
		return 0, nil, StatusInvalid, err
	}
	return w.WillID, w.Owner, w.Status, nil
}

// Distribution returns the percent of the asset the beneficiary receives.
func (c *Controller) Distribution(db testament.ReadOnlyKVStore, addr, asset, beneficiary testament.Address) (uint32, error) {
	w, err := c.Get(db, addr)
	if err != nil {
		return 0, err
	}
	return w.Percent(asset, beneficiary), nil
}

// ActivationTrigger returns the dormancy window in seconds.
func (c *Controller) ActivationTrigger(db testament.ReadOnlyKVStore, addr testament.Address) (int64, error) {
	w, err := c.Get(db, addr)
	if err != nil {
		return 0, err
	}
	return w.LackOfOutgoingTxRange, nil
}

// MinRequiredSignatures returns the attestation quorum.
func (c *Controller) MinRequiredSignatures(db testament.ReadOnlyKVStore, addr testament.Address) (uint32, error) {
	w, err := c.Get(db, addr)
	if err != nil {
		return 0, err
	}
	return w.MinRequiredSignatures, nil
}

// Signers returns the beneficiaries whose attestation was recorded.
func (c *Controller) Signers(db testament.ReadOnlyKVStore, addr testament.Address) ([]testament.Address, error) {
	w, err := c.Get(db, addr)
	if err != nil {
		return nil, err
	}
	return lo.Map(w.Signers, func(a testament.Address, _ int) testament.Address { return a.Clone() }), nil
}
