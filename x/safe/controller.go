package safe

import (
	"github.com/holiman/uint256"
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/orm"
	"github.com/iov-one/testament/x/bank"
)

// TransactionGuard is notified about every transaction executed by a wallet
// the guard is attached to. Returning an error aborts the transaction.
type TransactionGuard interface {
	CheckTransaction(ctx testament.Context, db testament.KVStore, wallet, guard testament.Address, op Operation) error
	CheckAfterExecution(ctx testament.Context, db testament.KVStore, wallet, guard testament.Address, success bool) error
	// Watches returns true if guard exists and was deployed for wallet.
	Watches(db testament.ReadOnlyKVStore, wallet, guard testament.Address) (bool, error)
}

// Controller gives other extensions access to wallets.
type Controller struct {
	bucket orm.ModelBucket
	seq    orm.Sequence
	bank   bank.Controller
}

// NewController returns a wallet controller moving funds with given bank.
func NewController(b bank.Controller) *Controller {
	return &Controller{
		bucket: NewBucket(),
		seq:    orm.NewSequence(BucketName, "addr"),
		bank:   b,
	}
}

// Create stores a new wallet and registers its address as a contract.
func (c *Controller) Create(db testament.KVStore, owners []testament.Address, threshold uint32) (*Safe, error) {
	n, err := c.seq.NextInt(db)
	if err != nil {
		return nil, err
	}
	s := Safe{
		Address:   WalletAddress(n),
		Owners:    owners,
		Threshold: threshold,
	}
	if _, err := c.bucket.Put(db, s.Address, &s); err != nil {
		return nil, errors.Wrap(err, "cannot store wallet")
	}
	if err := c.bank.RegisterContract(db, s.Address, ContractKind); err != nil {
		return nil, errors.Wrap(err, "register contract")
	}
	return &s, nil
}

// Get returns the wallet stored under given address.
func (c *Controller) Get(db testament.ReadOnlyKVStore, wallet testament.Address) (*Safe, error) {
	var s Safe
	if err := c.bucket.One(db, wallet, &s); err != nil {
		return nil, errors.Wrap(err, "wallet")
	}
	return &s, nil
}

func (c *Controller) save(db testament.KVStore, s *Safe) error {
	_, err := c.bucket.Put(db, s.Address, s)
	return err
}

// Owners returns the current owners of the wallet.
func (c *Controller) Owners(db testament.ReadOnlyKVStore, wallet testament.Address) ([]testament.Address, error) {
	s, err := c.Get(db, wallet)
	if err != nil {
		return nil, err
	}
	return s.Owners, nil
}

// Threshold returns the number of owner signatures required by the wallet.
func (c *Controller) Threshold(db testament.ReadOnlyKVStore, wallet testament.Address) (uint32, error) {
	s, err := c.Get(db, wallet)
	if err != nil {
		return 0, err
	}
	return s.Threshold, nil
}

// IsOwner returns true if addr is an owner of the wallet.
func (c *Controller) IsOwner(db testament.ReadOnlyKVStore, wallet, addr testament.Address) (bool, error) {
	s, err := c.Get(db, wallet)
	if err != nil {
		return false, err
	}
	return s.IsOwner(addr), nil
}

// Guard returns the wallet guard, nil if none is set.
func (c *Controller) Guard(db testament.ReadOnlyKVStore, wallet testament.Address) (testament.Address, error) {
	s, err := c.Get(db, wallet)
	if err != nil {
		return nil, err
	}
	return s.Guard, nil
}

// IsModuleEnabled returns true if the module is enabled on the wallet.
func (c *Controller) IsModuleEnabled(db testament.ReadOnlyKVStore, wallet, module testament.Address) (bool, error) {
	s, err := c.Get(db, wallet)
	if err != nil {
		return false, err
	}
	return s.IsModuleEnabled(module), nil
}

// SetGuard replaces the wallet guard. A nil guard removes it.
func (c *Controller) SetGuard(db testament.KVStore, wallet, guard testament.Address) error {
	s, err := c.Get(db, wallet)
	if err != nil {
		return err
	}
	s.Guard = guard
	return c.save(db, s)
}

// EnableModule adds a module to the wallet.
func (c *Controller) EnableModule(db testament.KVStore, wallet, module testament.Address) error {
	s, err := c.Get(db, wallet)
	if err != nil {
		return err
	}
	if s.IsModuleEnabled(module) {
		return errors.Wrapf(errors.ErrDuplicate, "module %s already enabled", module)
	}
	s.Modules = append(s.Modules, module)
	return c.save(db, s)
}

// DisableModule removes a module from the wallet.
func (c *Controller) DisableModule(db testament.KVStore, wallet, module testament.Address) error {
	s, err := c.Get(db, wallet)
	if err != nil {
		return err
	}
	for i, m := range s.Modules {
		if m.Equals(module) {
			s.Modules = append(s.Modules[:i], s.Modules[i+1:]...)
			return c.save(db, s)
		}
	}
	return errors.Wrapf(errors.ErrNotFound, "module %s", module)
}

// ExecFromModule moves wallet funds on behalf of an enabled module. No
// owner signature is required.
func (c *Controller) ExecFromModule(ctx testament.Context, db testament.KVStore, wallet, module, asset, to testament.Address, amount *uint256.Int) error {
	s, err := c.Get(db, wallet)
	if err != nil {
		return err
	}
	if !s.IsModuleEnabled(module) {
		return errors.Wrapf(errors.ErrUnauthorized, "module %s not enabled", module)
	}
	return c.bank.Transfer(ctx, db, asset, wallet, to, amount)
}
