package guard

import (
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/orm"
	"github.com/iov-one/testament/x/bank"
	"github.com/iov-one/testament/x/safe"
)

// Controller creates guards and serves as the wallet transaction guard.
type Controller struct {
	bucket orm.ModelBucket
	bank   bank.Controller
}

var _ safe.TransactionGuard = (*Controller)(nil)

// NewController returns a guard controller. Guard addresses are registered
// as contracts in given bank.
func NewController(b bank.Controller) *Controller {
	return &Controller{bucket: NewBucket(), bank: b}
}

// Create stores a new guard watching the wallet on behalf of the will. The
// current block time is the initial activity. It fails with ErrDuplicate if
// the wallet already has a guard.
func (c *Controller) Create(ctx testament.Context, db testament.KVStore, addr, wallet, will testament.Address) (*Guard, error) {
	now, err := testament.BlockUnixTime(ctx)
	if err != nil {
		return nil, err
	}
	g := Guard{
		Address:          addr,
		Safe:             wallet,
		Will:             will,
		LastTimestampTxs: int64(now),
	}
	if err := c.bucket.Has(db, addr); err == nil {
		return nil, errors.Wrapf(errors.ErrDuplicate, "guard %s", addr)
	}
	if _, err := c.bucket.Put(db, addr, &g); err != nil {
		return nil, errors.Wrap(err, "cannot store guard")
	}
	if err := c.bank.RegisterContract(db, addr, ContractKind); err != nil {
		return nil, errors.Wrap(err, "register contract")
	}
	return &g, nil
}

// Get returns the guard stored under given address.
func (c *Controller) Get(db testament.ReadOnlyKVStore, addr testament.Address) (*Guard, error) {
	var g Guard
	if err := c.bucket.One(db, addr, &g); err != nil {
		return nil, errors.Wrap(err, "guard")
	}
	return &g, nil
}

// Remove drops a guard detached from its wallet, so that the wallet can be
// guarded again. The address stays registered as a contract.
func (c *Controller) Remove(db testament.KVStore, addr testament.Address) error {
	if err := c.bucket.Delete(db, addr); err != nil {
		return errors.Wrap(err, "guard")
	}
	return nil
}

// LastTimestamp returns the time of the last transaction executed by the
// wallet the guard is attached to.
func (c *Controller) LastTimestamp(db testament.ReadOnlyKVStore, addr testament.Address) (testament.UnixTime, error) {
	g, err := c.Get(db, addr)
	if err != nil {
		return 0, err
	}
	return g.LastActivity(), nil
}

// CheckTransaction records the block time as the wallet last activity.
// Calls and delegate calls are treated the same.
func (c *Controller) CheckTransaction(ctx testament.Context, db testament.KVStore, wallet, guard testament.Address, op safe.Operation) error {
	g, err := c.Get(db, guard)
	if err != nil {
		return err
	}
	if !g.Safe.Equals(wallet) {
		return errors.Wrapf(errors.ErrUnauthorized, "guard %s does not watch wallet %s", guard, wallet)
	}
	now, err := testament.BlockUnixTime(ctx)
	if err != nil {
		return err
	}
	g.LastTimestampTxs = int64(now)
	if _, err := c.bucket.Put(db, g.Address, g); err != nil {
		return errors.Wrap(err, "cannot store guard")
	}
	testament.GetLogger(ctx).Debug("wallet activity",
		"wallet", wallet, "guard", guard, "operation", op, "time", now)
	return nil
}

// Watches returns true if guard is stored and was created for wallet.
func (c *Controller) Watches(db testament.ReadOnlyKVStore, wallet, guard testament.Address) (bool, error) {
	g, err := c.Get(db, guard)
	switch {
	case errors.ErrNotFound.Is(err):
		return false, nil
	case err != nil:
		return false, err
	}
	return g.Safe.Equals(wallet), nil
}

// CheckAfterExecution does nothing. The activity was already recorded.
func (c *Controller) CheckAfterExecution(ctx testament.Context, db testament.KVStore, wallet, guard testament.Address, success bool) error {
	return nil
}
