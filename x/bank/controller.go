package bank

import (
	"github.com/holiman/uint256"
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/orm"
)

// ReceiveHook is called after value arrives at a contract of the kind the
// hook is registered for. Returning an error aborts the transfer, and with
// it the whole transaction.
type ReceiveHook interface {
	OnReceive(ctx testament.Context, db testament.KVStore, asset, from, to testament.Address, amount *uint256.Int) error
}

// ReceiveHookFunc adapts a function to the ReceiveHook interface.
type ReceiveHookFunc func(ctx testament.Context, db testament.KVStore, asset, from, to testament.Address, amount *uint256.Int) error

func (fn ReceiveHookFunc) OnReceive(ctx testament.Context, db testament.KVStore, asset, from, to testament.Address, amount *uint256.Int) error {
	return fn(ctx, db, asset, from, to, amount)
}

// Balancer reads balances.
type Balancer interface {
	Balance(db testament.ReadOnlyKVStore, asset, holder testament.Address) (*uint256.Int, error)
}

// Controller is the functionality other extensions use to move value and
// to recognize contract addresses.
type Controller interface {
	Balancer

	// Transfer moves amount of asset from one address to another. A zero
	// amount is a no-op.
	Transfer(ctx testament.Context, db testament.KVStore, asset, from, to testament.Address, amount *uint256.Int) error

	// Mint credits a new amount of asset to given address.
	Mint(ctx testament.Context, db testament.KVStore, asset, to testament.Address, amount *uint256.Int) error

	// RegisterContract records that given address belongs to a contract
	// of given kind.
	RegisterContract(db testament.KVStore, addr testament.Address, kind string) error

	// IsContract returns true if given address was registered as a
	// contract.
	IsContract(db testament.ReadOnlyKVStore, addr testament.Address) (bool, error)

	// AssetExists returns true for the native asset and created tokens.
	AssetExists(db testament.ReadOnlyKVStore, asset testament.Address) (bool, error)
}

// BaseController is the Controller implementation backed by the bank
// buckets.
type BaseController struct {
	balances  orm.ModelBucket
	tokens    orm.ModelBucket
	contracts orm.ModelBucket
	hooks     map[string]ReceiveHook
}

var _ Controller = (*BaseController)(nil)

// NewController returns a controller without any receive hook.
func NewController() *BaseController {
	return &BaseController{
		balances:  NewBalanceBucket(),
		tokens:    NewTokenBucket(),
		contracts: NewContractBucket(),
		hooks:     make(map[string]ReceiveHook),
	}
}

// RegisterHook sets the hook called when value arrives at a contract of
// given kind. Only one hook per kind is allowed.
func (c *BaseController) RegisterHook(kind string, h ReceiveHook) {
	if _, ok := c.hooks[kind]; ok {
		panic("receive hook for " + kind + " registered twice")
	}
	c.hooks[kind] = h
}

func (c *BaseController) Balance(db testament.ReadOnlyKVStore, asset, holder testament.Address) (*uint256.Int, error) {
	var b Balance
	switch err := c.balances.One(db, BalanceKey(asset, holder), &b); {
	case err == nil:
		return ParseAmount(b.Amount)
	case errors.ErrNotFound.Is(err):
		return new(uint256.Int), nil
	default:
		return nil, errors.Wrap(err, "balance")
	}
}

func (c *BaseController) setBalance(db testament.KVStore, asset, holder testament.Address, amount *uint256.Int) error {
	key := BalanceKey(asset, holder)
	if amount.IsZero() {
		err := c.balances.Delete(db, key)
		if errors.ErrNotFound.Is(err) {
			return nil
		}
		return err
	}
	b := Balance{Asset: asset, Holder: holder, Amount: AmountBytes(amount)}
	_, err := c.balances.Put(db, key, &b)
	return err
}

func (c *BaseController) Transfer(ctx testament.Context, db testament.KVStore, asset, from, to testament.Address, amount *uint256.Int) error {
	if amount == nil || amount.IsZero() {
		return nil
	}
	if err := to.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	have, err := c.Balance(db, asset, from)
	if err != nil {
		return err
	}
	if have.Lt(amount) {
		return errors.Wrapf(errors.ErrInsufficientAmount, "%s holds %s, %s required", from, have.Dec(), amount.Dec())
	}
	if err := c.setBalance(db, asset, from, new(uint256.Int).Sub(have, amount)); err != nil {
		return err
	}
	if err := c.credit(db, asset, to, amount); err != nil {
		return err
	}
	return c.notify(ctx, db, asset, from, to, amount)
}

func (c *BaseController) Mint(ctx testament.Context, db testament.KVStore, asset, to testament.Address, amount *uint256.Int) error {
	if amount == nil || amount.IsZero() {
		return nil
	}
	if err := c.credit(db, asset, to, amount); err != nil {
		return err
	}
	return c.notify(ctx, db, asset, nil, to, amount)
}

func (c *BaseController) credit(db testament.KVStore, asset, to testament.Address, amount *uint256.Int) error {
	have, err := c.Balance(db, asset, to)
	if err != nil {
		return err
	}
	sum, overflow := new(uint256.Int).AddOverflow(have, amount)
	if overflow {
		return errors.Wrapf(errors.ErrOverflow, "balance of %s", to)
	}
	return c.setBalance(db, asset, to, sum)
}

// notify calls the receive hook of the destination contract kind, if any.
func (c *BaseController) notify(ctx testament.Context, db testament.KVStore, asset, from, to testament.Address, amount *uint256.Int) error {
	if len(c.hooks) == 0 {
		return nil
	}
	var contract Contract
	switch err := c.contracts.One(db, to, &contract); {
	case errors.ErrNotFound.Is(err):
		return nil
	case err != nil:
		return err
	}
	hook, ok := c.hooks[contract.Kind]
	if !ok {
		return nil
	}
	return hook.OnReceive(ctx, db, asset, from, to, amount)
}

func (c *BaseController) RegisterContract(db testament.KVStore, addr testament.Address, kind string) error {
	if err := c.contracts.Has(db, addr); err == nil {
		return errors.Wrapf(errors.ErrDuplicate, "contract %s", addr)
	} else if !errors.ErrNotFound.Is(err) {
		return err
	}
	_, err := c.contracts.Put(db, addr, &Contract{Address: addr, Kind: kind})
	return err
}

func (c *BaseController) IsContract(db testament.ReadOnlyKVStore, addr testament.Address) (bool, error) {
	switch err := c.contracts.Has(db, addr); {
	case err == nil:
		return true, nil
	case errors.ErrNotFound.Is(err):
		return false, nil
	default:
		return false, err
	}
}

func (c *BaseController) AssetExists(db testament.ReadOnlyKVStore, asset testament.Address) (bool, error) {
	if IsNative(asset) {
		return true, nil
	}
	switch err := c.tokens.Has(db, asset); {
	case err == nil:
		return true, nil
	case errors.ErrNotFound.Is(err):
		return false, nil
	default:
		return false, err
	}
}

// createToken stores a new token. Its address is derived from the token
// sequence.
func (c *BaseController) createToken(db testament.KVStore, symbol string, minter testament.Address) (*Token, error) {
	seq := orm.NewSequence("token", "addr")
	n, err := seq.NextInt(db)
	if err != nil {
		return nil, err
	}
	t := Token{Address: TokenAddress(n), Symbol: symbol, Minter: minter}
	if _, err := c.tokens.Put(db, t.Address, &t); err != nil {
		return nil, errors.Wrap(err, "token")
	}
	return &t, nil
}
