package bank

import (
	"regexp"

	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/orm"
)

// NativeAsset is the sentinel address identifying the native asset.
var NativeAsset = testament.MustParseAddress("0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE")

// IsNative returns true if given asset is the native asset.
func IsNative(asset testament.Address) bool {
	return NativeAsset.Equals(asset)
}

var isTokenSymbol = regexp.MustCompile(`^[A-Z0-9]{2,12}$`).MatchString

var _ orm.Model = (*Balance)(nil)

func (b *Balance) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Asset", b.Asset.Validate())
	errs = errors.AppendField(errs, "Holder", b.Holder.Validate())
	if len(b.Amount) != 32 {
		errs = errors.AppendField(errs, "Amount", errors.ErrAmount)
	}
	return errs
}

// BalanceKey is the primary key of a balance: asset followed by holder.
func BalanceKey(asset, holder testament.Address) []byte {
	key := make([]byte, 0, len(asset)+len(holder))
	key = append(key, asset...)
	return append(key, holder...)
}

// NewBalanceBucket returns the bucket of balances, indexed by holder.
func NewBalanceBucket() orm.ModelBucket {
	return orm.NewModelBucket("balance", &Balance{},
		orm.WithIndex("holder", balanceHolder, false),
	)
}

func balanceHolder(m orm.Model) ([]byte, error) {
	b, ok := m.(*Balance)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	return b.Holder, nil
}

var _ orm.Model = (*Token)(nil)

func (t *Token) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Address", t.Address.Validate())
	if !isTokenSymbol(t.Symbol) {
		errs = errors.AppendField(errs, "Symbol", errors.ErrInput)
	}
	errs = errors.AppendField(errs, "Minter", t.Minter.Validate())
	return errs
}

// NewTokenBucket returns the bucket of tokens, with a unique symbol index.
func NewTokenBucket() orm.ModelBucket {
	return orm.NewModelBucket("token", &Token{},
		orm.WithIndex("symbol", tokenSymbol, true),
	)
}

func tokenSymbol(m orm.Model) ([]byte, error) {
	t, ok := m.(*Token)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	return []byte(t.Symbol), nil
}

var _ orm.Model = (*Contract)(nil)

func (c *Contract) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Address", c.Address.Validate())
	if c.Kind == "" {
		errs = errors.AppendField(errs, "Kind", errors.ErrEmpty)
	}
	return errs
}

// NewContractBucket returns the contract registry bucket.
func NewContractBucket() orm.ModelBucket {
	return orm.NewModelBucket("contract", &Contract{})
}

// TokenAddress returns the address of the n-th created token.
func TokenAddress(n uint64) testament.Address {
	return testament.NewCondition("bank", "token", orm.EncodeSequence(n)).Address()
}
