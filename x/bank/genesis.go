package bank

import (
	"context"

	"github.com/holiman/uint256"
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
)

// Initializer fulfils the Initializer interface to load data from the
// genesis file
type Initializer struct {
	Ctrl *BaseController
}

var _ testament.Initializer = (*Initializer)(nil)

type genesisToken struct {
	Symbol string            `json:"symbol"`
	Minter testament.Address `json:"minter"`
}

type genesisBalance struct {
	// Asset is either a token symbol or "native".
	Asset  string            `json:"asset"`
	Holder testament.Address `json:"holder"`
	// Amount is a decimal number.
	Amount string `json:"amount"`
}

// FromGenesis will parse initial tokens and balances from genesis and save
// them to the database.
//
//   "bank": {
//     "tokens": [{"symbol": "USDT", "minter": "0x..."}],
//     "balances": [{"asset": "native", "holder": "0x...", "amount": "1000"}]
//   }
func (i *Initializer) FromGenesis(opts testament.Options, db testament.KVStore) error {
	var genesis struct {
		Tokens   []genesisToken   `json:"tokens"`
		Balances []genesisBalance `json:"balances"`
	}
	if err := opts.ReadOptions("bank", &genesis); err != nil {
		return err
	}

	ctx := context.Background()
	symbols := make(map[string]testament.Address)
	for n, t := range genesis.Tokens {
		token, err := i.Ctrl.createToken(db, t.Symbol, t.Minter)
		if err != nil {
			return errors.Wrapf(err, "token #%d", n)
		}
		symbols[t.Symbol] = token.Address
	}
	for n, b := range genesis.Balances {
		asset := NativeAsset
		if b.Asset != "native" {
			addr, ok := symbols[b.Asset]
			if !ok {
				return errors.Wrapf(ErrUnknownAsset, "balance #%d: %q", n, b.Asset)
			}
			asset = addr
		}
		if err := b.Holder.Validate(); err != nil {
			return errors.Wrapf(err, "balance #%d holder", n)
		}
		amount, err := uint256.FromDecimal(b.Amount)
		if err != nil {
			return errors.Wrapf(errors.ErrAmount, "balance #%d: %s", n, err)
		}
		if err := i.Ctrl.Mint(ctx, db, asset, b.Holder, amount); err != nil {
			return errors.Wrapf(err, "balance #%d", n)
		}
	}
	return nil
}
