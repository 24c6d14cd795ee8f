package will

import (
	"context"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/store"
	"github.com/iov-one/testament/weavetest"
	"github.com/iov-one/testament/weavetest/assert"
	"github.com/iov-one/testament/x/bank"
	"github.com/iov-one/testament/x/guard"
	"github.com/iov-one/testament/x/safe"
)

var genesisTime = time.Unix(1600000000, 0)

// listChecker accepts the native asset and the listed ones.
type listChecker []testament.Address

func (l listChecker) IsWhitelisted(db testament.ReadOnlyKVStore, asset testament.Address) (bool, error) {
	return bank.IsNative(asset) || containsAddress(l, asset), nil
}

type fixture struct {
	db      testament.CacheableKVStore
	bank    *bank.BaseController
	wallets *safe.Controller
	guards  *guard.Controller
	ctrl    *Controller
	router  testament.Address
	token   testament.Address
}

func newFixture(t testing.TB) *fixture {
	t.Helper()
	f := &fixture{
		db:     store.MemStore(),
		bank:   bank.NewController(),
		router: weavetest.NewAddress(),
		token:  weavetest.NewAddress(),
	}
	f.wallets = safe.NewController(f.bank)
	f.guards = guard.NewController(f.bank)
	f.ctrl = NewController(f.router, f.bank, listChecker{f.token}, f.wallets, f.guards)
	return f
}

func at(d time.Duration) testament.Context {
	return testament.WithBlockTime(context.Background(), genesisTime.Add(d))
}

func row(user testament.Address, assets []testament.Address, percents ...uint32) *Distribution {
	return &Distribution{User: user, Assets: assets, Percents: percents}
}

func addrs(a ...testament.Address) []testament.Address {
	return a
}

func nicknames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = "beneficiary"
	}
	return names
}

// custody initializes a custody will created at genesis time.
func (f *fixture) custody(t testing.TB, owner testament.Address, min uint32, rows ...*Distribution) *Will {
	t.Helper()
	w, err := f.ctrl.Initialize(at(0), f.db, f.router, InitParams{
		WillID:  1,
		Kind:    Custody,
		Owner:   owner,
		Address: weavetest.NewAddress(),
		Main:    &MainConfig{Name: "will", Nicknames: nicknames(len(rows)), Distributions: rows},
		Extra:   &ExtraConfig{MinRequiredSignatures: min, LackOfOutgoingTxRange: 3600},
	})
	assert.Nil(t, err)
	return w
}

// forwarding creates a wallet with a guard and initializes a forwarding
// will enabled as its module.
func (f *fixture) forwarding(t testing.TB, signer testament.Address, rows ...*Distribution) *Will {
	t.Helper()
	wallet, err := f.wallets.Create(f.db, []testament.Address{signer}, 1)
	assert.Nil(t, err)
	willAddr, guardAddr := weavetest.NewAddress(), weavetest.NewAddress()
	_, err = f.guards.Create(at(0), f.db, guardAddr, wallet.Address, willAddr)
	assert.Nil(t, err)
	assert.Nil(t, f.wallets.SetGuard(f.db, wallet.Address, guardAddr))
	assert.Nil(t, f.wallets.EnableModule(f.db, wallet.Address, willAddr))

	w, err := f.ctrl.Initialize(at(0), f.db, f.router, InitParams{
		WillID:  1,
		Kind:    Forwarding,
		Owner:   wallet.Address,
		Address: willAddr,
		Safe:    wallet.Address,
		Guard:   guardAddr,
		Main:    &MainConfig{Nicknames: nicknames(len(rows)), Distributions: rows},
		Extra:   &ExtraConfig{MinRequiredSignatures: 1, LackOfOutgoingTxRange: 3600},
	})
	assert.Nil(t, err)
	return w
}

func (f *fixture) fund(t testing.TB, asset, holder testament.Address, amount uint64) {
	t.Helper()
	assert.Nil(t, f.bank.Mint(context.Background(), f.db, asset, holder, uint256.NewInt(amount)))
}

func (f *fixture) balance(t testing.TB, asset, holder testament.Address) uint64 {
	t.Helper()
	b, err := f.bank.Balance(f.db, asset, holder)
	assert.Nil(t, err)
	return b.Uint64()
}
