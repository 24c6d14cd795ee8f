package router

import (
	"context"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/gconf"
	"github.com/iov-one/testament/orm"
	"github.com/iov-one/testament/store"
	"github.com/iov-one/testament/weavetest"
	"github.com/iov-one/testament/weavetest/assert"
	"github.com/iov-one/testament/x/bank"
	"github.com/iov-one/testament/x/guard"
	"github.com/iov-one/testament/x/safe"
	"github.com/iov-one/testament/x/will"
)

const chainID = 31337

var genesisTime = time.Unix(1600000000, 0)

type routes map[string]testament.Handler

func (r routes) Handle(path string, h testament.Handler) { r[path] = h }

// allowAll accepts every asset.
type allowAll struct{}

func (allowAll) IsWhitelisted(testament.ReadOnlyKVStore, testament.Address) (bool, error) {
	return true, nil
}

type fixture struct {
	db       testament.CacheableKVStore
	bank     *bank.BaseController
	wallets  *safe.Controller
	guards   *guard.Controller
	ctrl     *Controller
	auth     *weavetest.CtxAuth
	routes   routes
	owner    testament.Address
	receiver testament.Address
	token    testament.Address
}

func newFixture(t testing.TB, conf *Configuration) *fixture {
	t.Helper()
	f := &fixture{
		db:       store.MemStore(),
		bank:     bank.NewController(),
		auth:     &weavetest.CtxAuth{Key: "auth"},
		routes:   make(routes),
		owner:    weavetest.NewAddress(),
		receiver: weavetest.NewAddress(),
		token:    weavetest.NewAddress(),
	}
	f.wallets = safe.NewController(f.bank)
	f.guards = guard.NewController(f.bank)
	f.ctrl = NewController(f.bank, f.wallets, f.guards, allowAll{})
	RegisterRoutes(f.routes, f.auth, f.ctrl)

	if conf == nil {
		conf = &Configuration{}
	}
	conf.Owner = f.owner
	conf.FeeReceiver = f.receiver
	conf.ChainID = chainID
	assert.Nil(t, gconf.Save(f.db, PackageName, conf))
	return f
}

// as returns a context at given offset from the genesis, authorized by
// given addresses.
func (f *fixture) as(d time.Duration, signers ...testament.Address) testament.Context {
	ctx := testament.WithBlockTime(context.Background(), genesisTime.Add(d))
	return f.auth.SetAddresses(ctx, signers...)
}

func (f *fixture) deliver(t testing.TB, ctx testament.Context, msg testament.Msg) (*testament.DeliverResult, error) {
	t.Helper()
	h, ok := f.routes[msg.Path()]
	if !ok {
		t.Fatalf("no handler for %q", msg.Path())
	}
	return h.Deliver(ctx, f.db, &weavetest.Tx{Msg: msg})
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

func (f *fixture) wallet(t testing.TB, signers ...testament.Address) testament.Address {
	t.Helper()
	w, err := f.wallets.Create(f.db, signers, 1)
	assert.Nil(t, err)
	return w.Address
}

func row(user testament.Address, assets []testament.Address, percents ...uint32) *will.Distribution {
	return &will.Distribution{User: user, Assets: assets, Percents: percents}
}

func addrs(a ...testament.Address) []testament.Address {
	return a
}

func mainConfig(rows ...*will.Distribution) *will.MainConfig {
	names := make([]string, len(rows))
	for i := range names {
		names[i] = "heir"
	}
	return &will.MainConfig{Name: "testament", Nicknames: names, Distributions: rows}
}

func extra(min uint32) *will.ExtraConfig {
	return &will.ExtraConfig{MinRequiredSignatures: min, LackOfOutgoingTxRange: 3600}
}

// createSigners returns the addresses authorizing a will creation. The
// wallet of a forwarding will authorizes it next to the payer.
func createSigners(payer testament.Address, msg *CreateWillMsg) []testament.Address {
	if msg.Kind == will.Forwarding {
		return addrs(payer, msg.Safe)
	}
	return addrs(payer)
}

// create delivers a will creation at genesis time and returns its record.
func (f *fixture) create(t testing.TB, payer testament.Address, msg *CreateWillMsg) *WillRecord {
	t.Helper()
	res, err := f.deliver(t, f.as(0, createSigners(payer, msg)...), msg)
	assert.Nil(t, err)
	id, err := orm.DecodeSequence(res.Data)
	assert.Nil(t, err)
	rec, err := f.ctrl.Record(f.db, id)
	assert.Nil(t, err)
	return rec
}
