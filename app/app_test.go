package app

import (
	"fmt"
	"testing"
	"time"

	"github.com/iov-one/testament"
	"github.com/iov-one/testament/crypto"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/orm"
	"github.com/iov-one/testament/store/iavl"
	"github.com/iov-one/testament/weavetest"
	"github.com/iov-one/testament/x/bank"
	"github.com/iov-one/testament/x/batch"
	"github.com/iov-one/testament/x/router"
	"github.com/iov-one/testament/x/safe"
	"github.com/iov-one/testament/x/sigs"
	"github.com/iov-one/testament/x/will"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	amino "github.com/tendermint/go-amino"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/common"
)

const (
	testChainID  = "testament-net"
	attestChain  = 31337
	activeWindow = 3600
)

var genesisTime = time.Unix(1600000000, 0).UTC()

// testApp drives the application the way tendermint does.
type testApp struct {
	t      testing.TB
	app    BaseApp
	ctrls  Controllers
	codec  *Codec
	height int64
	now    time.Time
}

func newTestApp(t testing.TB, conf Config, appState string) *testApp {
	t.Helper()
	a, ctrls := New(conf, iavl.NewMemCommitStore())
	a.InitChain(abci.RequestInitChain{ChainId: testChainID, AppStateBytes: []byte(appState)})
	ta := &testApp{
		t:     t,
		app:   a,
		ctrls: ctrls,
		codec: DefaultCodec(),
		now:   genesisTime,
	}
	ta.block(0)
	return ta
}

// genesis returns an application state with both configurations owned by
// admin and native funds for each holder.
func genesis(admin testament.Address, holders map[string]uint64) string {
	balances := ""
	for holder, amount := range holders {
		if balances != "" {
			balances += ","
		}
		balances += fmt.Sprintf(`{"asset": "native", "holder": %q, "amount": "%d"}`, holder, amount)
	}
	return fmt.Sprintf(`{
		"conf": {
			"router": {"owner": %q, "fee_receiver": %q, "chain_id": %d, "will_limit": 3},
			"whitelist": {"owner": %q}
		},
		"bank": {"balances": [%s]}
	}`, admin, admin, attestChain, admin, balances)
}

// block commits the current block and starts a new one after given delay.
func (a *testApp) block(after time.Duration) {
	if a.height > 0 {
		a.app.EndBlock(abci.RequestEndBlock{Height: a.height})
		a.app.Commit()
	}
	a.height++
	a.now = a.now.Add(after)
	a.app.BeginBlock(abci.RequestBeginBlock{
		Header: abci.Header{ChainID: testChainID, Height: a.height, Time: a.now},
	})
}

func (a *testApp) tx(msg testament.Msg, exec *safe.ExecInfo, signers ...*crypto.PrivateKey) []byte {
	a.t.Helper()
	tx, err := a.codec.NewTx(msg, exec)
	require.NoError(a.t, err)
	for _, s := range signers {
		seq, err := sigs.NextNonce(a.app.DeliverStore(), s.Address())
		require.NoError(a.t, err)
		require.NoError(a.t, tx.Sign(s, testChainID, seq))
	}
	raw, err := testament.Marshal(tx)
	require.NoError(a.t, err)
	return raw
}

func (a *testApp) deliver(msg testament.Msg, exec *safe.ExecInfo, signers ...*crypto.PrivateKey) abci.ResponseDeliverTx {
	a.t.Helper()
	return a.app.DeliverTx(a.tx(msg, exec, signers...))
}

func (a *testApp) mustDeliver(msg testament.Msg, exec *safe.ExecInfo, signers ...*crypto.PrivateKey) abci.ResponseDeliverTx {
	a.t.Helper()
	res := a.deliver(msg, exec, signers...)
	require.Equal(a.t, uint32(0), res.Code, res.Log)
	return res
}

func (a *testApp) balance(holder testament.Address) uint64 {
	a.t.Helper()
	v, err := a.ctrls.Bank.Balance(a.app.DeliverStore(), bank.NativeAsset, holder)
	require.NoError(a.t, err)
	return v.Uint64()
}

func (a *testApp) query(path string, data []byte) []testament.Model {
	a.t.Helper()
	res := a.app.Query(abci.RequestQuery{Path: path, Data: data})
	models, err := ParseQueryResponse(res)
	require.NoError(a.t, err)
	return models
}

func hasTag(tags []common.KVPair, key, value string) bool {
	for _, t := range tags {
		if string(t.Key) == key && string(t.Value) == value {
			return true
		}
	}
	return false
}

func native(v uint64) []byte {
	return bank.AmountBytes(bank.Amount(v))
}

func TestCustodyWillLifecycle(t *testing.T) {
	admin := weavetest.NewKey()
	owner := weavetest.NewKey()
	heirA := weavetest.NewKey()
	heirB := weavetest.NewKey()

	a := newTestApp(t, Config{Debug: true}, genesis(admin.Address(), map[string]uint64{
		owner.Address().String(): 1000,
	}))

	// Only the configuration owner or an operator may change the fee.
	res := a.deliver(&router.SetWillFeeMsg{Fee: native(10)}, nil, owner)
	require.Equal(t, errors.ErrUnauthorized.Code(), res.Code)
	a.mustDeliver(&router.SetWillFeeMsg{Fee: native(10)}, nil, admin)

	create := &router.CreateWillMsg{
		Kind: will.Custody,
		Main: &will.MainConfig{
			Name:      "family",
			Nicknames: []string{"anna", "ben"},
			Distributions: []*will.Distribution{
				{User: heirA.Address(), Assets: []testament.Address{bank.NativeAsset}, Percents: []uint32{60}},
				{User: heirB.Address(), Assets: []testament.Address{bank.NativeAsset}, Percents: []uint32{40}},
			},
		},
		Extra:   &will.ExtraConfig{MinRequiredSignatures: 2, LackOfOutgoingTxRange: activeWindow},
		Deposit: native(110),
	}

	// Check does not modify the deliver state.
	check := a.app.CheckTx(a.tx(create, nil, owner))
	require.Equal(t, uint32(0), check.Code, check.Log)
	require.Equal(t, uint64(1000), a.balance(owner.Address()))

	res = a.mustDeliver(create, nil, owner)
	willID, err := orm.DecodeSequence(res.Data)
	require.NoError(t, err)
	require.Equal(t, uint64(1), willID)
	require.True(t, hasTag(res.Tags, "event", router.EventWillCreated))
	require.True(t, hasTag(res.Tags, "action", router.PathCreateWillMsg))

	models := a.query("/willrecords", orm.EncodeSequence(willID))
	require.Len(t, models, 1)
	var rec router.WillRecord
	require.NoError(t, testament.Unmarshal(models[0].Value, &rec))
	require.Equal(t, will.Active, rec.Status)
	require.Equal(t, owner.Address(), rec.Owner)

	require.Equal(t, uint64(890), a.balance(owner.Address()))
	require.Equal(t, uint64(10), a.balance(admin.Address()))
	require.Equal(t, uint64(100), a.balance(rec.WillAddress))

	// An attestation is recorded, but the quorum is not reached yet.
	a.block(time.Minute)
	sigA, err := crypto.SignWill(heirA, attestChain, uint32(will.Custody), willID, owner.Address())
	require.NoError(t, err)
	res = a.mustDeliver(&router.ActivateWillMsg{WillID: willID, Signature: sigA}, nil, heirA)
	require.True(t, hasTag(res.Tags, "event", router.EventWillActivated))
	require.Equal(t, uint64(0), a.balance(heirA.Address()))

	// A signature of another beneficiary is rejected.
	res = a.deliver(&router.ActivateWillMsg{WillID: willID, Signature: sigA}, nil, heirB)
	require.Equal(t, will.ErrSignatureInvalid.Code(), res.Code, res.Log)

	// The quorum triggers the payout once the owner is dormant.
	a.block(2 * time.Hour)
	models = a.query("/router/active", append(orm.EncodeSequence(willID), orm.EncodeSequence(uint64(a.now.Unix()))...))
	require.Equal(t, []byte{0}, models[0].Value)
	sigB, err := crypto.SignWill(heirB, attestChain, uint32(will.Custody), willID, owner.Address())
	require.NoError(t, err)
	a.mustDeliver(&router.ActivateWillMsg{WillID: willID, Signature: sigB}, nil, heirB)
	require.Equal(t, uint64(60), a.balance(heirA.Address()))
	require.Equal(t, uint64(40), a.balance(heirB.Address()))

	a.block(time.Minute)
	models = a.query("/willrecords", orm.EncodeSequence(willID))
	require.NoError(t, testament.Unmarshal(models[0].Value, &rec))
	require.Equal(t, will.Triggered, rec.Status)

	res = a.deliver(&router.DeleteWillMsg{WillID: willID}, nil, owner)
	require.Equal(t, will.ErrWillNotActive.Code(), res.Code, res.Log)
}

func TestForwardingWillThroughBatch(t *testing.T) {
	admin := weavetest.NewKey()
	owner := weavetest.NewKey()
	heir := weavetest.NewKey()
	reg := prometheus.NewRegistry()

	a := newTestApp(t, Config{Registerer: reg}, genesis(admin.Address(), map[string]uint64{
		owner.Address().String(): 1000,
	}))
	wallet := safe.WalletAddress(1)

	forwarding := func(wallet testament.Address, percent uint32) *router.CreateWillMsg {
		return &router.CreateWillMsg{
			Kind: will.Forwarding,
			Main: &will.MainConfig{
				Nicknames: []string{"heir"},
				Distributions: []*will.Distribution{
					{User: heir.Address(), Assets: []testament.Address{bank.NativeAsset}, Percents: []uint32{percent}},
				},
			},
			Extra: &will.ExtraConfig{MinRequiredSignatures: 1, LackOfOutgoingTxRange: activeWindow},
			Safe:  wallet,
		}
	}

	// A failing message reverts the whole batch. The wallet did not
	// authorize the will, only its owner signed.
	failing, err := a.codec.NewBatch(
		&safe.CreateSafeMsg{Owners: []testament.Address{owner.Address()}, Threshold: 1},
		forwarding(wallet, 100),
	)
	require.NoError(t, err)
	res := a.deliver(failing, nil, owner)
	require.Equal(t, errors.ErrUnauthorized.Code(), res.Code, res.Log)
	_, err = a.ctrls.Wallets.Get(a.app.DeliverStore(), wallet)
	require.True(t, errors.ErrNotFound.Is(err))

	setup, err := a.codec.NewBatch(
		&safe.CreateSafeMsg{Owners: []testament.Address{owner.Address()}, Threshold: 1},
		&bank.SendMsg{Asset: bank.NativeAsset, Source: owner.Address(), Destination: wallet, Amount: native(500)},
	)
	require.NoError(t, err)
	res = a.mustDeliver(setup, nil, owner)

	var data batch.ByteArrayList
	require.NoError(t, amino.UnmarshalBinaryBare(res.Data, &data))
	require.Len(t, data.Elements, 2)
	require.Equal(t, []byte(wallet), data.Elements[0])

	exec := &safe.ExecInfo{Wallet: wallet}
	res = a.deliver(forwarding(wallet, 50), exec, owner)
	require.Equal(t, will.ErrTotalPercentInvalid.Code(), res.Code, res.Log)
	res = a.mustDeliver(forwarding(wallet, 100), exec, owner)
	willID, err := orm.DecodeSequence(res.Data)
	require.NoError(t, err)

	rec, err := a.ctrls.Router.Record(a.app.DeliverStore(), willID)
	require.NoError(t, err)
	require.Equal(t, wallet, rec.Owner)
	w, err := a.ctrls.Wallets.Get(a.app.DeliverStore(), wallet)
	require.NoError(t, err)
	require.Equal(t, rec.GuardAddress, w.Guard)
	require.True(t, w.IsModuleEnabled(rec.WillAddress))
	require.Equal(t, uint64(500), a.balance(wallet))

	// The wallet owns the will, a plain signature of its owner is not
	// enough.
	a.block(time.Minute)
	rename := &router.SetNameNoteMsg{WillID: willID, Name: "savings", Note: "for later"}
	res = a.deliver(rename, nil, owner)
	require.Equal(t, will.ErrOnlyOwner.Code(), res.Code, res.Log)
	a.mustDeliver(rename, exec, owner)

	last, err := a.ctrls.Guards.LastTimestamp(a.app.DeliverStore(), rec.GuardAddress)
	require.NoError(t, err)
	require.Equal(t, testament.AsUnixTime(a.now), last)

	// Wallet activity postpones the activation.
	a.block(30 * time.Minute)
	res = a.deliver(&router.ActivateWillMsg{WillID: willID}, nil, heir)
	require.Equal(t, will.ErrNotEnoughConditionalActive.Code(), res.Code, res.Log)

	a.block(2 * time.Hour)
	active := a.query("/router/active", append(orm.EncodeSequence(willID), orm.EncodeSequence(uint64(a.now.Unix()))...))
	require.Equal(t, []byte{1}, active[0].Value)

	a.mustDeliver(&router.ActivateWillMsg{WillID: willID}, nil, heir)
	require.Equal(t, uint64(500), a.balance(heir.Address()))
	require.Equal(t, uint64(0), a.balance(wallet))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	require.True(t, names["testament_tx_delivered_total"])
	require.True(t, names["testament_tx_failed_total"])
}

// Attaching a will to a wallet needs as many owner signatures as any other
// wallet transaction.
func TestForwardingWillNeedsWalletThreshold(t *testing.T) {
	admin := weavetest.NewKey()
	ownerA, ownerB, ownerC := weavetest.NewKey(), weavetest.NewKey(), weavetest.NewKey()
	heir := weavetest.NewKey()

	a := newTestApp(t, Config{}, genesis(admin.Address(), map[string]uint64{
		ownerA.Address().String(): 1000,
	}))
	wallet := safe.WalletAddress(1)
	a.mustDeliver(&safe.CreateSafeMsg{
		Owners:    []testament.Address{ownerA.Address(), ownerB.Address(), ownerC.Address()},
		Threshold: 2,
	}, nil, ownerA)

	create := &router.CreateWillMsg{
		Kind: will.Forwarding,
		Main: &will.MainConfig{
			Distributions: []*will.Distribution{
				{User: heir.Address(), Assets: []testament.Address{bank.NativeAsset}, Percents: []uint32{100}},
			},
		},
		Extra: &will.ExtraConfig{MinRequiredSignatures: 1, LackOfOutgoingTxRange: activeWindow},
		Safe:  wallet,
	}
	exec := &safe.ExecInfo{Wallet: wallet}

	res := a.deliver(create, nil, ownerA)
	require.Equal(t, errors.ErrUnauthorized.Code(), res.Code, res.Log)
	res = a.deliver(create, exec, ownerA)
	require.Equal(t, errors.ErrUnauthorized.Code(), res.Code, res.Log)
	w, err := a.ctrls.Wallets.Get(a.app.DeliverStore(), wallet)
	require.NoError(t, err)
	require.Empty(t, w.Guard)

	res = a.mustDeliver(create, exec, ownerA, ownerB)
	willID, err := orm.DecodeSequence(res.Data)
	require.NoError(t, err)
	rec, err := a.ctrls.Router.Record(a.app.DeliverStore(), willID)
	require.NoError(t, err)
	require.Equal(t, wallet, rec.Owner)
	w, err = a.ctrls.Wallets.Get(a.app.DeliverStore(), wallet)
	require.NoError(t, err)
	require.Equal(t, rec.GuardAddress, w.Guard)
}

func TestDeliverInvalidTx(t *testing.T) {
	admin := weavetest.NewKey()
	a := newTestApp(t, Config{}, genesis(admin.Address(), nil))

	cases := map[string]struct {
		raw      []byte
		wantCode uint32
	}{
		"not a transaction": {
			raw:      []byte{0xff, 0xff, 0xff},
			wantCode: errors.ErrInput.Code(),
		},
		"unknown message": {
			raw: func() []byte {
				raw, _ := testament.Marshal(&Tx{Msg: &Envelope{Path: "foo/bar"}})
				return raw
			}(),
			wantCode: errors.ErrMsg.Code(),
		},
		"not signed": {
			raw:      a.tx(&router.DeleteWillMsg{WillID: 1}, nil),
			wantCode: errors.ErrUnauthorized.Code(),
		},
		"unknown will": {
			raw:      a.tx(&router.DeleteWillMsg{WillID: 1}, nil, admin),
			wantCode: router.ErrWillNotFound.Code(),
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			res := a.app.DeliverTx(tc.raw)
			require.Equal(t, tc.wantCode, res.Code, res.Log)
			check := a.app.CheckTx(tc.raw)
			require.Equal(t, tc.wantCode, check.Code, check.Log)
		})
	}
}
