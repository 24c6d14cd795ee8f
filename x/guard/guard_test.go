package guard

import (
	"context"
	"testing"
	"time"

	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/store"
	"github.com/iov-one/testament/weavetest"
	"github.com/iov-one/testament/weavetest/assert"
	"github.com/iov-one/testament/x"
	"github.com/iov-one/testament/x/bank"
	"github.com/iov-one/testament/x/safe"
)

func TestCreateGuard(t *testing.T) {
	now := time.Unix(1500000000, 0)
	ctx := testament.WithBlockTime(context.Background(), now)
	db := store.MemStore()
	bk := bank.NewController()
	ctrl := NewController(bk)

	addr, wallet, will := weavetest.NewAddress(), weavetest.NewAddress(), weavetest.NewAddress()
	g, err := ctrl.Create(ctx, db, addr, wallet, will)
	assert.Nil(t, err)
	assert.Equal(t, testament.AsUnixTime(now), g.LastActivity())

	isContract, err := bk.IsContract(db, addr)
	assert.Nil(t, err)
	assert.Equal(t, true, isContract)

	_, err = ctrl.Create(ctx, db, addr, weavetest.NewAddress(), will)
	assert.IsErr(t, errors.ErrDuplicate, err)
	_, err = ctrl.Create(ctx, db, weavetest.NewAddress(), wallet, will)
	assert.IsErr(t, errors.ErrDuplicate, err)

	_, err = ctrl.Create(context.Background(), db, weavetest.NewAddress(), weavetest.NewAddress(), will)
	assert.IsErr(t, errors.ErrHuman, err)

	assert.Nil(t, ctrl.Remove(db, addr))
	assert.IsErr(t, errors.ErrNotFound, ctrl.Remove(db, addr))
	_, err = ctrl.Create(ctx, db, weavetest.NewAddress(), wallet, will)
	assert.Nil(t, err)
}

func TestCheckTransaction(t *testing.T) {
	created := time.Unix(1500000000, 0)
	addr, wallet, will := weavetest.NewAddress(), weavetest.NewAddress(), weavetest.NewAddress()

	cases := map[string]struct {
		Wallet   testament.Address
		Op       safe.Operation
		At       time.Time
		WantErr  *errors.Error
		WantLast testament.UnixTime
	}{
		"call is recorded": {
			Wallet:   wallet,
			Op:       safe.Call,
			At:       created.Add(time.Hour),
			WantLast: testament.AsUnixTime(created.Add(time.Hour)),
		},
		"delegate call is recorded": {
			Wallet:   wallet,
			Op:       safe.DelegateCall,
			At:       created.Add(2 * time.Hour),
			WantLast: testament.AsUnixTime(created.Add(2 * time.Hour)),
		},
		"other wallet is rejected": {
			Wallet:   weavetest.NewAddress(),
			Op:       safe.Call,
			At:       created.Add(time.Hour),
			WantErr:  errors.ErrUnauthorized,
			WantLast: testament.AsUnixTime(created),
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			ctrl := NewController(bank.NewController())
			_, err := ctrl.Create(testament.WithBlockTime(context.Background(), created), db, addr, wallet, will)
			assert.Nil(t, err)

			ctx := testament.WithBlockTime(context.Background(), tc.At)
			err = ctrl.CheckTransaction(ctx, db, tc.Wallet, addr, tc.Op)
			if !tc.WantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			assert.Nil(t, ctrl.CheckAfterExecution(ctx, db, tc.Wallet, addr, true))

			last, err := ctrl.LastTimestamp(db, addr)
			assert.Nil(t, err)
			assert.Equal(t, tc.WantLast, last)
		})
	}
}

// A wallet transaction executed through the exec header refreshes the guard.
func TestWalletActivity(t *testing.T) {
	created := time.Unix(1500000000, 0)
	db := store.MemStore()
	bk := bank.NewController()
	wallets := safe.NewController(bk)
	guards := NewController(bk)

	owner := weavetest.NewAddress()
	w, err := wallets.Create(db, []testament.Address{owner}, 1)
	assert.Nil(t, err)
	guardAddr := weavetest.NewAddress()
	_, err = guards.Create(testament.WithBlockTime(context.Background(), created), db, guardAddr, w.Address, weavetest.NewAddress())
	assert.Nil(t, err)
	assert.Nil(t, wallets.SetGuard(db, w.Address, guardAddr))

	signers := &weavetest.CtxAuth{Key: "sigs"}
	later := created.Add(48 * time.Hour)
	ctx := testament.WithBlockTime(signers.SetAddresses(context.Background(), owner), later)
	handler := weavetest.Decorate(&weavetest.Handler{}, safe.NewDecorator(signers, wallets, guards))

	tx := &execTx{
		Tx:   weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "test/exec"}},
		Exec: &safe.ExecInfo{Wallet: w.Address, Operation: safe.Call},
	}
	_, err = handler.Deliver(ctx, db, tx)
	assert.Nil(t, err)

	last, err := guards.LastTimestamp(db, guardAddr)
	assert.Nil(t, err)
	assert.Equal(t, testament.AsUnixTime(later), last)
}

// The wallet replaces its guard with another one watching it, and can reset it.
// Guards deployed for other wallets are refused.
func TestReplaceGuard(t *testing.T) {
	ctx := testament.WithBlockTime(context.Background(), time.Unix(1500000000, 0))
	db := store.MemStore()
	bk := bank.NewController()
	wallets := safe.NewController(bk)
	guards := NewController(bk)

	owner := weavetest.NewAddress()
	w, err := wallets.Create(db, []testament.Address{owner}, 1)
	assert.Nil(t, err)
	other, err := wallets.Create(db, []testament.Address{owner}, 1)
	assert.Nil(t, err)

	first, second, foreign := weavetest.NewAddress(), weavetest.NewAddress(), weavetest.NewAddress()
	for guard, wallet := range map[string]testament.Address{
		string(first):   w.Address,
		string(second):  w.Address,
		string(foreign): other.Address,
	} {
		_, err := guards.Create(ctx, db, testament.Address(guard), wallet, weavetest.NewAddress())
		assert.Nil(t, err)
	}
	assert.Nil(t, wallets.SetGuard(db, w.Address, first))

	signers := &weavetest.CtxAuth{Key: "sigs"}
	auth := x.ChainAuth(signers, safe.Authenticate{})
	r := make(routes)
	safe.RegisterRoutes(r, auth, wallets, guards)
	ctx = signers.SetAddresses(ctx, owner)

	setGuard := func(guard testament.Address) error {
		msg := &safe.SetGuardMsg{Wallet: w.Address, Guard: guard}
		tx := &execTx{Tx: weavetest.Tx{Msg: msg}, Exec: &safe.ExecInfo{Wallet: w.Address}}
		stack := weavetest.Decorate(r[msg.Path()], safe.NewDecorator(auth, wallets, guards))
		_, err := stack.Deliver(ctx, db, tx)
		return err
	}

	assert.IsErr(t, errors.ErrInput, setGuard(foreign))
	assert.IsErr(t, errors.ErrInput, setGuard(weavetest.NewAddress()))
	got, err := wallets.Guard(db, w.Address)
	assert.Nil(t, err)
	assert.Equal(t, first, got)

	assert.Nil(t, setGuard(second))
	got, err = wallets.Guard(db, w.Address)
	assert.Nil(t, err)
	assert.Equal(t, second, got)

	// the wallet is still usable after the replacement
	assert.Nil(t, setGuard(nil))
	got, err = wallets.Guard(db, w.Address)
	assert.Nil(t, err)
	assert.Nil(t, got)
}

func TestWatches(t *testing.T) {
	ctx := testament.WithBlockTime(context.Background(), time.Unix(1500000000, 0))
	db := store.MemStore()
	guards := NewController(bank.NewController())
	wallet, guard := weavetest.NewAddress(), weavetest.NewAddress()
	_, err := guards.Create(ctx, db, guard, wallet, weavetest.NewAddress())
	assert.Nil(t, err)

	cases := map[string]struct {
		Wallet testament.Address
		Guard  testament.Address
		Want   bool
	}{
		"guard of the wallet": {Wallet: wallet, Guard: guard, Want: true},
		"other wallet":        {Wallet: weavetest.NewAddress(), Guard: guard},
		"unknown guard":       {Wallet: wallet, Guard: weavetest.NewAddress()},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			ok, err := guards.Watches(db, tc.Wallet, tc.Guard)
			assert.Nil(t, err)
			assert.Equal(t, tc.Want, ok)
		})
	}
}

type routes map[string]testament.Handler

func (r routes) Handle(path string, h testament.Handler) { r[path] = h }

type execTx struct {
	weavetest.Tx
	Exec *safe.ExecInfo
}

func (tx *execTx) GetExec() *safe.ExecInfo { return tx.Exec }
