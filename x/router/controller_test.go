package router

import (
	"testing"
	"time"

	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/weavetest"
	"github.com/iov-one/testament/weavetest/assert"
	"github.com/iov-one/testament/x/bank"
	"github.com/iov-one/testament/x/will"
)

func TestCreateWill(t *testing.T) {
	payer := weavetest.NewAddress()
	b1, b2 := weavetest.NewAddress(), weavetest.NewAddress()
	// next is the predicted address of the will or guard being created.
	var next testament.Address

	cases := map[string]struct {
		Conf *Configuration
		// Prepare returns the wallet a forwarding will is attached to.
		Prepare     func(t testing.TB, f *fixture) testament.Address
		Msg         func(wallet testament.Address) *CreateWillMsg
		// NoExec leaves the wallet out of the authorized addresses.
		NoExec      bool
		WantErr     *errors.Error
		WantFee     uint64
		WantDeposit uint64
	}{
		"custody with fee": {
			Conf: &Configuration{WillFee: bank.AmountBytes(bank.Amount(10))},
			Msg: func(testament.Address) *CreateWillMsg {
				return &CreateWillMsg{
					Kind:    will.Custody,
					Main:    mainConfig(row(b1, addrs(bank.NativeAsset), 60), row(b2, addrs(bank.NativeAsset), 40)),
					Extra:   extra(2),
					Deposit: bank.AmountBytes(bank.Amount(110)),
				}
			},
			WantFee:     10,
			WantDeposit: 100,
		},
		"forwarding": {
			Prepare: func(t testing.TB, f *fixture) testament.Address {
				return f.wallet(t, payer)
			},
			Msg: func(wallet testament.Address) *CreateWillMsg {
				return &CreateWillMsg{
					Kind:  will.Forwarding,
					Main:  mainConfig(row(b1, addrs(bank.NativeAsset), 100)),
					Extra: extra(1),
					Safe:  wallet,
				}
			},
		},
		"deposit below the fee": {
			Conf: &Configuration{WillFee: bank.AmountBytes(bank.Amount(10))},
			Msg: func(testament.Address) *CreateWillMsg {
				return &CreateWillMsg{
					Kind:    will.Custody,
					Main:    mainConfig(row(b1, addrs(bank.NativeAsset), 100)),
					Extra:   extra(1),
					Deposit: bank.AmountBytes(bank.Amount(9)),
				}
			},
			WantErr: will.ErrNotEnoughEther,
		},
		"deposit above the balance": {
			Msg: func(testament.Address) *CreateWillMsg {
				return &CreateWillMsg{
					Kind:    will.Custody,
					Main:    mainConfig(row(b1, addrs(bank.NativeAsset), 100)),
					Extra:   extra(1),
					Deposit: bank.AmountBytes(bank.Amount(1001)),
				}
			},
			WantErr: will.ErrNotEnoughEther,
		},
		"wallet did not authorize": {
			Prepare: func(t testing.TB, f *fixture) testament.Address {
				return f.wallet(t, payer)
			},
			Msg: func(wallet testament.Address) *CreateWillMsg {
				return &CreateWillMsg{
					Kind:  will.Forwarding,
					Main:  mainConfig(row(b1, addrs(bank.NativeAsset), 100)),
					Extra: extra(1),
					Safe:  wallet,
				}
			},
			NoExec:  true,
			WantErr: errors.ErrUnauthorized,
		},
		"will limit reached": {
			Conf: &Configuration{WillLimit: 1},
			Prepare: func(t testing.TB, f *fixture) testament.Address {
				f.create(t, payer, &CreateWillMsg{
					Kind:  will.Custody,
					Main:  mainConfig(row(b2, addrs(bank.NativeAsset), 100)),
					Extra: extra(1),
				})
				return nil
			},
			Msg: func(testament.Address) *CreateWillMsg {
				return &CreateWillMsg{
					Kind:  will.Custody,
					Main:  mainConfig(row(b1, addrs(bank.NativeAsset), 100)),
					Extra: extra(1),
				}
			},
			WantErr: ErrWillLimitExceeded,
		},
		"signer does not own the wallet": {
			Prepare: func(t testing.TB, f *fixture) testament.Address {
				return f.wallet(t, weavetest.NewAddress())
			},
			Msg: func(wallet testament.Address) *CreateWillMsg {
				return &CreateWillMsg{
					Kind:  will.Forwarding,
					Main:  mainConfig(row(b1, addrs(bank.NativeAsset), 100)),
					Extra: extra(1),
					Safe:  wallet,
				}
			},
			WantErr: ErrSignerIsNotOwnerOfSafeWallet,
		},
		"wallet already guarded": {
			Prepare: func(t testing.TB, f *fixture) testament.Address {
				wallet := f.wallet(t, payer)
				assert.Nil(t, f.wallets.SetGuard(f.db, wallet, weavetest.NewAddress()))
				return wallet
			},
			Msg: func(wallet testament.Address) *CreateWillMsg {
				return &CreateWillMsg{
					Kind:  will.Forwarding,
					Main:  mainConfig(row(b1, addrs(bank.NativeAsset), 100)),
					Extra: extra(1),
					Safe:  wallet,
				}
			},
			WantErr: ErrExistedGuardInSafeWallet,
		},
		"owner as beneficiary": {
			Msg: func(testament.Address) *CreateWillMsg {
				return &CreateWillMsg{
					Kind:  will.Custody,
					Main:  mainConfig(row(payer, addrs(bank.NativeAsset), 100)),
					Extra: extra(1),
				}
			},
			WantErr: will.ErrBeneficiaryInvalid,
		},
		"predicted will address as beneficiary": {
			Prepare: func(t testing.TB, f *fixture) testament.Address {
				var err error
				next, err = f.ctrl.NextWillAddress(f.db, payer, will.Custody)
				assert.Nil(t, err)
				return nil
			},
			Msg: func(testament.Address) *CreateWillMsg {
				return &CreateWillMsg{
					Kind:  will.Custody,
					Main:  mainConfig(row(next, addrs(bank.NativeAsset), 100)),
					Extra: extra(1),
				}
			},
			WantErr: will.ErrBeneficiaryInvalid,
		},
		"predicted guard address as beneficiary": {
			Prepare: func(t testing.TB, f *fixture) testament.Address {
				wallet := f.wallet(t, payer)
				var err error
				next, err = f.ctrl.NextGuardAddress(f.db, wallet)
				assert.Nil(t, err)
				return wallet
			},
			Msg: func(wallet testament.Address) *CreateWillMsg {
				return &CreateWillMsg{
					Kind:  will.Forwarding,
					Main:  mainConfig(row(next, addrs(bank.NativeAsset), 100)),
					Extra: extra(1),
					Safe:  wallet,
				}
			},
			WantErr: will.ErrBeneficiaryInvalid,
		},
		"forwarding plan below 100%": {
			Prepare: func(t testing.TB, f *fixture) testament.Address {
				return f.wallet(t, payer)
			},
			Msg: func(wallet testament.Address) *CreateWillMsg {
				return &CreateWillMsg{
					Kind:  will.Forwarding,
					Main:  mainConfig(row(b1, addrs(bank.NativeAsset), 90)),
					Extra: extra(1),
					Safe:  wallet,
				}
			},
			WantErr: will.ErrTotalPercentInvalid,
		},
		"unknown kind": {
			Msg: func(testament.Address) *CreateWillMsg {
				return &CreateWillMsg{
					Main:  mainConfig(row(b1, addrs(bank.NativeAsset), 100)),
					Extra: extra(1),
				}
			},
			WantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t, tc.Conf)
			f.fund(t, bank.NativeAsset, payer, 1000)
			var wallet testament.Address
			if tc.Prepare != nil {
				wallet = tc.Prepare(t, f)
			}
			msg := tc.Msg(wallet)
			owner := payer
			if msg.Kind == will.Forwarding {
				owner = wallet
			}
			predicted, err := f.ctrl.NextWillAddress(f.db, owner, msg.Kind)
			assert.Nil(t, err)
			before, err := f.ctrl.Counters(f.db, owner)
			assert.Nil(t, err)

			signers := createSigners(payer, msg)
			if tc.NoExec {
				signers = addrs(payer)
			}
			res, err := f.deliver(t, f.as(0, signers...), msg)
			if !tc.WantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if err != nil {
				return
			}

			events := res.EventsOf(EventWillCreated)
			assert.Equal(t, 1, len(events))
			ev := events[0].Payload.(*WillCreatedEvent)
			rec, err := f.ctrl.Record(f.db, ev.WillID)
			assert.Nil(t, err)
			assert.Equal(t, predicted, rec.WillAddress)
			assert.Equal(t, owner, rec.Owner)
			assert.Equal(t, will.Active, rec.Status)
			assert.Equal(t, genesisTime.Unix(), rec.CreatedAt)

			after, err := f.ctrl.Counters(f.db, owner)
			assert.Nil(t, err)
			assert.Equal(t, before.Nonce+1, after.Nonce)
			assert.Equal(t, before.WillCount+1, after.WillCount)

			assert.Equal(t, tc.WantFee, f.balance(t, bank.NativeAsset, f.receiver))
			assert.Equal(t, tc.WantDeposit, f.balance(t, bank.NativeAsset, rec.WillAddress))
			assert.Equal(t, 1000-tc.WantFee-tc.WantDeposit, f.balance(t, bank.NativeAsset, payer))

			if msg.Kind == will.Forwarding {
				guardAddr, err := f.wallets.Guard(f.db, wallet)
				assert.Nil(t, err)
				assert.Equal(t, rec.GuardAddress, guardAddr)
				enabled, err := f.wallets.IsModuleEnabled(f.db, wallet, rec.WillAddress)
				assert.Nil(t, err)
				assert.Equal(t, true, enabled)
			}
		})
	}
}

func TestWillCounters(t *testing.T) {
	f := newFixture(t, nil)
	owner := weavetest.NewAddress()
	heir := weavetest.NewAddress()
	f.fund(t, bank.NativeAsset, owner, 1000)

	msg := func(deposit uint64) *CreateWillMsg {
		return &CreateWillMsg{
			Kind:    will.Custody,
			Main:    mainConfig(row(heir, addrs(bank.NativeAsset), 100)),
			Extra:   extra(1),
			Deposit: bank.AmountBytes(bank.Amount(deposit)),
		}
	}
	first := f.create(t, owner, msg(100))
	second := f.create(t, owner, msg(50))
	assert.Equal(t, uint64(1), first.WillID)
	assert.Equal(t, uint64(2), second.WillID)

	_, err := f.deliver(t, f.as(time.Minute, owner), &DeleteWillMsg{WillID: first.WillID})
	assert.Nil(t, err)
	counters, err := f.ctrl.Counters(f.db, owner)
	assert.Nil(t, err)
	assert.Equal(t, uint64(2), counters.Nonce)
	assert.Equal(t, uint32(1), counters.WillCount)

	// Nonce never goes back, so a new will never reuses an address.
	third := f.create(t, owner, msg(0))
	assert.Equal(t, uint64(3), third.WillID)
	for _, prev := range []*WillRecord{first, second} {
		if third.WillAddress.Equals(prev.WillAddress) {
			t.Fatalf("address %s reused", third.WillAddress)
		}
	}

	records, err := f.ctrl.WillsByOwner(f.db, owner)
	assert.Nil(t, err)
	assert.Equal(t, 3, len(records))
}

func TestDeleteWill(t *testing.T) {
	f := newFixture(t, nil)
	owner := weavetest.NewAddress()
	heir := weavetest.NewAddress()
	f.fund(t, bank.NativeAsset, owner, 1000)
	rec := f.create(t, owner, &CreateWillMsg{
		Kind:    will.Custody,
		Main:    mainConfig(row(heir, addrs(bank.NativeAsset), 100)),
		Extra:   extra(1),
		Deposit: bank.AmountBytes(bank.Amount(300)),
	})

	_, err := f.deliver(t, f.as(time.Minute, heir), &DeleteWillMsg{WillID: rec.WillID})
	assert.IsErr(t, will.ErrOnlyOwner, err)

	res, err := f.deliver(t, f.as(time.Minute, owner), &DeleteWillMsg{WillID: rec.WillID})
	assert.Nil(t, err)
	ev := res.EventsOf(EventWillDeleted)[0].Payload.(*WillDeletedEvent)
	refund, err := bank.ParseAmount(ev.Refund)
	assert.Nil(t, err)
	assert.Equal(t, uint64(300), refund.Uint64())
	assert.Equal(t, uint64(1000), f.balance(t, bank.NativeAsset, owner))
	assert.Equal(t, uint64(0), f.balance(t, bank.NativeAsset, rec.WillAddress))

	stored, err := f.ctrl.Record(f.db, rec.WillID)
	assert.Nil(t, err)
	assert.Equal(t, will.Deleted, stored.Status)

	_, err = f.deliver(t, f.as(time.Minute, owner), &DeleteWillMsg{WillID: rec.WillID})
	assert.IsErr(t, will.ErrWillNotActive, err)
	_, err = f.deliver(t, f.as(time.Minute, owner), &DeleteWillMsg{WillID: 42})
	assert.IsErr(t, ErrWillNotFound, err)
}

func TestDeleteForwardingWill(t *testing.T) {
	f := newFixture(t, nil)
	signer := weavetest.NewAddress()
	wallet := f.wallet(t, signer)
	rec := f.create(t, signer, &CreateWillMsg{
		Kind:  will.Forwarding,
		Main:  mainConfig(row(weavetest.NewAddress(), addrs(bank.NativeAsset), 100)),
		Extra: extra(1),
		Safe:  wallet,
	})

	// The signer alone is not the owner of a forwarding will.
	_, err := f.deliver(t, f.as(time.Minute, signer), &DeleteWillMsg{WillID: rec.WillID})
	assert.IsErr(t, will.ErrOnlyOwner, err)

	_, err = f.deliver(t, f.as(time.Minute, wallet), &DeleteWillMsg{WillID: rec.WillID})
	assert.Nil(t, err)
	guardAddr, err := f.wallets.Guard(f.db, wallet)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(guardAddr))
	enabled, err := f.wallets.IsModuleEnabled(f.db, wallet, rec.WillAddress)
	assert.Nil(t, err)
	assert.Equal(t, false, enabled)

	// Detached, the wallet can receive a new will.
	f.create(t, signer, &CreateWillMsg{
		Kind:  will.Forwarding,
		Main:  mainConfig(row(weavetest.NewAddress(), addrs(bank.NativeAsset), 100)),
		Extra: extra(1),
		Safe:  wallet,
	})
}
