package will

import (
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/crypto"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/weavetest"
	"github.com/iov-one/testament/weavetest/assert"
	"github.com/iov-one/testament/x/bank"
	"github.com/iov-one/testament/x/safe"
)

const chainID = 31337

func sign(t testing.TB, k *crypto.PrivateKey, w *Will) []byte {
	t.Helper()
	sig, err := crypto.SignWill(k, chainID, uint32(w.Kind), w.WillID, w.Owner)
	assert.Nil(t, err)
	return sig
}

func TestSignatureQuorumPayout(t *testing.T) {
	f := newFixture(t)
	owner := weavetest.NewAddress()
	k1, k2 := weavetest.NewKey(), weavetest.NewKey()
	b1, b2 := k1.Address(), k2.Address()

	w := f.custody(t, owner, 2, row(b1, addrs(f.token), 60), row(b2, addrs(f.token), 40))
	f.fund(t, f.token, w.Address, 100)

	ctx := at(2 * time.Hour)
	res, err := f.ctrl.Activate(ctx, f.db, f.router, w.Address, b1, sign(t, k1, w), chainID)
	assert.Nil(t, err)
	assert.Equal(t, false, res.Triggered)
	assert.Equal(t, SignatureQuorum, res.Policy)
	ok, err := f.ctrl.CanActivate(ctx, f.db, w.Address)
	assert.Nil(t, err)
	assert.Equal(t, false, ok)

	res, err = f.ctrl.Activate(ctx, f.db, f.router, w.Address, b2, sign(t, k2, w), chainID)
	assert.Nil(t, err)
	assert.Equal(t, true, res.Triggered)
	assert.Equal(t, []testament.Address{f.token}, res.Assets)
	assert.Equal(t, uint64(100), res.Amounts[0].Uint64())
	assert.Equal(t, uint64(0), res.NativeAmount.Uint64())

	assert.Equal(t, uint64(60), f.balance(t, f.token, b1))
	assert.Equal(t, uint64(40), f.balance(t, f.token, b2))
	assert.Equal(t, uint64(0), f.balance(t, f.token, w.Address))

	_, _, status, err := f.ctrl.Info(f.db, w.Address)
	assert.Nil(t, err)
	assert.Equal(t, Triggered, status)

	_, err = f.ctrl.Activate(ctx, f.db, f.router, w.Address, b1, sign(t, k1, w), chainID)
	assert.IsErr(t, ErrWillNotActive, err)
}

func TestQuorumWaitsForDormancy(t *testing.T) {
	f := newFixture(t)
	owner := weavetest.NewAddress()
	k1, k2 := weavetest.NewKey(), weavetest.NewKey()
	w := f.custody(t, owner, 2,
		row(k1.Address(), addrs(bank.NativeAsset), 50),
		row(k2.Address(), addrs(bank.NativeAsset), 50))
	f.fund(t, bank.NativeAsset, w.Address, 1000)

	early := at(30 * time.Minute)
	for _, k := range []*crypto.PrivateKey{k1, k2} {
		res, err := f.ctrl.Activate(early, f.db, f.router, w.Address, k.Address(), sign(t, k, w), chainID)
		assert.Nil(t, err)
		assert.Equal(t, false, res.Triggered)
	}
	signers, err := f.ctrl.Signers(f.db, w.Address)
	assert.Nil(t, err)
	assert.Equal(t, []testament.Address{k1.Address(), k2.Address()}, signers)

	// An owner action restarts the dormancy window.
	_, err = f.ctrl.SetNameNote(at(40*time.Minute), f.db, f.router, w.Address, "still here", "")
	assert.Nil(t, err)
	ok, err := f.ctrl.CanActivate(at(90*time.Minute), f.db, w.Address)
	assert.Nil(t, err)
	assert.Equal(t, false, ok)

	late := at(2 * time.Hour)
	ok, err = f.ctrl.CanActivate(late, f.db, w.Address)
	assert.Nil(t, err)
	assert.Equal(t, true, ok)

	// Repeated attestation is idempotent and triggers now.
	res, err := f.ctrl.Activate(late, f.db, f.router, w.Address, k1.Address(), sign(t, k1, w), chainID)
	assert.Nil(t, err)
	assert.Equal(t, true, res.Triggered)
	assert.Equal(t, uint64(1000), res.NativeAmount.Uint64())
	assert.Equal(t, uint64(500), f.balance(t, bank.NativeAsset, k1.Address()))
}

func TestActivationRejected(t *testing.T) {
	f := newFixture(t)
	owner := weavetest.NewAddress()
	k1, k2 := weavetest.NewKey(), weavetest.NewKey()
	w := f.custody(t, owner, 1,
		row(k1.Address(), addrs(bank.NativeAsset), 50),
		row(k2.Address(), addrs(bank.NativeAsset), 50))
	ctx := at(2 * time.Hour)

	_, err := f.ctrl.Activate(ctx, f.db, f.router, w.Address, owner, sign(t, k1, w), chainID)
	assert.IsErr(t, ErrNotBeneficiary, err)

	_, err = f.ctrl.Activate(ctx, f.db, f.router, w.Address, k2.Address(), sign(t, k1, w), chainID)
	assert.IsErr(t, ErrSignatureInvalid, err)

	_, err = f.ctrl.Activate(ctx, f.db, f.router, w.Address, k1.Address(), sign(t, k1, w), chainID+1)
	assert.IsErr(t, ErrSignatureInvalid, err)

	_, err = f.ctrl.Activate(ctx, f.db, f.router, w.Address, k1.Address(), nil, chainID)
	assert.IsErr(t, ErrSignatureInvalid, err)

	_, err = f.ctrl.Activate(ctx, f.db, owner, w.Address, k1.Address(), sign(t, k1, w), chainID)
	assert.IsErr(t, ErrOnlyRouter, err)
}

func TestAttestationReplay(t *testing.T) {
	k := weavetest.NewKey()
	owner := weavetest.NewAddress()
	signed := &Will{WillID: 5, Kind: Custody, Owner: owner}
	sig := sign(t, k, signed)

	cases := map[string]struct {
		Will    *Will
		WantErr *errors.Error
	}{
		"same will":   {Will: signed, WantErr: nil},
		"other id":    {Will: &Will{WillID: 6, Kind: Custody, Owner: owner}, WantErr: ErrSignatureInvalid},
		"other kind":  {Will: &Will{WillID: 5, Kind: Forwarding, Owner: owner}, WantErr: ErrSignatureInvalid},
		"other owner": {Will: &Will{WillID: 5, Kind: Custody, Owner: weavetest.NewAddress()}, WantErr: ErrSignatureInvalid},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := verifyAttestation(tc.Will, k.Address(), sig, chainID)
			if !tc.WantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}

func TestFloorPayout(t *testing.T) {
	cases := map[string]struct {
		Balance       uint64
		WantEach      uint64
		WantRemainder uint64
	}{
		"remainder stays at source": {Balance: 101, WantEach: 50, WantRemainder: 1},
		"exact split":               {Balance: 150, WantEach: 75, WantRemainder: 0},
		"nothing to pay":            {Balance: 0, WantEach: 0, WantRemainder: 0},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			k1, k2 := weavetest.NewKey(), weavetest.NewKey()
			w := f.custody(t, weavetest.NewAddress(), 1,
				row(k1.Address(), addrs(bank.NativeAsset), 50),
				row(k2.Address(), addrs(bank.NativeAsset), 50))
			f.fund(t, bank.NativeAsset, w.Address, tc.Balance)

			res, err := f.ctrl.Activate(at(time.Hour), f.db, f.router, w.Address, k1.Address(), sign(t, k1, w), chainID)
			assert.Nil(t, err)
			assert.Equal(t, true, res.Triggered)
			assert.Equal(t, tc.WantEach, f.balance(t, bank.NativeAsset, k1.Address()))
			assert.Equal(t, tc.WantEach, f.balance(t, bank.NativeAsset, k2.Address()))
			assert.Equal(t, tc.WantRemainder, f.balance(t, bank.NativeAsset, w.Address))
		})
	}
}

func TestTriggerHook(t *testing.T) {
	f := newFixture(t)
	k1 := weavetest.NewKey()
	w := f.custody(t, weavetest.NewAddress(), 1, row(k1.Address(), addrs(bank.NativeAsset), 100))
	f.fund(t, bank.NativeAsset, w.Address, 80)

	calls := 0
	hook := func() error {
		calls++
		_, _, status, err := f.ctrl.Info(f.db, w.Address)
		assert.Nil(t, err)
		assert.Equal(t, Triggered, status)
		assert.Equal(t, uint64(0), f.balance(t, bank.NativeAsset, k1.Address()))
		assert.Equal(t, uint64(80), f.balance(t, bank.NativeAsset, w.Address))
		return nil
	}
	res, err := f.ctrl.ActivateWithHook(at(time.Hour), f.db, f.router, w.Address, k1.Address(), sign(t, k1, w), chainID, hook)
	assert.Nil(t, err)
	assert.Equal(t, true, res.Triggered)
	assert.Equal(t, 1, calls)
	assert.Equal(t, uint64(80), f.balance(t, bank.NativeAsset, k1.Address()))

	// a failing hook stops the payout
	f = newFixture(t)
	w = f.custody(t, weavetest.NewAddress(), 1, row(k1.Address(), addrs(bank.NativeAsset), 100))
	f.fund(t, bank.NativeAsset, w.Address, 80)
	fail := func() error { return errors.Wrap(errors.ErrState, "registry") }
	_, err = f.ctrl.ActivateWithHook(at(time.Hour), f.db, f.router, w.Address, k1.Address(), sign(t, k1, w), chainID, fail)
	assert.IsErr(t, errors.ErrState, err)
	assert.Equal(t, uint64(0), f.balance(t, bank.NativeAsset, k1.Address()))
}

func TestGuardDormancy(t *testing.T) {
	f := newFixture(t)
	signer := weavetest.NewAddress()
	b1, b2 := weavetest.NewAddress(), weavetest.NewAddress()
	w := f.forwarding(t, signer, row(b1, addrs(bank.NativeAsset, f.token), 70, 100), row(b2, addrs(bank.NativeAsset), 30))
	f.fund(t, bank.NativeAsset, w.Safe, 1000)
	f.fund(t, f.token, w.Safe, 10)

	_, err := f.ctrl.Activate(at(30*time.Minute), f.db, f.router, w.Address, b1, nil, chainID)
	assert.IsErr(t, ErrNotEnoughConditionalActive, err)

	// Wallet activity moves the dormancy reference.
	assert.Nil(t, f.guards.CheckTransaction(at(45*time.Minute), f.db, w.Safe, w.Guard, safe.DelegateCall))
	_, err = f.ctrl.Activate(at(90*time.Minute), f.db, f.router, w.Address, b1, nil, chainID)
	assert.IsErr(t, ErrNotEnoughConditionalActive, err)
	ok, err := f.ctrl.CanActivate(at(90*time.Minute), f.db, w.Address)
	assert.Nil(t, err)
	assert.Equal(t, false, ok)

	_, err = f.ctrl.Activate(at(2*time.Hour), f.db, f.router, w.Address, signer, nil, chainID)
	assert.IsErr(t, ErrNotBeneficiary, err)

	res, err := f.ctrl.Activate(at(2*time.Hour), f.db, f.router, w.Address, b2, nil, chainID)
	assert.Nil(t, err)
	assert.Equal(t, true, res.Triggered)
	assert.Equal(t, GuardDormancy, res.Policy)
	assert.Equal(t, uint64(1000), res.NativeAmount.Uint64())
	assert.Equal(t, uint64(700), f.balance(t, bank.NativeAsset, b1))
	assert.Equal(t, uint64(300), f.balance(t, bank.NativeAsset, b2))
	assert.Equal(t, uint64(10), f.balance(t, f.token, b1))
	assert.Equal(t, uint64(0), f.balance(t, bank.NativeAsset, w.Safe))
}

func TestForwardingLinkage(t *testing.T) {
	f := newFixture(t)
	b1 := weavetest.NewAddress()
	w := f.forwarding(t, weavetest.NewAddress(), row(b1, addrs(bank.NativeAsset), 100))
	ctx := at(2 * time.Hour)

	assert.Nil(t, f.wallets.SetGuard(f.db, w.Safe, weavetest.NewAddress()))
	_, err := f.ctrl.Activate(ctx, f.db, f.router, w.Address, b1, nil, chainID)
	assert.IsErr(t, ErrGuardSafeWalletInvalid, err)
	_, err = f.ctrl.SetNameNote(ctx, f.db, f.router, w.Address, "name", "note")
	assert.IsErr(t, ErrGuardSafeWalletInvalid, err)
	ok, err := f.ctrl.CanActivate(ctx, f.db, w.Address)
	assert.Nil(t, err)
	assert.Equal(t, false, ok)

	assert.Nil(t, f.wallets.SetGuard(f.db, w.Safe, w.Guard))
	assert.Nil(t, f.wallets.DisableModule(f.db, w.Safe, w.Address))
	_, err = f.ctrl.Activate(ctx, f.db, f.router, w.Address, b1, nil, chainID)
	assert.IsErr(t, ErrModuleSafeWalletInvalid, err)
	_, err = f.ctrl.SetActivationTrigger(ctx, f.db, f.router, w.Address, 60)
	assert.IsErr(t, ErrModuleSafeWalletInvalid, err)

	assert.Nil(t, f.wallets.EnableModule(f.db, w.Safe, w.Address))
	_, err = f.ctrl.SetActivationTrigger(ctx, f.db, f.router, w.Address, 60)
	assert.Nil(t, err)
}

func TestDeleteAndWithdraw(t *testing.T) {
	f := newFixture(t)
	owner := weavetest.NewAddress()
	k1 := weavetest.NewKey()
	w := f.custody(t, owner, 1, row(k1.Address(), addrs(bank.NativeAsset), 100))
	f.fund(t, bank.NativeAsset, w.Address, 1000)
	ctx := at(time.Minute)

	err := f.ctrl.Withdraw(ctx, f.db, f.router, w.Address, uint256.NewInt(1001))
	assert.IsErr(t, ErrNotEnoughEther, err)
	assert.Nil(t, f.ctrl.Withdraw(ctx, f.db, f.router, w.Address, uint256.NewInt(400)))
	assert.Equal(t, uint64(400), f.balance(t, bank.NativeAsset, owner))

	_, err = f.ctrl.Delete(ctx, f.db, owner, w.Address)
	assert.IsErr(t, ErrOnlyRouter, err)

	refund, err := f.ctrl.Delete(ctx, f.db, f.router, w.Address)
	assert.Nil(t, err)
	assert.Equal(t, uint64(600), refund.Uint64())
	assert.Equal(t, uint64(1000), f.balance(t, bank.NativeAsset, owner))
	assert.Equal(t, uint64(0), f.balance(t, bank.NativeAsset, w.Address))

	stored, err := f.ctrl.Get(f.db, w.Address)
	assert.Nil(t, err)
	assert.Equal(t, Deleted, stored.Status)
	assert.Equal(t, 0, len(stored.Beneficiaries))

	_, err = f.ctrl.Delete(ctx, f.db, f.router, w.Address)
	assert.IsErr(t, ErrWillNotActive, err)
	err = f.ctrl.Withdraw(ctx, f.db, f.router, w.Address, uint256.NewInt(1))
	assert.IsErr(t, ErrWillNotActive, err)
	_, err = f.ctrl.Activate(at(time.Hour), f.db, f.router, w.Address, k1.Address(), sign(t, k1, w), chainID)
	assert.IsErr(t, ErrWillNotActive, err)
}
