package will

import (
	"github.com/holiman/uint256"
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/crypto"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/x/bank"
)

// Policy names the rule an activation call is evaluated with.
type Policy int

const (
	// SignatureQuorum records the caller attestation and triggers once
	// enough beneficiaries attested and the owner is dormant.
	SignatureQuorum Policy = iota + 1
	// GuardDormancy triggers a forwarding will once its wallet guard saw no
	// transaction for the dormancy window.
	GuardDormancy
)

func (p Policy) String() string {
	switch p {
	case SignatureQuorum:
		return "signature_quorum"
	case GuardDormancy:
		return "guard_dormancy"
	}
	return "invalid"
}

// Activation is the outcome of an activation call.
type Activation struct {
	Policy    Policy
	Triggered bool
	// Assets and Amounts are the totals paid out per asset, in
	// configuration order. Both are empty if the will was not triggered.
	Assets  []testament.Address
	Amounts []*uint256.Int
	// NativeAmount is the native asset part of the payout.
	NativeAmount *uint256.Int
}

// Activate evaluates an activation request of a beneficiary. A call with a
// signature follows the SignatureQuorum policy, a call without one the
// GuardDormancy policy. Once triggered the plan is paid out and the will
// cannot change anymore.
func (c *Controller) Activate(ctx testament.Context, db testament.KVStore, caller, addr, beneficiary testament.Address, signature []byte, chainID uint64) (*Activation, error) {
	return c.ActivateWithHook(ctx, db, caller, addr, beneficiary, signature, chainID, nil)
}

// ActivateWithHook is Activate calling onTrigger, when not nil, after the
// Triggered status is stored and before the payout. An onTrigger error
// aborts the activation.
func (c *Controller) ActivateWithHook(ctx testament.Context, db testament.KVStore, caller, addr, beneficiary testament.Address, signature []byte, chainID uint64, onTrigger func() error) (*Activation, error) {
	w, err := c.load(db, caller, addr)
	if err != nil {
		return nil, err
	}
	if !w.IsBeneficiary(beneficiary) {
		return nil, errors.Wrapf(ErrNotBeneficiary, "%s", beneficiary)
	}
	if err := c.CheckLinkage(db, w); err != nil {
		return nil, err
	}
	now, err := testament.BlockUnixTime(ctx)
	if err != nil {
		return nil, err
	}
	last, err := c.lastActivity(db, w)
	if err != nil {
		return nil, err
	}

	res := &Activation{NativeAmount: new(uint256.Int)}
	if len(signature) == 0 {
		res.Policy = GuardDormancy
		if w.Kind != Forwarding {
			return nil, errors.Wrap(ErrSignatureInvalid, "signature required")
		}
		if !dormant(now, last, w.LackOfOutgoingTxRange) {
			return nil, errors.Wrapf(ErrNotEnoughConditionalActive, "last activity at %s", last)
		}
	} else {
		res.Policy = SignatureQuorum
		if err := verifyAttestation(w, beneficiary, signature, chainID); err != nil {
			return nil, err
		}
		if !w.HasSigned(beneficiary) {
			w.Signers = append(w.Signers, beneficiary)
		}
		if len(w.Signers) < int(w.MinRequiredSignatures) || !dormant(now, last, w.LackOfOutgoingTxRange) {
			return res, c.save(db, w)
		}
	}

	// Status is changed before any value leaves the source.
	w.Status = Triggered
	if err := c.save(db, w); err != nil {
		return nil, err
	}
	if onTrigger != nil {
		if err := onTrigger(); err != nil {
			return nil, err
		}
	}
	if err := c.payout(ctx, db, w, res); err != nil {
		return nil, err
	}
	res.Triggered = true
	testament.GetLogger(ctx).Info("will triggered",
		"willId", w.WillID, "owner", w.Owner, "kind", w.Kind, "policy", res.Policy)
	return res, nil
}

// verifyAttestation checks that the beneficiary signed the attestation of
// this will.
func verifyAttestation(w *Will, beneficiary testament.Address, signature []byte, chainID uint64) error {
	signer, err := crypto.RecoverWillSigner(signature, chainID, uint32(w.Kind), w.WillID, w.Owner, beneficiary)
	if err != nil {
		return errors.Wrap(ErrSignatureInvalid, err.Error())
	}
	if !signer.Equals(beneficiary) {
		return errors.Wrapf(ErrSignatureInvalid, "signed by %s", signer)
	}
	return nil
}

// payout transfers floor(balance * percent / 100) of every asset to every
// beneficiary. Balances are read before the first transfer. The remainder
// of the division stays at the source.
func (c *Controller) payout(ctx testament.Context, db testament.KVStore, w *Will, res *Activation) error {
	source := w.Source()
	balances := make([]*uint256.Int, len(w.Assets))
	for i, asset := range w.Assets {
		b, err := c.bank.Balance(db, asset, source)
		if err != nil {
			return err
		}
		balances[i] = b
	}

	hundred := uint256.NewInt(100)
	for i, asset := range w.Assets {
		total := new(uint256.Int)
		for _, b := range w.Beneficiaries {
			percent := w.Percent(asset, b)
			if percent == 0 {
				continue
			}
			amount, _ := new(uint256.Int).MulDivOverflow(balances[i], uint256.NewInt(uint64(percent)), hundred)
			if err := c.transfer(ctx, db, w, asset, b, amount); err != nil {
				return errors.Wrapf(err, "pay %s of %s to %s", amount.Dec(), asset, b)
			}
			total.Add(total, amount)
		}
		res.Assets = append(res.Assets, asset)
		res.Amounts = append(res.Amounts, total)
		if bank.IsNative(asset) {
			res.NativeAmount = total
		}
	}
	return nil
}

func (c *Controller) transfer(ctx testament.Context, db testament.KVStore, w *Will, asset, to testament.Address, amount *uint256.Int) error {
	if w.Kind == Forwarding {
		return c.wallets.ExecFromModule(ctx, db, w.Safe, w.Address, asset, to, amount)
	}
	return c.bank.Transfer(ctx, db, asset, w.Address, to, amount)
}

func (c *Controller) lastActivity(db testament.ReadOnlyKVStore, w *Will) (testament.UnixTime, error) {
	if w.Kind == Forwarding {
		return c.guards.LastTimestamp(db, w.Guard)
	}
	return testament.UnixTime(w.LastActivity), nil
}

func dormant(now, last testament.UnixTime, window int64) bool {
	return int64(now-last) >= window
}

// CanActivate reports whether an activation call by a beneficiary would
// trigger the will now. It does not change any state.
func (c *Controller) CanActivate(ctx testament.Context, db testament.ReadOnlyKVStore, addr testament.Address) (bool, error) {
	w, err := c.Get(db, addr)
	if err != nil {
		return false, err
	}
	if w.Status != Active {
		return false, nil
	}
	if err := c.CheckLinkage(db, w); err != nil {
		return false, nil
	}
	now, err := testament.BlockUnixTime(ctx)
	if err != nil {
		return false, err
	}
	last, err := c.lastActivity(db, w)
	if err != nil {
		return false, err
	}
	if !dormant(now, last, w.LackOfOutgoingTxRange) {
		return false, nil
	}
	if w.Kind == Forwarding {
		return true, nil
	}
	return len(w.Signers) >= int(w.MinRequiredSignatures), nil
}
