package router

import (
	"github.com/holiman/uint256"
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/gconf"
	"github.com/iov-one/testament/orm"
	"github.com/iov-one/testament/x"
	"github.com/iov-one/testament/x/bank"
	"github.com/iov-one/testament/x/will"
	"github.com/samber/lo"
)

const (
	createWillCost   int64 = 500
	updateWillCost   int64 = 200
	activateWillCost int64 = 300
	adminCost        int64 = 50
)

// Event kinds emitted by the router handlers.
const (
	EventWillCreated                  = "WillCreated"
	EventWillDeleted                  = "WillDeleted"
	EventWillWithdrawn                = "WillWithdrawn"
	EventWillActivated                = "WillActivated"
	EventWillDistributionUpdated      = "WillDistributionUpdated"
	EventWillBeneficiaryUpdated       = "WillBeneficiaryUpdated"
	EventWillConfigUpdated            = "WillConfigUpdated"
	EventWillActivationTriggerUpdated = "WillActivationTriggerUpdated"
	EventWillNameNoteUpdated          = "WillNameNoteUpdated"
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r testament.Registry, auth x.Authenticator, ctrl *Controller) {
	r.Handle(PathCreateWillMsg, CreateWillHandler{auth: auth, ctrl: ctrl})

	owned := WillHandler{auth: auth, ctrl: ctrl}
	r.Handle(PathDeleteWillMsg, owned)
	r.Handle(PathWithdrawMsg, owned)
	r.Handle(PathUpdateDistributionMsg, owned)
	r.Handle(PathSetBeneficiariesMsg, owned)
	r.Handle(PathSetConfigMsg, owned)
	r.Handle(PathSetActivationTriggerMsg, owned)
	r.Handle(PathSetNameNoteMsg, owned)

	r.Handle(PathActivateWillMsg, ActivateWillHandler{auth: auth, ctrl: ctrl})

	r.Handle(PathUpdateConfigurationMsg, gconf.NewUpdateConfigurationHandler(PackageName, &Configuration{}, auth))
	admin := AdminHandler{auth: auth}
	r.Handle(PathSetWillFeeMsg, admin)
	r.Handle(PathSetWillLimitMsg, admin)
	r.Handle(PathSetBeneficiaryLimitMsg, admin)
	r.Handle(PathAddOperatorMsg, admin)
	r.Handle(PathRemoveOperatorMsg, admin)
}

// CreateWillHandler deploys a will. Data of the result is the encoded will
// id.
type CreateWillHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ testament.Handler = CreateWillHandler{}

func (h CreateWillHandler) Check(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*testament.CheckResult, error) {
	if _, _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &testament.CheckResult{GasAllocated: createWillCost}, nil
}

func (h CreateWillHandler) Deliver(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*testament.DeliverResult, error) {
	msg, payer, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	deposit, err := bank.ParseAmount(msg.Deposit)
	if err != nil {
		return nil, err
	}
	rec, err := h.ctrl.Create(ctx, db, payer, CreateParams{
		Kind:    msg.Kind,
		Main:    msg.Main,
		Extra:   msg.Extra,
		Safe:    msg.Safe,
		Deposit: deposit,
	})
	if err != nil {
		return nil, err
	}
	res := &testament.DeliverResult{Data: orm.EncodeSequence(rec.WillID)}
	res.Emit(EventWillCreated, &WillCreatedEvent{
		WillID:       rec.WillID,
		WillAddress:  rec.WillAddress,
		GuardAddress: rec.GuardAddress,
		Owner:        rec.Owner,
		Safe:         msg.Safe,
		Main:         msg.Main,
		Extra:        msg.Extra,
		Timestamp:    rec.CreatedAt,
	})
	return res, nil
}

func (h CreateWillHandler) validate(ctx testament.Context, tx testament.Tx) (*CreateWillMsg, testament.Address, error) {
	var msg CreateWillMsg
	if err := testament.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	payer := x.MainSigner(ctx, h.auth)
	if payer == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	// Attaching a guard and a module changes the wallet, so the wallet
	// itself must authorize the creation through an exec header.
	if msg.Kind == will.Forwarding && !h.auth.HasAddress(ctx, msg.Safe) {
		return nil, nil, errors.Wrapf(errors.ErrUnauthorized, "wallet %s did not authorize", msg.Safe)
	}
	return &msg, payer, nil
}

// WillHandler processes the messages of a will owner. The owner of a
// forwarding will is its wallet, so those messages are executed through an
// exec header.
type WillHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ testament.Handler = WillHandler{}

func (h WillHandler) Check(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*testament.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &testament.CheckResult{GasAllocated: updateWillCost}, nil
}

func (h WillHandler) Deliver(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*testament.DeliverResult, error) {
	msg, rec, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	now, err := testament.BlockUnixTime(ctx)
	if err != nil {
		return nil, err
	}
	res := &testament.DeliverResult{}

	switch msg := msg.(type) {
	case *DeleteWillMsg:
		refund, err := h.ctrl.Delete(ctx, db, rec)
		if err != nil {
			return nil, err
		}
		res.Emit(EventWillDeleted, &WillDeletedEvent{
			WillID:    rec.WillID,
			Owner:     rec.Owner,
			Refund:    bank.AmountBytes(refund),
			Timestamp: int64(now),
		})
		return res, nil
	case *WithdrawMsg:
		amount, err := bank.ParseAmount(msg.Amount)
		if err != nil {
			return nil, err
		}
		if err := h.ctrl.Withdraw(ctx, db, rec, amount); err != nil {
			return nil, err
		}
		res.Emit(EventWillWithdrawn, &WillWithdrawnEvent{
			WillID:    rec.WillID,
			Amount:    msg.Amount,
			Timestamp: int64(now),
		})
		return res, nil
	}

	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	var (
		w    *will.Will
		kind string
	)
	wills := h.ctrl.Wills()
	switch msg := msg.(type) {
	case *UpdateDistributionMsg:
		kind = EventWillDistributionUpdated
		w, err = wills.SetDistribution(ctx, db, Address, rec.WillAddress, msg.Nicknames, msg.Distributions, msg.MinRequiredSignatures, conf.BeneficiaryLimit)
	case *SetBeneficiariesMsg:
		kind = EventWillBeneficiaryUpdated
		w, err = wills.SetBeneficiaries(ctx, db, Address, rec.WillAddress, msg.Nicknames, msg.Beneficiaries, msg.MinRequiredSignatures, conf.BeneficiaryLimit)
	case *SetConfigMsg:
		kind = EventWillConfigUpdated
		w, err = wills.SetConfig(ctx, db, Address, rec.WillAddress, msg.Main, msg.Extra, conf.BeneficiaryLimit)
	case *SetActivationTriggerMsg:
		kind = EventWillActivationTriggerUpdated
		w, err = wills.SetActivationTrigger(ctx, db, Address, rec.WillAddress, msg.LackOfOutgoingTxRange)
	case *SetNameNoteMsg:
		kind = EventWillNameNoteUpdated
		w, err = wills.SetNameNote(ctx, db, Address, rec.WillAddress, msg.Name, msg.Note)
	default:
		return nil, errors.Wrapf(errors.ErrType, "unexpected message %T", msg)
	}
	if err != nil {
		return nil, err
	}
	main, extra := w.Config()
	res.Emit(kind, &WillUpdatedEvent{
		WillID:    rec.WillID,
		Main:      main,
		Extra:     extra,
		Timestamp: int64(now),
	})
	testament.GetLogger(ctx).Debug("will updated", "willId", rec.WillID, "event", kind)
	return res, nil
}

func (h WillHandler) validate(ctx testament.Context, db testament.KVStore, tx testament.Tx) (willMsg, *WillRecord, error) {
	raw, err := tx.GetMsg()
	if err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	msg, ok := raw.(willMsg)
	if !ok {
		return nil, nil, errors.Wrapf(errors.ErrType, "unexpected message %T", raw)
	}
	if err := msg.Validate(); err != nil {
		return nil, nil, errors.Wrap(err, "invalid message")
	}
	rec, err := h.ctrl.authorize(ctx, db, h.auth, msg.GetWillID())
	if err != nil {
		return nil, nil, err
	}
	return msg, rec, nil
}

// ActivateWillHandler processes an activation request of a beneficiary.
// The signer of the transaction is the beneficiary.
type ActivateWillHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ testament.Handler = ActivateWillHandler{}

func (h ActivateWillHandler) Check(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*testament.CheckResult, error) {
	if _, _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &testament.CheckResult{GasAllocated: activateWillCost}, nil
}

func (h ActivateWillHandler) Deliver(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*testament.DeliverResult, error) {
	msg, beneficiary, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	now, err := testament.BlockUnixTime(ctx)
	if err != nil {
		return nil, err
	}
	rec, act, err := h.ctrl.Activate(ctx, db, msg.WillID, beneficiary, msg.Signature)
	if err != nil {
		return nil, err
	}
	res := &testament.DeliverResult{}
	res.Emit(EventWillActivated, &WillActivatedEvent{
		WillID:       rec.WillID,
		Triggered:    act.Triggered,
		NativeAmount: bank.AmountBytes(act.NativeAmount),
		Assets:       act.Assets,
		Amounts:      lo.Map(act.Amounts, func(a *uint256.Int, _ int) []byte { return bank.AmountBytes(a) }),
		Signer:       beneficiary,
		Timestamp:    int64(now),
	})
	return res, nil
}

func (h ActivateWillHandler) validate(ctx testament.Context, tx testament.Tx) (*ActivateWillMsg, testament.Address, error) {
	var msg ActivateWillMsg
	if err := testament.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	return &msg, signer, nil
}

// AdminHandler changes single configuration values. The fee and the limits
// can be changed by the owner or an operator, the operator set by the
// owner only.
type AdminHandler struct {
	auth x.Authenticator
}

var _ testament.Handler = AdminHandler{}

func (h AdminHandler) Check(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*testament.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &testament.CheckResult{GasAllocated: adminCost}, nil
}

func (h AdminHandler) Deliver(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*testament.DeliverResult, error) {
	msg, conf, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	switch msg := msg.(type) {
	case *SetWillFeeMsg:
		conf.WillFee = msg.Fee
	case *SetWillLimitMsg:
		conf.WillLimit = msg.Limit
	case *SetBeneficiaryLimitMsg:
		conf.BeneficiaryLimit = msg.Limit
	case *AddOperatorMsg:
		if conf.IsOperator(msg.Operator) {
			return nil, errors.Wrapf(errors.ErrDuplicate, "operator %s", msg.Operator)
		}
		conf.Operators = append(conf.Operators, msg.Operator)
	case *RemoveOperatorMsg:
		if !conf.IsOperator(msg.Operator) {
			return nil, errors.Wrapf(errors.ErrNotFound, "operator %s", msg.Operator)
		}
		conf.Operators = lo.Filter(conf.Operators, func(o testament.Address, _ int) bool {
			return !o.Equals(msg.Operator)
		})
	}
	if err := gconf.Save(db, PackageName, conf); err != nil {
		return nil, err
	}
	testament.GetLogger(ctx).Info("router configuration changed", "path", msg.Path())
	return &testament.DeliverResult{}, nil
}

func (h AdminHandler) validate(ctx testament.Context, db testament.KVStore, tx testament.Tx) (testament.Msg, *Configuration, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	if err := msg.Validate(); err != nil {
		return nil, nil, errors.Wrap(err, "invalid message")
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, nil, err
	}
	isOwner := h.auth.HasAddress(ctx, conf.Owner)
	isOperator := lo.ContainsBy(conf.Operators, func(o testament.Address) bool { return h.auth.HasAddress(ctx, o) })

	switch msg.(type) {
	case *SetWillFeeMsg, *SetWillLimitMsg, *SetBeneficiaryLimitMsg:
		if !isOwner && !isOperator {
			return nil, nil, errors.Wrap(errors.ErrUnauthorized, "owner or operator required")
		}
	case *AddOperatorMsg, *RemoveOperatorMsg:
		if !isOwner {
			return nil, nil, errors.Wrap(errors.ErrUnauthorized, "owner required")
		}
	default:
		return nil, nil, errors.Wrapf(errors.ErrType, "unexpected message %T", msg)
	}
	return msg, conf, nil
}
