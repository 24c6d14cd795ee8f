package safe

import (
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/x"
)

const (
	createSafeCost int64 = 300
	adminCost      int64 = 100
)

// RegisterRoutes will instantiate and register
// all handlers in this package
// Only guards that watch the wallet can be attached to it.
func RegisterRoutes(r testament.Registry, auth x.Authenticator, ctrl *Controller, guard TransactionGuard) {
	admin := AdminHandler{auth: auth, ctrl: ctrl, guard: guard}
	r.Handle(PathCreateSafeMsg, CreateSafeHandler{auth: auth, ctrl: ctrl})
	r.Handle(PathSetGuardMsg, admin)
	r.Handle(PathEnableModuleMsg, admin)
	r.Handle(PathDisableModuleMsg, admin)
}

// RegisterQuery exposes wallets under "/safe".
func RegisterQuery(qr testament.QueryRouter) {
	NewBucket().Register("safe", qr)
}

// CreateSafeHandler creates a wallet. Data of the result is the wallet
// address.
type CreateSafeHandler struct {
	auth x.Authenticator
	ctrl *Controller
}

var _ testament.Handler = CreateSafeHandler{}

func (h CreateSafeHandler) Check(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*testament.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &testament.CheckResult{GasAllocated: createSafeCost}, nil
}

func (h CreateSafeHandler) Deliver(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*testament.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	s, err := h.ctrl.Create(db, msg.Owners, msg.Threshold)
	if err != nil {
		return nil, err
	}
	return &testament.DeliverResult{Data: s.Address}, nil
}

func (h CreateSafeHandler) validate(ctx testament.Context, tx testament.Tx) (*CreateSafeMsg, error) {
	if x.MainSigner(ctx, h.auth) == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	var msg CreateSafeMsg
	if err := testament.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return &msg, nil
}

// AdminHandler manages the wallet guard and modules. The wallet itself must
// authorize, which means the message is executed through an exec header.
type AdminHandler struct {
	auth  x.Authenticator
	ctrl  *Controller
	guard TransactionGuard
}

var _ testament.Handler = AdminHandler{}

func (h AdminHandler) Check(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*testament.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &testament.CheckResult{GasAllocated: adminCost}, nil
}

func (h AdminHandler) Deliver(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*testament.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	switch msg := msg.(type) {
	case *SetGuardMsg:
		err = h.ctrl.SetGuard(db, msg.Wallet, msg.Guard)
	case *EnableModuleMsg:
		err = h.ctrl.EnableModule(db, msg.Wallet, msg.Module)
	case *DisableModuleMsg:
		err = h.ctrl.DisableModule(db, msg.Wallet, msg.Module)
	}
	if err != nil {
		return nil, err
	}
	return &testament.DeliverResult{}, nil
}

func (h AdminHandler) validate(ctx testament.Context, db testament.KVStore, tx testament.Tx) (testament.Msg, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	var wallet, guard testament.Address
	switch m := msg.(type) {
	case *SetGuardMsg:
		wallet, guard = m.Wallet, m.Guard
	case *EnableModuleMsg:
		wallet = m.Wallet
	case *DisableModuleMsg:
		wallet = m.Wallet
	default:
		return nil, errors.Wrapf(errors.ErrType, "unexpected message %T", msg)
	}
	if err := msg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid message")
	}
	if _, err := h.ctrl.Get(db, wallet); err != nil {
		return nil, err
	}
	if !h.auth.HasAddress(ctx, wallet) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "wallet authority required")
	}
	// An unknown guard would reject every later wallet transaction, the one
	// removing it included.
	if guard != nil {
		if err := h.checkGuard(db, wallet, guard); err != nil {
			return nil, err
		}
	}
	return msg, nil
}

func (h AdminHandler) checkGuard(db testament.ReadOnlyKVStore, wallet, guard testament.Address) error {
	if h.guard == nil {
		return errors.Wrap(errors.ErrState, "guards are not supported")
	}
	ok, err := h.guard.Watches(db, wallet, guard)
	if err != nil {
		return errors.Wrap(err, "guard")
	}
	if !ok {
		return errors.Wrapf(errors.ErrInput, "%s is not a guard of wallet %s", guard, wallet)
	}
	return nil
}
