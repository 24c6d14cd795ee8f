package safe

import (
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/x"
)

// ExecTx is implemented by a transaction that can act on behalf of a wallet.
type ExecTx interface {
	// GetExec returns nil if the transaction does not act as a wallet.
	GetExec() *ExecInfo
}

// Decorator executes a transaction on behalf of a wallet if the
// transaction carries an exec header.
type Decorator struct {
	auth  x.Authenticator
	ctrl  *Controller
	guard TransactionGuard
}

var _ testament.Decorator = Decorator{}

// NewDecorator returns a wallet decorator. Owner signatures are read from
// auth, guard is called for wallets that have one attached.
func NewDecorator(auth x.Authenticator, ctrl *Controller, guard TransactionGuard) Decorator {
	return Decorator{auth: auth, ctrl: ctrl, guard: guard}
}

// Check authorizes the wallet before calling down the stack.
func (d Decorator) Check(ctx testament.Context, db testament.KVStore, tx testament.Tx, next testament.Checker) (*testament.CheckResult, error) {
	ctx, wallet, err := d.exec(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res, err := next.Check(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := d.afterExecution(ctx, db, wallet); err != nil {
		return nil, err
	}
	return res, nil
}

// Deliver authorizes the wallet before calling down the stack.
func (d Decorator) Deliver(ctx testament.Context, db testament.KVStore, tx testament.Tx, next testament.Deliverer) (*testament.DeliverResult, error) {
	ctx, wallet, err := d.exec(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := d.afterExecution(ctx, db, wallet); err != nil {
		return nil, err
	}
	return res, nil
}

// exec authorizes the wallet named by the transaction exec header. The guard
// is called and the wallet nonce bumped before the message is executed.
func (d Decorator) exec(ctx testament.Context, db testament.KVStore, tx testament.Tx) (testament.Context, *Safe, error) {
	etx, ok := tx.(ExecTx)
	if !ok {
		return ctx, nil, nil
	}
	info := etx.GetExec()
	if info == nil {
		return ctx, nil, nil
	}
	if err := info.Validate(); err != nil {
		return nil, nil, errors.Wrap(err, "exec")
	}

	wallet, err := d.ctrl.Get(db, info.Wallet)
	if err != nil {
		return nil, nil, err
	}
	if !x.HasNAddresses(ctx, d.auth, wallet.Owners, int(wallet.Threshold)) {
		return nil, nil, errors.Wrapf(errors.ErrUnauthorized, "wallet %s requires %d owner signatures", wallet.Address, wallet.Threshold)
	}
	if wallet.Guard != nil && d.guard != nil {
		if err := d.guard.CheckTransaction(ctx, db, wallet.Address, wallet.Guard, info.Operation); err != nil {
			return nil, nil, errors.Wrap(err, "guard")
		}
	}
	wallet.Nonce++
	if err := d.ctrl.save(db, wallet); err != nil {
		return nil, nil, err
	}
	return withWallet(ctx, wallet.Address), wallet, nil
}

func (d Decorator) afterExecution(ctx testament.Context, db testament.KVStore, wallet *Safe) error {
	if wallet == nil || d.guard == nil {
		return nil
	}
	// The message may have replaced the guard.
	guard, err := d.ctrl.Guard(db, wallet.Address)
	if err != nil {
		return err
	}
	if guard == nil {
		return nil
	}
	return d.guard.CheckAfterExecution(ctx, db, wallet.Address, guard, true)
}
