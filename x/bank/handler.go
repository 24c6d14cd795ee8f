package bank

import (
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/x"
)

const (
	sendCost        int64 = 100
	createTokenCost int64 = 1000
	mintCost        int64 = 100
)

// EventTransfer is the kind of the event emitted by a delivered send.
const EventTransfer = "Transfer"

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r testament.Registry, auth x.Authenticator, ctrl *BaseController) {
	r.Handle(PathSendMsg, SendHandler{auth: auth, ctrl: ctrl})
	r.Handle(PathCreateTokenMsg, CreateTokenHandler{auth: auth, ctrl: ctrl})
	r.Handle(PathMintMsg, MintHandler{auth: auth, ctrl: ctrl})
}

// RegisterQuery will register balances as "/balance", tokens as "/token" and
// the contract registry as "/contract".
func RegisterQuery(qr testament.QueryRouter) {
	NewBalanceBucket().Register("balance", qr)
	NewTokenBucket().Register("token", qr)
	NewContractBucket().Register("contract", qr)
}

// SendHandler moves value between two addresses.
type SendHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ testament.Handler = SendHandler{}

func (h SendHandler) Check(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*testament.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &testament.CheckResult{GasAllocated: sendCost}, nil
}

func (h SendHandler) Deliver(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*testament.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	amount, err := ParseAmount(msg.Amount)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Transfer(ctx, db, msg.Asset, msg.Source, msg.Destination, amount); err != nil {
		return nil, err
	}
	res := &testament.DeliverResult{}
	res.Emit(EventTransfer, &TransferEvent{
		Asset:  msg.Asset,
		From:   msg.Source,
		To:     msg.Destination,
		Amount: AmountBytes(amount),
	})
	return res, nil
}

func (h SendHandler) validate(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := testament.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	// Source defaults to the main signer.
	if msg.Source == nil {
		msg.Source = x.MainSigner(ctx, h.auth)
		if msg.Source == nil {
			return nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
		}
	}
	if !h.auth.HasAddress(ctx, msg.Source) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "source did not authorize")
	}
	switch ok, err := h.ctrl.AssetExists(db, msg.Asset); {
	case err != nil:
		return nil, err
	case !ok:
		return nil, errors.Wrapf(ErrUnknownAsset, "%s", msg.Asset)
	}
	return &msg, nil
}

// CreateTokenHandler registers a new token, minted by the signer.
type CreateTokenHandler struct {
	auth x.Authenticator
	ctrl *BaseController
}

var _ testament.Handler = CreateTokenHandler{}

func (h CreateTokenHandler) Check(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*testament.CheckResult, error) {
	if _, _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &testament.CheckResult{GasAllocated: createTokenCost}, nil
}

func (h CreateTokenHandler) Deliver(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*testament.DeliverResult, error) {
	msg, minter, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	token, err := h.ctrl.createToken(db, msg.Symbol, minter)
	if err != nil {
		return nil, err
	}
	return &testament.DeliverResult{Data: token.Address}, nil
}

func (h CreateTokenHandler) validate(ctx testament.Context, tx testament.Tx) (*CreateTokenMsg, testament.Address, error) {
	var msg CreateTokenMsg
	if err := testament.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	minter := x.MainSigner(ctx, h.auth)
	if minter == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	return &msg, minter, nil
}

// MintHandler credits new tokens. Only the token minter is allowed.
type MintHandler struct {
	auth x.Authenticator
	ctrl *BaseController
}

var _ testament.Handler = MintHandler{}

func (h MintHandler) Check(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*testament.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &testament.CheckResult{GasAllocated: mintCost}, nil
}

func (h MintHandler) Deliver(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*testament.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	amount, err := ParseAmount(msg.Amount)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Mint(ctx, db, msg.Token, msg.Recipient, amount); err != nil {
		return nil, err
	}
	return &testament.DeliverResult{}, nil
}

func (h MintHandler) validate(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*MintMsg, error) {
	var msg MintMsg
	if err := testament.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	var token Token
	if err := h.ctrl.tokens.One(db, msg.Token, &token); err != nil {
		if errors.ErrNotFound.Is(err) {
			return nil, errors.Wrapf(ErrUnknownAsset, "token %s", msg.Token)
		}
		return nil, err
	}
	if !h.auth.HasAddress(ctx, token.Minter) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "only the minter can mint")
	}
	return &msg, nil
}
