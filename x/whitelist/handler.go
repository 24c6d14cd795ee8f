package whitelist

import (
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/gconf"
	"github.com/iov-one/testament/x"
	"github.com/iov-one/testament/x/bank"
)

const updateCost int64 = 100

// EventWhitelistUpdated is emitted by a delivered update.
const EventWhitelistUpdated = "WhitelistUpdated"

// RegisterRoutes registers the whitelist update and the configuration
// update handlers.
func RegisterRoutes(r testament.Registry, auth x.Authenticator) {
	r.Handle(PathUpdateMsg, UpdateHandler{auth: auth})
	r.Handle(PathUpdateConfigurationMsg, gconf.NewUpdateConfigurationHandler(PackageName, &Configuration{}, auth))
}

// RegisterQuery exposes the whitelist under "/whitelist".
func RegisterQuery(qr testament.QueryRouter) {
	NewBucket().Register("whitelist", qr)
}

// UpdateHandler changes the eligibility of a list of assets. Only the
// configuration owner is allowed.
type UpdateHandler struct {
	auth x.Authenticator
}

var _ testament.Handler = UpdateHandler{}

func (h UpdateHandler) Check(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*testament.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &testament.CheckResult{GasAllocated: updateCost}, nil
}

func (h UpdateHandler) Deliver(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*testament.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	for _, a := range msg.Assets {
		if err := setAllowed(db, a, msg.Allowed); err != nil {
			return nil, errors.Wrapf(err, "asset %s", a)
		}
	}
	res := &testament.DeliverResult{}
	res.Emit(EventWhitelistUpdated, &WhitelistUpdatedEvent{Assets: msg.Assets, Allowed: msg.Allowed})
	return res, nil
}

func (h UpdateHandler) validate(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*UpdateMsg, error) {
	var msg UpdateMsg
	if err := testament.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	if !h.auth.HasAddress(ctx, conf.Owner) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "only the whitelist owner")
	}
	for _, a := range msg.Assets {
		if bank.IsNative(a) {
			return nil, errors.Wrap(errors.ErrInput, "native asset is always allowed")
		}
	}
	return &msg, nil
}
