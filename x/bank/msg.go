package bank

import (
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
)

const (
	PathSendMsg        = "bank/send"
	PathCreateTokenMsg = "bank/create_token"
	PathMintMsg        = "bank/mint"

	maxMemoLength = 128
)

var _ testament.Msg = (*SendMsg)(nil)

func (SendMsg) Path() string {
	return PathSendMsg
}

func (m *SendMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Asset", m.Asset.Validate())
	if m.Source != nil {
		errs = errors.AppendField(errs, "Source", m.Source.Validate())
	}
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	errs = errors.AppendField(errs, "Amount", validPositiveAmount(m.Amount))
	if len(m.Memo) > maxMemoLength {
		errs = errors.AppendField(errs, "Memo", errors.ErrInput)
	}
	return errs
}

var _ testament.Msg = (*CreateTokenMsg)(nil)

func (CreateTokenMsg) Path() string {
	return PathCreateTokenMsg
}

func (m *CreateTokenMsg) Validate() error {
	if !isTokenSymbol(m.Symbol) {
		return errors.Field("Symbol", errors.ErrInput, "invalid symbol %q", m.Symbol)
	}
	return nil
}

var _ testament.Msg = (*MintMsg)(nil)

func (MintMsg) Path() string {
	return PathMintMsg
}

func (m *MintMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Token", m.Token.Validate())
	errs = errors.AppendField(errs, "Recipient", m.Recipient.Validate())
	errs = errors.AppendField(errs, "Amount", validPositiveAmount(m.Amount))
	return errs
}

func validPositiveAmount(raw []byte) error {
	v, err := ParseAmount(raw)
	if err != nil {
		return err
	}
	if v.IsZero() {
		return errors.Wrap(errors.ErrAmount, "must be positive")
	}
	return nil
}
