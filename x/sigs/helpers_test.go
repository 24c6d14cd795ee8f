package sigs

import (
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/weavetest"
)

// StdTx is a signed transaction mock. Sign bytes are the message path
// followed by the payload.
type StdTx struct {
	weavetest.Tx
	Payload    []byte
	Signatures []*StdSignature
}

var _ SignedTx = (*StdTx)(nil)
var _ testament.Tx = (*StdTx)(nil)

func NewStdTx(payload []byte) *StdTx {
	return &StdTx{
		Tx:      weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "test/sigs"}},
		Payload: payload,
	}
}

func (tx *StdTx) GetSignatures() []*StdSignature {
	return tx.Signatures
}

func (tx *StdTx) GetSignBytes() ([]byte, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	return append([]byte(msg.Path()), tx.Payload...), nil
}

// SigCheckHandler stores the seen signers on each call
type SigCheckHandler struct {
	Signers []testament.Address
}

var _ testament.Handler = (*SigCheckHandler)(nil)

func (s *SigCheckHandler) Check(ctx testament.Context, store testament.KVStore, tx testament.Tx) (*testament.CheckResult, error) {
	s.Signers = Authenticate{}.GetAddresses(ctx)
	return &testament.CheckResult{}, nil
}

func (s *SigCheckHandler) Deliver(ctx testament.Context, store testament.KVStore, tx testament.Tx) (*testament.DeliverResult, error) {
	s.Signers = Authenticate{}.GetAddresses(ctx)
	return &testament.DeliverResult{}, nil
}
