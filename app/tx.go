package app

import (
	"fmt"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/crypto"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/x/batch"
	"github.com/iov-one/testament/x/safe"
	"github.com/iov-one/testament/x/sigs"
)

// PathBatchMsg is the path of the message that executes a list of messages
// atomically.
const PathBatchMsg = "batch/execute"

// Envelope carries a serialized message together with its path, which
// selects the message type on decoding.
type Envelope struct {
	Path    string `protobuf:"bytes,1,opt,name=path,proto3" json:"path,omitempty"`
	Payload []byte `protobuf:"bytes,2,opt,name=payload,proto3" json:"payload,omitempty"`
}

func (m *Envelope) Reset()         { *m = Envelope{} }
func (m *Envelope) String() string { return proto.CompactTextString(m) }
func (*Envelope) ProtoMessage()    {}

// Tx is the transaction format of the application. Signatures authenticate
// the signers, Exec optionally runs the message on behalf of a wallet.
type Tx struct {
	Signatures []*sigs.StdSignature `protobuf:"bytes,1,rep,name=signatures,proto3" json:"signatures,omitempty"`
	Exec       *safe.ExecInfo       `protobuf:"bytes,2,opt,name=exec,proto3" json:"exec,omitempty"`
	Msg        *Envelope            `protobuf:"bytes,3,opt,name=msg,proto3" json:"msg,omitempty"`
}

func (m *Tx) Reset()         { *m = Tx{} }
func (m *Tx) String() string { return proto.CompactTextString(m) }
func (*Tx) ProtoMessage()    {}

// GetSignBytes returns the serialized transaction without signatures.
func (m *Tx) GetSignBytes() ([]byte, error) {
	cp := *m
	cp.Signatures = nil
	return testament.Marshal(&cp)
}

// GetSignatures returns the signatures of the transaction.
func (m *Tx) GetSignatures() []*sigs.StdSignature {
	return m.Signatures
}

// GetExec returns the wallet execution header, if any.
func (m *Tx) GetExec() *safe.ExecInfo {
	return m.Exec
}

// Sign appends a signature of given signer.
func (m *Tx) Sign(signer crypto.Signer, chainID string, seq int64) error {
	sig, err := sigs.SignTx(signer, m, chainID, seq)
	if err != nil {
		return err
	}
	m.Signatures = append(m.Signatures, sig)
	return nil
}

// DecodedTx is a transaction together with its decoded message. It is what
// the handler stack receives.
type DecodedTx struct {
	*Tx
	msg testament.Msg
}

var _ testament.Tx = DecodedTx{}
var _ sigs.SignedTx = DecodedTx{}
var _ safe.ExecTx = DecodedTx{}

// GetMsg returns the decoded message.
func (tx DecodedTx) GetMsg() (testament.Msg, error) {
	return tx.msg, nil
}

// BatchMsg executes all carried messages in one transaction. Either all of
// them succeed or none is applied.
type BatchMsg struct {
	Messages []*Envelope `protobuf:"bytes,1,rep,name=messages,proto3" json:"messages,omitempty"`
}

func (m *BatchMsg) Reset()         { *m = BatchMsg{} }
func (m *BatchMsg) String() string { return proto.CompactTextString(m) }
func (*BatchMsg) ProtoMessage()    {}

func (*BatchMsg) Path() string {
	return PathBatchMsg
}

// Validate checks only the envelopes. Carried messages are validated
// once decoded.
func (m *BatchMsg) Validate() error {
	if len(m.Messages) == 0 {
		return errors.Wrap(errors.ErrEmpty, "batch")
	}
	if len(m.Messages) > batch.MaxBatchMessages {
		return errors.Wrapf(errors.ErrInput, "transaction is too long, max: %d", batch.MaxBatchMessages)
	}
	return nil
}

// decodedBatch is a batch message with all carried messages decoded.
type decodedBatch struct {
	*BatchMsg
	msgs []testament.Msg
}

var _ batch.Msg = decodedBatch{}

func (b decodedBatch) Validate() error {
	return batch.Validate(b)
}

func (b decodedBatch) MsgList() ([]testament.Msg, error) {
	return b.msgs, nil
}

// Codec maps message paths to message types.
type Codec struct {
	msgs map[string]func() testament.Msg
}

// NewCodec returns a codec that knows only the batch message.
func NewCodec() *Codec {
	c := &Codec{msgs: make(map[string]func() testament.Msg)}
	c.Register(func() testament.Msg { return &BatchMsg{} })
	return c
}

// Register adds a message type. The constructor must return a new zero
// value message each time. Registering a path twice panics.
func (c *Codec) Register(fn func() testament.Msg) {
	path := fn().Path()
	if _, ok := c.msgs[path]; ok {
		panic(fmt.Sprintf("message path %q already registered", path))
	}
	c.msgs[path] = fn
}

// Encode wraps a message into an envelope.
func (c *Codec) Encode(msg testament.Msg) (*Envelope, error) {
	if b, ok := msg.(decodedBatch); ok {
		msg = b.BatchMsg
	}
	if _, ok := c.msgs[msg.Path()]; !ok {
		return nil, errors.Wrapf(errors.ErrMsg, "unknown message path %q", msg.Path())
	}
	raw, err := testament.Marshal(msg)
	if err != nil {
		return nil, err
	}
	return &Envelope{Path: msg.Path(), Payload: raw}, nil
}

// Decode unwraps a message from an envelope. Batch messages are decoded
// recursively.
func (c *Codec) Decode(env *Envelope) (testament.Msg, error) {
	if env == nil {
		return nil, errors.Wrap(errors.ErrMsg, "no message")
	}
	fn, ok := c.msgs[env.Path]
	if !ok {
		return nil, errors.Wrapf(errors.ErrMsg, "unknown message path %q", env.Path)
	}
	msg := fn()
	if err := testament.Unmarshal(env.Payload, msg); err != nil {
		return nil, err
	}
	b, ok := msg.(*BatchMsg)
	if !ok {
		return msg, nil
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	msgs := make([]testament.Msg, len(b.Messages))
	for i, e := range b.Messages {
		if e.GetPath() == PathBatchMsg {
			return nil, errors.Wrapf(errors.ErrMsg, "message %d: batch cannot be nested", i)
		}
		m, err := c.Decode(e)
		if err != nil {
			return nil, errors.Wrapf(err, "message %d", i)
		}
		msgs[i] = m
	}
	return decodedBatch{BatchMsg: b, msgs: msgs}, nil
}

// NewBatch builds a batch message out of given messages.
func (c *Codec) NewBatch(msgs ...testament.Msg) (*BatchMsg, error) {
	b := &BatchMsg{}
	for i, m := range msgs {
		env, err := c.Encode(m)
		if err != nil {
			return nil, errors.Wrapf(err, "message %d", i)
		}
		b.Messages = append(b.Messages, env)
	}
	return b, nil
}

// NewTx builds an unsigned transaction carrying given message. Exec is
// optional.
func (c *Codec) NewTx(msg testament.Msg, exec *safe.ExecInfo) (*Tx, error) {
	env, err := c.Encode(msg)
	if err != nil {
		return nil, err
	}
	return &Tx{Exec: exec, Msg: env}, nil
}

// DecodeTx parses a serialized transaction and its message.
func (c *Codec) DecodeTx(raw []byte) (testament.Tx, error) {
	var tx Tx
	if err := testament.Unmarshal(raw, &tx); err != nil {
		return nil, err
	}
	msg, err := c.Decode(tx.Msg)
	if err != nil {
		return nil, err
	}
	return DecodedTx{Tx: &tx, msg: msg}, nil
}

// TxDecoder returns the decoding function used by the application.
func (c *Codec) TxDecoder() testament.TxDecoder {
	return c.DecodeTx
}

func (m *Envelope) GetPath() string {
	if m != nil {
		return m.Path
	}
	return ""
}
