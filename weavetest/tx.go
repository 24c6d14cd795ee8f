package weavetest

import (
	"encoding/binary"

	"github.com/iov-one/testament"
)

// Tx represents a ledger transaction.
// Transaction represents a single message that is to be processed within this
// transaction.
type Tx struct {
	// Msg is the message that is to be processed by this transaction.
	Msg testament.Msg
	// Err if set is returned by any method call.
	Err error
}

var _ testament.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (testament.Msg, error) {
	return tx.Msg, tx.Err
}

// Msg represents a message with a configurable path.
type Msg struct {
	// RoutePath is returned by the path method, consumed by the router.
	RoutePath string
	// Err if set is returned by Validate.
	Err error
}

var _ testament.Msg = (*Msg)(nil)

func (m *Msg) Path() string     { return m.RoutePath }
func (m *Msg) Validate() error  { return m.Err }
func (m *Msg) Reset()           { *m = Msg{} }
func (m *Msg) String() string   { return m.RoutePath }
func (*Msg) ProtoMessage()      {}

// SequenceID returns an ID encoded as if it was generated by the bucket
// sequence call.
func SequenceID(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}
