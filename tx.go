package testament

import (
	"reflect"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/testament/errors"
)

// Msg is message for the ledger to take an action (make a state transition).
// It is just the request, and must be validated by the Handlers. All
// authentication information is in the wrapping Tx.
type Msg interface {
	proto.Message

	// Path returns the message path.
	// This is used by the Router to locate the proper Handler.
	// Msg should be created alongside the Handler that corresponds to them.
	//
	// Multiple types may have the same value, and will end up at the
	// same Handler.
	//
	// Must be alphanumeric [0-9A-Za-z_\-/]+
	Path() string

	// Validate performs a sanity checks on this message. It returns an
	// error if at least one of the checks failed.
	Validate() error
}

// Tx represent the data sent from the user to the chain.
// It includes the actual message, along with information needed
// to authenticate the sender (cryptographic signatures),
// and anything else needed to pass through middleware.
type Tx interface {
	// GetMsg returns the action we wish to communicate
	GetMsg() (Msg, error)
}

// TxDecoder can parse bytes into a Tx
type TxDecoder func(txBytes []byte) (Tx, error)

// GetPath returns the path of the message, or (missing) if no message
func GetPath(tx Tx) string {
	msg, err := tx.GetMsg()
	if err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

// LoadMsg extracts the message represented by given transaction into given
// destination. Before returning message validation method is called.
//
// Destination must be a pointer of the type the message is declared with.
func LoadMsg(tx Tx, dst Msg) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "cannot get transaction message")
	}
	if msg == nil {
		return errors.Wrap(errors.ErrMsg, "no message")
	}
	src := reflect.ValueOf(msg)
	dest := reflect.ValueOf(dst)
	if src.Type() != dest.Type() {
		return errors.Wrapf(errors.ErrType, "want %T message, got %T", dst, msg)
	}
	dest.Elem().Set(src.Elem())
	if err := dst.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}
	return nil
}

// Marshal serializes given message using the protobuf codec.
func Marshal(m proto.Message) ([]byte, error) {
	raw, err := proto.Marshal(m)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrHuman, "marshal %T: %s", m, err)
	}
	return raw, nil
}

// Unmarshal deserializes raw bytes into given message.
func Unmarshal(raw []byte, m proto.Message) error {
	if err := proto.Unmarshal(raw, m); err != nil {
		return errors.Wrapf(errors.ErrInput, "unmarshal %T: %s", m, err)
	}
	return nil
}
