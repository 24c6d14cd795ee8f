package batch

import (
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
)

// MaxBatchMessages is the maximum number of messages a batch can carry.
const MaxBatchMessages = 10

// Msg is implemented by a message that carries a list of messages to be
// executed in one transaction.
type Msg interface {
	testament.Msg
	MsgList() ([]testament.Msg, error)
}

// Validate checks the length of the batch and every carried message.
func Validate(msg Msg) error {
	l, err := msg.MsgList()
	if err != nil {
		return errors.Wrap(err, "cannot retrieve batch message")
	}
	if len(l) == 0 {
		return errors.Wrap(errors.ErrEmpty, "batch")
	}
	if len(l) > MaxBatchMessages {
		return errors.Wrapf(errors.ErrInput, "transaction is too long, max: %d", MaxBatchMessages)
	}
	for i, m := range l {
		if m == nil {
			return errors.Wrapf(errors.ErrMsg, "message %d is empty", i)
		}
		if _, ok := m.(Msg); ok {
			return errors.Wrapf(errors.ErrMsg, "message %d: batch cannot be nested", i)
		}
		if err := m.Validate(); err != nil {
			return errors.Wrapf(err, "message %d", i)
		}
	}
	return nil
}
