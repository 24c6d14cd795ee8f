package batch

import (
	"strings"

	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
	amino "github.com/tendermint/go-amino"
	"github.com/tendermint/tendermint/libs/common"
)

// Decorator iterates through batch transaction messages and passes them
// down the stack
type Decorator struct{}

var _ testament.Decorator = Decorator{}

// NewDecorator returns a batch transaction decorator
func NewDecorator() Decorator {
	return Decorator{}
}

// ByteArrayList is the amino encoded Data of a batch result: the data of
// each message result, in execution order.
type ByteArrayList struct {
	Elements [][]byte
}

// BatchTx is the transaction a single batched message is executed with.
type BatchTx struct {
	testament.Tx
	Msg testament.Msg
}

func (tx *BatchTx) GetMsg() (testament.Msg, error) {
	return tx.Msg, nil
}

// Check iterates through messages in a batch transaction and passes them
// down the stack
func (d Decorator) Check(ctx testament.Context, store testament.KVStore, tx testament.Tx, next testament.Checker) (*testament.CheckResult, error) {
	msgs, ok, err := batchMsgs(tx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return next.Check(ctx, store, tx)
	}

	checks := make([]*testament.CheckResult, len(msgs))
	for i, msg := range msgs {
		checks[i], err = next.Check(ctx, store, &BatchTx{Tx: tx, Msg: msg})
		if err != nil {
			return nil, errors.Wrapf(err, "batch message %d", i)
		}
	}
	return combineChecks(checks), nil
}

// Deliver iterates through messages in a batch transaction and passes them
// down the stack
func (d Decorator) Deliver(ctx testament.Context, store testament.KVStore, tx testament.Tx, next testament.Deliverer) (*testament.DeliverResult, error) {
	msgs, ok, err := batchMsgs(tx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return next.Deliver(ctx, store, tx)
	}

	delivers := make([]*testament.DeliverResult, len(msgs))
	for i, msg := range msgs {
		delivers[i], err = next.Deliver(ctx, store, &BatchTx{Tx: tx, Msg: msg})
		if err != nil {
			return nil, errors.Wrapf(err, "batch message %d", i)
		}
	}
	return combineDelivers(delivers), nil
}

func batchMsgs(tx testament.Tx) ([]testament.Msg, bool, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, false, err
	}
	batchMsg, ok := msg.(Msg)
	if !ok {
		return nil, false, nil
	}
	if err := batchMsg.Validate(); err != nil {
		return nil, true, errors.Wrap(err, "batch")
	}
	msgs, err := batchMsg.MsgList()
	if err != nil {
		return nil, true, err
	}
	return msgs, true, nil
}

// combines all data bytes as a go-amino array.
// joins all log messages with \n
func combineChecks(checks []*testament.CheckResult) *testament.CheckResult {
	datas := make([][]byte, len(checks))
	logs := make([]string, len(checks))
	var allocated, payments int64
	for i, r := range checks {
		datas[i] = r.Data
		logs[i] = r.Log
		allocated += r.GasAllocated
		payments += r.GasPayment
	}
	return &testament.CheckResult{
		Data:         amino.MustMarshalBinaryBare(ByteArrayList{Elements: datas}),
		Log:          strings.Join(logs, "\n"),
		GasAllocated: allocated,
		GasPayment:   payments,
	}
}

// combines all data bytes as a go-amino array.
// joins all log messages with \n
func combineDelivers(delivers []*testament.DeliverResult) *testament.DeliverResult {
	datas := make([][]byte, len(delivers))
	logs := make([]string, len(delivers))
	var used int64
	var tags []common.KVPair
	var events []testament.Event
	for i, r := range delivers {
		datas[i] = r.Data
		logs[i] = r.Log
		used += r.GasUsed
		tags = append(tags, r.Tags...)
		events = append(events, r.Events...)
	}
	return &testament.DeliverResult{
		Data:    amino.MustMarshalBinaryBare(ByteArrayList{Elements: datas}),
		Log:     strings.Join(logs, "\n"),
		GasUsed: used,
		Tags:    tags,
		Events:  events,
	}
}
