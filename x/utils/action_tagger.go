package utils

import (
	"github.com/iov-one/testament"
	"github.com/tendermint/tendermint/libs/common"
)

// ActionKey is used by ActionTagger as the Key in the Tag it appends
const ActionKey = "action"

// ActionTagger adds a tag `action = msg.Path()` to every successful
// delivery, so clients can search and subscribe to a message type. Put it
// after the batch decorator so that each batched message gets its own tag.
type ActionTagger struct{}

var _ testament.Decorator = ActionTagger{}

// NewActionTagger creates a ActionTagger decorator
func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

// Check just passes the request along
func (ActionTagger) Check(ctx testament.Context, db testament.KVStore, tx testament.Tx, next testament.Checker) (*testament.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

// Deliver appends a tag on the result if there is a success.
func (ActionTagger) Deliver(ctx testament.Context, db testament.KVStore, tx testament.Tx, next testament.Deliverer) (*testament.DeliverResult, error) {
	// fail early, before dispatching, if the path cannot be read
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.Tags = append(res.Tags, common.KVPair{
		Key:   []byte(ActionKey),
		Value: []byte(msg.Path()),
	})
	return res, nil
}
