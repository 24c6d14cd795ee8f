package testament

import (
	"encoding/json"

	"github.com/gogo/protobuf/proto"
	"github.com/tendermint/tendermint/libs/common"
)

// CheckResult captures any non-error check result.
type CheckResult struct {
	// Data is a machine-parseable return value, like id of created entity
	Data []byte
	// Log is human-readable informational string
	Log string
	// GasAllocated is the maximum units of work we allow this tx to perform
	GasAllocated int64
	// GasPayment is the total fees for this tx (or other source of payment)
	GasPayment int64
}

// NewCheck sets the gas used and the response data but no more info.
func NewCheck(gasAllocated int64, log string) *CheckResult {
	return &CheckResult{
		Log:          log,
		GasAllocated: gasAllocated,
	}
}

// DeliverResult captures any non-error deliver result.
type DeliverResult struct {
	// Data is a machine-parseable return value, like id of created entity
	Data []byte
	// Log is human-readable informational string
	Log string
	// Events are the domain events emitted while processing the message,
	// in emission order.
	Events []Event
	// Tags are used to index the transaction.
	Tags []common.KVPair
	// GasUsed is the amount of gas consumed.
	GasUsed int64
}

// Event is a structured notification emitted by a handler. Kind names the
// event, Payload carries its fields.
type Event struct {
	Kind    string
	Payload proto.Message
}

// Emit appends an event to the result together with an index tag.
func (r *DeliverResult) Emit(kind string, payload proto.Message) {
	r.Events = append(r.Events, Event{Kind: kind, Payload: payload})
	r.Tags = append(r.Tags, common.KVPair{Key: []byte("event"), Value: []byte(kind)})
}

// EventsOf returns all emitted events of given kind.
func (r *DeliverResult) EventsOf(kind string) []Event {
	var out []Event
	for _, e := range r.Events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// MarshalJSON renders the event as {"kind": ..., "payload": ...}.
func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind    string        `json:"kind"`
		Payload proto.Message `json:"payload"`
	}{e.Kind, e.Payload})
}
