package app

import (
	"fmt"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// ResultSet contains a list of keys or values returned by a query.
type ResultSet struct {
	Results [][]byte `protobuf:"bytes,1,rep,name=results,proto3" json:"results,omitempty"`
}

func (m *ResultSet) Reset()         { *m = ResultSet{} }
func (m *ResultSet) String() string { return proto.CompactTextString(m) }
func (*ResultSet) ProtoMessage()    {}

// ResultsFromKeys returns a ResultSet of all keys given a set of models.
func ResultsFromKeys(models []testament.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Key
	}
	return &ResultSet{Results: res}
}

// ResultsFromValues returns a ResultSet of all values given a set of models.
func ResultsFromValues(models []testament.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Value
	}
	return &ResultSet{Results: res}
}

// JoinResults inverts ResultsFromKeys and ResultsFromValues and makes them
// a consistent whole again.
func JoinResults(keys, values *ResultSet) ([]testament.Model, error) {
	kref, vref := keys.Results, values.Results
	if len(kref) != len(vref) {
		return nil, errors.Wrapf(errors.ErrState, "mismatched result set size: %d keys, %d values", len(kref), len(vref))
	}
	mods := make([]testament.Model, len(kref))
	for i := range mods {
		mods[i] = testament.Pair(kref[i], vref[i])
	}
	return mods, nil
}

// ParseQueryResponse decodes the key and value result sets of an abci query
// response. A failed query is returned as an error.
func ParseQueryResponse(res abci.ResponseQuery) ([]testament.Model, error) {
	if res.Code != errors.SuccessCode {
		return nil, errors.Wrapf(errors.ErrState, "query failed with code %d: %s", res.Code, res.Log)
	}
	var keys, values ResultSet
	if err := testament.Unmarshal(res.Key, &keys); err != nil {
		return nil, errors.Wrap(err, "keys")
	}
	if err := testament.Unmarshal(res.Value, &values); err != nil {
		return nil, errors.Wrap(err, "values")
	}
	return JoinResults(&keys, &values)
}

// DeliverOrError returns an abci response for DeliverTx, converting the
// error message if present, or using the successful DeliverResult.
func DeliverOrError(result *testament.DeliverResult, err error, debug bool) abci.ResponseDeliverTx {
	if err != nil {
		return DeliverTxError(err, debug)
	}
	return abci.ResponseDeliverTx{
		Data:    result.Data,
		Log:     result.Log,
		Tags:    result.Tags,
		GasUsed: result.GasUsed,
	}
}

// CheckOrError returns an abci response for CheckTx, converting the error
// message if present, or using the successful CheckResult.
func CheckOrError(result *testament.CheckResult, err error, debug bool) abci.ResponseCheckTx {
	if err != nil {
		return CheckTxError(err, debug)
	}
	return abci.ResponseCheckTx{
		Data:      result.Data,
		Log:       result.Log,
		GasWanted: result.GasAllocated,
	}
}

// DeliverTxError converts any error into a abci.ResponseDeliverTx, preserving
// as much info as possible. When in debug mode always the full error
// information is returned.
func DeliverTxError(err error, debug bool) abci.ResponseDeliverTx {
	code, log := errors.Info(err, debug)
	return abci.ResponseDeliverTx{
		Code: code,
		Log:  fmt.Sprintf("cannot deliver tx: %s", log),
	}
}

// CheckTxError converts any error into a abci.ResponseCheckTx, preserving as
// much info as possible. When in debug mode always the full error
// information is returned.
func CheckTxError(err error, debug bool) abci.ResponseCheckTx {
	code, log := errors.Info(err, debug)
	return abci.ResponseCheckTx{
		Code: code,
		Log:  fmt.Sprintf("cannot check tx: %s", log),
	}
}

func queryError(err error, debug bool) abci.ResponseQuery {
	code, log := errors.Info(err, debug)
	return abci.ResponseQuery{
		Code: code,
		Log:  log,
	}
}
