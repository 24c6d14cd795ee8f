package utils_test

import (
	"github.com/iov-one/testament"
)

// writeHandler writes a key/value pair and returns the configured error.
type writeHandler struct {
	key, value []byte
	err        error
}

var _ testament.Handler = writeHandler{}

func (h writeHandler) Check(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*testament.CheckResult, error) {
	if err := db.Set(h.key, h.value); err != nil {
		return nil, err
	}
	if h.err != nil {
		return nil, h.err
	}
	return &testament.CheckResult{}, nil
}

func (h writeHandler) Deliver(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*testament.DeliverResult, error) {
	if err := db.Set(h.key, h.value); err != nil {
		return nil, err
	}
	if h.err != nil {
		return nil, h.err
	}
	return &testament.DeliverResult{}, nil
}

type panicHandler struct{}

var _ testament.Handler = panicHandler{}

func (panicHandler) Check(ctx testament.Context, store testament.KVStore, tx testament.Tx) (*testament.CheckResult, error) {
	panic("check panic")
}

func (panicHandler) Deliver(ctx testament.Context, store testament.KVStore, tx testament.Tx) (*testament.DeliverResult, error) {
	panic("deliver panic")
}
