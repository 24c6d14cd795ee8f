package weavetest

import "github.com/iov-one/testament"

// Handler is a mock implementation of testament.Handler. It returns the
// configured results and counts calls.
type Handler struct {
	checkCall   int
	CheckResult testament.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult testament.DeliverResult
	DeliverErr    error
}

var _ testament.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*testament.CheckResult, error) {
	h.checkCall++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	// Copy the result so that the caller cannot modify the mock state.
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*testament.DeliverResult, error) {
	h.deliverCall++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}
