package weavetest

import "github.com/iov-one/testament"

// Decorator passes transactions to the next handler unless an error is
// configured. It remembers the message path of every transaction it saw,
// failed calls included.
type Decorator struct {
	// CheckErr and DeliverErr, when set, are returned without calling the
	// next handler.
	CheckErr   error
	DeliverErr error

	checked   []string
	delivered []string
}

var _ testament.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx testament.Context, db testament.KVStore, tx testament.Tx, next testament.Checker) (*testament.CheckResult, error) {
	d.checked = append(d.checked, path(tx))
	if d.CheckErr != nil {
		return &testament.CheckResult{}, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx testament.Context, db testament.KVStore, tx testament.Tx, next testament.Deliverer) (*testament.DeliverResult, error) {
	d.delivered = append(d.delivered, path(tx))
	if d.DeliverErr != nil {
		return &testament.DeliverResult{}, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

// Delivered returns the message paths of delivered transactions in call
// order.
func (d *Decorator) Delivered() []string { return d.delivered }

func (d *Decorator) CheckCallCount() int   { return len(d.checked) }
func (d *Decorator) DeliverCallCount() int { return len(d.delivered) }
func (d *Decorator) CallCount() int        { return len(d.checked) + len(d.delivered) }

func path(tx testament.Tx) string {
	if tx == nil {
		return "(missing)"
	}
	return testament.GetPath(tx)
}

// Decorate returns a handler calling d before h.
func Decorate(h testament.Handler, d testament.Decorator) testament.Handler {
	return decorated{handler: h, decorator: d}
}

type decorated struct {
	handler   testament.Handler
	decorator testament.Decorator
}

func (d decorated) Check(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*testament.CheckResult, error) {
	return d.decorator.Check(ctx, db, tx, d.handler)
}

func (d decorated) Deliver(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*testament.DeliverResult, error) {
	return d.decorator.Deliver(ctx, db, tx, d.handler)
}
