package app

import (
	"reflect"

	"github.com/iov-one/testament"
)

// Decorators holds a chain of decorators, not yet resolved by a Handler
type Decorators struct {
	chain []testament.Decorator
}

/*
ChainDecorators takes a chain of decorators,
and upon adding a final Handler (often a Router),
returns a Handler that will execute this whole stack.

  app.ChainDecorators(
    utils.NewLogging(),
    utils.NewRecovery(),
    sigs.NewDecorator(),
    utils.NewSavepoint().OnDeliver(),
  ).WithHandler(
    app.NewRouter(),
  )
*/
func ChainDecorators(chain ...testament.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain allows us to keep adding more Decorators to the chain
func (d Decorators) Chain(chain ...testament.Decorator) Decorators {
	chain = cutoffNil(chain)
	newChain := make([]testament.Decorator, 0, len(d.chain)+len(chain))
	newChain = append(newChain, d.chain...)
	newChain = append(newChain, chain...)
	return Decorators{newChain}
}

// cutoffNil will in-place remove all nil values from given slice. A typed
// nil pointer, such as a disabled metrics decorator, counts as nil.
func cutoffNil(ds []testament.Decorator) []testament.Decorator {
	var cutoff int
	for i := 0; i < len(ds); i++ {
		ds[i-cutoff] = ds[i]
		if ds[i] == nil || (reflect.ValueOf(ds[i]).Kind() == reflect.Ptr && reflect.ValueOf(ds[i]).IsNil()) {
			cutoff++
		}
	}
	return ds[:len(ds)-cutoff]
}

// WithHandler resolves the stack and returns a concrete Handler
// that will pass through the chain of decorators before calling
// the final Handler.
func (d Decorators) WithHandler(h testament.Handler) testament.Handler {
	// start wrapping the handler from last decorator to first one
	// as the top of the chain is understood to be executed first
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = step{d: d.chain[i], next: h}
	}
	return h
}

// step captures one step executing a decorator around a
// specific Handler.
type step struct {
	d    testament.Decorator
	next testament.Handler
}

var _ testament.Handler = step{}

// Check passes the handler into the decorator, implements Handler
func (s step) Check(ctx testament.Context, store testament.KVStore, tx testament.Tx) (*testament.CheckResult, error) {
	return s.d.Check(ctx, store, tx, s.next)
}

// Deliver passes the handler into the decorator, implements Handler
func (s step) Deliver(ctx testament.Context, store testament.KVStore, tx testament.Tx) (*testament.DeliverResult, error) {
	return s.d.Deliver(ctx, store, tx, s.next)
}
