package utils

import (
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
)

// Savepoint isolates all writes of the wrapped handler in a cache. The cache
// is written to the parent store only if the handler succeeds, so a failed
// transaction leaves no trace.
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ testament.Decorator = Savepoint{}

// NewSavepoint creates a Savepoint decorator,
// but you must call OnCheck/OnDeliver so it will be triggered
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck returns a savepoint that will trigger on CheckTx
func (s Savepoint) OnCheck() Savepoint {
	s.onCheck = true
	return s
}

// OnDeliver returns a savepoint that will trigger on DeliverTx
func (s Savepoint) OnDeliver() Savepoint {
	s.onDeliver = true
	return s
}

// Check will optionally set a checkpoint
func (s Savepoint) Check(ctx testament.Context, store testament.KVStore, tx testament.Tx, next testament.Checker) (*testament.CheckResult, error) {
	cache, ok := cacheOf(store, s.onCheck)
	if !ok {
		return next.Check(ctx, store, tx)
	}
	res, err := next.Check(ctx, cache, tx)
	if err := commit(cache, err); err != nil {
		return nil, err
	}
	return res, nil
}

// Deliver will optionally set a checkpoint
func (s Savepoint) Deliver(ctx testament.Context, store testament.KVStore, tx testament.Tx, next testament.Deliverer) (*testament.DeliverResult, error) {
	cache, ok := cacheOf(store, s.onDeliver)
	if !ok {
		return next.Deliver(ctx, store, tx)
	}
	res, err := next.Deliver(ctx, cache, tx)
	if err := commit(cache, err); err != nil {
		return nil, err
	}
	return res, nil
}

func cacheOf(store testament.KVStore, enabled bool) (testament.KVCacheWrap, bool) {
	if !enabled {
		return nil, false
	}
	cstore, ok := store.(testament.CacheableKVStore)
	if !ok {
		return nil, false
	}
	return cstore.CacheWrap(), true
}

// commit writes the cache if the handler succeeded and discards it
// otherwise. The handler error is returned unchanged.
func commit(cache testament.KVCacheWrap, handlerErr error) error {
	if handlerErr != nil {
		cache.Discard()
		return handlerErr
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "writing savepoint")
	}
	return nil
}
