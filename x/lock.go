package x

import (
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
)

// ErrReentrancy is returned when a locked operation is entered again before
// the previous call released the lock.
var ErrReentrancy = errors.Register(100, "reentrant call")

// Lock acquires a store backed, call scoped mutex identified by namespace and
// key. It protects operations that hand out value to external code which may
// call back into the ledger within the same transaction. It fails with
// ErrReentrancy if the lock is already held.
//
//   release, err := x.Lock(db, "router", willKey)
//   if err != nil {
//     return nil, err
//   }
//   defer release()
//
// A lock never survives a transaction: it is released by the deferred call,
// or discarded together with the failed transaction savepoint.
func Lock(db testament.KVStore, namespace string, key []byte) (func(), error) {
	k := append([]byte("_l."+namespace+":"), key...)
	held, err := db.Has(k)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if held {
		return nil, errors.Wrapf(ErrReentrancy, "%s %X", namespace, key)
	}
	if err := db.Set(k, []byte{1}); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return func() { _ = db.Delete(k) }, nil
}
