/*
Package store provides the key value store implementations used by the
application: a btree based cache wrap that layers uncommitted writes over a
parent store and an in-memory store built from it. The persistent store
lives in the iavl subpackage.
*/
package store

import "github.com/iov-one/testament"

// Move references for all storage types into this package
// for shorter names everywhere

type ReadOnlyKVStore = testament.ReadOnlyKVStore
type SetDeleter = testament.SetDeleter
type KVStore = testament.KVStore
type Iterator = testament.Iterator
type CacheableKVStore = testament.CacheableKVStore
type KVCacheWrap = testament.KVCacheWrap
type CommitKVStore = testament.CommitKVStore
type CommitID = testament.CommitID
type Model = testament.Model

var Pair = testament.Pair
