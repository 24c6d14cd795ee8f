package store

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"
	"testing"

	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/weavetest/assert"
)

// TestSuite runs the same cache and iteration checks against any
// CacheableKVStore implementation, so that the btree and iavl stores behave
// the same for the buckets built on top of them.
type TestSuite struct {
	makeBase TestStoreConstructor
}

// TestStoreConstructor returns an empty store and a function releasing it.
type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{makeBase: constructor}
}

// recordKey builds a key the way buckets do, a name prefix followed by a big
// endian sequence.
func recordKey(bucket string, seq uint64) []byte {
	key := make([]byte, len(bucket)+1+8)
	copy(key, bucket)
	key[len(bucket)] = ':'
	binary.BigEndian.PutUint64(key[len(bucket)+1:], seq)
	return key
}

func record(bucket string, seq uint64, status string) Model {
	return Pair(recordKey(bucket, seq), []byte(fmt.Sprintf("%s/%d/%s", bucket, seq, status)))
}

// GetSet checks that a cache sees its parent, hides its own writes until
// written and that a discarded cache leaves no trace.
func (s *TestSuite) GetSet(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	w1, w2, g1 := record("will", 1, "active"), record("will", 2, "active"), record("guard", 1, "watching")
	s.AssertGetHas(t, base, w1.Key, nil, false)
	assert.Nil(t, base.Set(w1.Key, w1.Value))
	s.AssertGetHas(t, base, w1.Key, w1.Value, true)

	cache := base.CacheWrap()
	s.AssertGetHas(t, cache, w1.Key, w1.Value, true)
	assert.Nil(t, cache.Set(w2.Key, w2.Value))
	s.AssertGetHas(t, cache, w2.Key, w2.Value, true)
	s.AssertGetHas(t, base, w2.Key, nil, false)
	assert.Nil(t, cache.Write())
	s.AssertGetHas(t, base, w2.Key, w2.Value, true)

	discarded := base.CacheWrap()
	assert.Nil(t, discarded.Set(g1.Key, g1.Value))
	discarded.Discard()

	triggered := record("will", 1, "triggered")
	c := base.CacheWrap()
	assert.Nil(t, c.Set(triggered.Key, triggered.Value))
	assert.Nil(t, c.Delete(w2.Key))
	assert.Nil(t, c.Write())

	s.AssertGetHas(t, base, w1.Key, triggered.Value, true)
	s.AssertGetHas(t, base, w2.Key, nil, false)
	s.AssertGetHas(t, base, g1.Key, nil, false)
}

// CacheConflicts checks a child overwriting and deleting parent values.
func (s *TestSuite) CacheConflicts(t *testing.T) {
	w1, w2, w3 := record("will", 1, "active"), record("will", 2, "active"), record("will", 3, "active")
	w1Done := record("will", 1, "triggered")

	cases := map[string]struct {
		parentOps []Op
		childOps  []Op
		// Key is queried, Value is expected. A nil value must be missing.
		parentQueries []Model
		childQueries  []Model
	}{
		"overwrite one, delete another, add a third": {
			parentOps:     makeSetOps(w1, w2),
			childOps:      []Op{SetOp(w1Done.Key, w1Done.Value), SetOp(w3.Key, w3.Value), DelOp(w2.Key)},
			parentQueries: []Model{w1, w2, Pair(w3.Key, nil)},
			childQueries:  []Model{w1Done, Pair(w2.Key, nil), w3},
		},
		"delete missing key": {
			parentOps:     makeSetOps(w1),
			childOps:      makeDelOps(w2),
			parentQueries: []Model{w1, Pair(w2.Key, nil)},
			childQueries:  []Model{w1, Pair(w2.Key, nil)},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			parent, cleanup := s.makeBase()
			defer cleanup()

			for _, op := range tc.parentOps {
				assert.Nil(t, op.Apply(parent))
			}
			child := parent.CacheWrap()
			for _, op := range tc.childOps {
				assert.Nil(t, op.Apply(child))
			}
			for _, q := range tc.parentQueries {
				s.AssertGetHas(t, parent, q.Key, q.Value, q.Value != nil)
			}
			for _, q := range tc.childQueries {
				s.AssertGetHas(t, child, q.Key, q.Value, q.Value != nil)
			}
			assert.Nil(t, child.Write())
			for _, q := range tc.childQueries {
				s.AssertGetHas(t, parent, q.Key, q.Value, q.Value != nil)
			}
		})
	}
}

// Iterator checks ranges over a cache merged with its parent, in both
// directions, with overwritten and deleted keys.
func (s *TestSuite) Iterator(t *testing.T) {
	var wills, guards []Model
	for i := uint64(1); i <= 20; i++ {
		wills = append(wills, record("will", i, "active"))
		guards = append(guards, record("guard", i, "watching"))
	}
	all := sortModels(append(append([]Model{}, wills...), guards...))

	w1, w2, w3, w4 := wills[0], wills[1], wills[2], wills[3]
	w1Done, w2Done := record("will", 1, "triggered"), record("will", 2, "triggered")
	mixed := sortModels([]Model{w1, w2, w3})
	overwritten := sortModels([]Model{w1Done, w2Done, w3, w4})

	cases := map[string]iterCase{
		"child only": {
			child: makeSetOps(wills...),
			queries: []rangeQuery{
				{nil, nil, false, wills},
				{wills[5].Key, nil, false, wills[5:]},
				{nil, wills[12].Key, false, wills[:12]},
				{wills[3].Key, wills[9].Key, false, wills[3:9]},
				{nil, nil, true, reverse(wills)},
				{wills[14].Key, nil, true, reverse(wills[14:])},
				{wills[2].Key, wills[11].Key, true, reverse(wills[2:11])},
			},
		},
		"parent only": {
			pre: makeSetOps(mixed...),
			queries: []rangeQuery{
				{nil, nil, false, mixed},
				{mixed[1].Key, mixed[2].Key, false, mixed[1:2]},
				{nil, nil, true, reverse(mixed)},
			},
		},
		"child and parent combined": {
			pre:   makeSetOps(guards...),
			child: makeSetOps(wills...),
			queries: []rangeQuery{
				{nil, nil, false, all},
				{all[10].Key, all[30].Key, false, all[10:30]},
				{nil, nil, true, reverse(all)},
				{all[15].Key, all[25].Key, true, reverse(all[15:25])},
			},
		},
		"overwritten values come from the child": {
			pre:   makeSetOps(w1, w2, w3),
			child: makeSetOps(w1Done, w2Done, w4),
			queries: []rangeQuery{
				{nil, nil, false, overwritten},
				{overwritten[1].Key, overwritten[3].Key, false, overwritten[1:3]},
				{nil, nil, true, reverse(overwritten)},
			},
		},
		"deleted values are skipped": {
			pre:   makeSetOps(w1, w3, w4),
			child: makeDelOps(w1, w2, w4),
			queries: []rangeQuery{
				{nil, nil, false, []Model{w3}},
				{nil, w3.Key, false, nil},
			},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			base, cleanup := s.makeBase()
			defer cleanup()
			tc.verify(t, base)
		})
	}
}

func (s *TestSuite) AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	assert.Nil(t, err)
	assert.Equal(t, val, got)
	exists, err := kv.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, has, exists)
}

type iterCase struct {
	pre     []Op
	child   []Op
	queries []rangeQuery
}

type rangeQuery struct {
	start    []byte
	end      []byte
	reverse  bool
	expected []Model
}

func (c iterCase) verify(t testing.TB, base CacheableKVStore) {
	t.Helper()
	for _, op := range c.pre {
		assert.Nil(t, op.Apply(base))
	}
	child := base.CacheWrap()
	for _, op := range c.child {
		assert.Nil(t, op.Apply(child))
	}

	for _, q := range c.queries {
		var (
			iter Iterator
			err  error
		)
		if q.reverse {
			iter, err = child.ReverseIterator(q.start, q.end)
		} else {
			iter, err = child.Iterator(q.start, q.end)
		}
		assert.Nil(t, err)
		for i, want := range q.expected {
			key, value, err := iter.Next()
			assert.Nil(t, err)
			if !bytes.Equal(want.Key, key) {
				t.Fatalf("key %d: want %X, got %X", i, want.Key, key)
			}
			assert.Equal(t, want.Value, value)
		}
		_, _, err = iter.Next()
		assert.IsErr(t, errors.ErrIteratorDone, err)
		iter.Release()
	}
}

func reverse(models []Model) []Model {
	res := make([]Model, len(models))
	for i, m := range models {
		res[len(models)-1-i] = m
	}
	return res
}

func sortModels(models []Model) []Model {
	res := make([]Model, len(models))
	copy(res, models)
	sort.Slice(res, func(i, j int) bool {
		return bytes.Compare(res[i].Key, res[j].Key) < 0
	})
	return res
}

func makeSetOps(ms ...Model) []Op {
	res := make([]Op, len(ms))
	for i, m := range ms {
		res[i] = SetOp(m.Key, m.Value)
	}
	return res
}

func makeDelOps(ms ...Model) []Op {
	res := make([]Op, len(ms))
	for i, m := range ms {
		res[i] = DelOp(m.Key)
	}
	return res
}
