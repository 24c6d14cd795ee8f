package store

import (
	"bytes"

	"github.com/iov-one/testament/errors"
)

// mergeIterator combines cached items with the iterator of the parent
// store. Cached values shadow the parent, deleted items hide it.
type mergeIterator struct {
	items   []keyer
	pos     int
	parent  Iterator
	reverse bool

	// look ahead of the parent iterator
	pkey, pvalue []byte
	pdone        bool
}

var _ Iterator = (*mergeIterator)(nil)

func newMergeIterator(items []keyer, parent Iterator, reverse bool) (*mergeIterator, error) {
	it := &mergeIterator{
		items:   items,
		parent:  parent,
		reverse: reverse,
	}
	if err := it.advanceParent(); err != nil {
		parent.Release()
		return nil, err
	}
	return it, nil
}

func (it *mergeIterator) advanceParent() error {
	if it.pdone {
		return nil
	}
	key, value, err := it.parent.Next()
	if errors.ErrIteratorDone.Is(err) {
		it.pdone = true
		it.pkey, it.pvalue = nil, nil
		return nil
	}
	if err != nil {
		return err
	}
	it.pkey, it.pvalue = key, value
	return nil
}

// Next returns the next not deleted key/value pair.
func (it *mergeIterator) Next() (key, value []byte, err error) {
	for {
		cacheDone := it.pos >= len(it.items)
		if cacheDone && it.pdone {
			return nil, nil, errors.ErrIteratorDone
		}
		if cacheDone {
			key, value = it.pkey, it.pvalue
			if err := it.advanceParent(); err != nil {
				return nil, nil, err
			}
			return key, value, nil
		}

		item := it.items[it.pos]
		if !it.pdone {
			cmp := bytes.Compare(item.Key(), it.pkey)
			if it.reverse {
				cmp = -cmp
			}
			if cmp > 0 {
				key, value = it.pkey, it.pvalue
				if err := it.advanceParent(); err != nil {
					return nil, nil, err
				}
				return key, value, nil
			}
			if cmp == 0 {
				// cache overrides the parent
				if err := it.advanceParent(); err != nil {
					return nil, nil, err
				}
			}
		}

		it.pos++
		if set, ok := item.(setItem); ok {
			return set.key, set.value, nil
		}
	}
}

// Release releases the parent iterator.
func (it *mergeIterator) Release() {
	it.parent.Release()
	it.items = nil
}

// SliceIterator wraps an Iterator over a slice of models
type SliceIterator struct {
	data []Model
	idx  int
}

var _ Iterator = (*SliceIterator)(nil)

// NewSliceIterator creates a new Iterator over this data
func NewSliceIterator(data []Model) *SliceIterator {
	return &SliceIterator{data: data}
}

// Next returns the next model from the slice.
func (s *SliceIterator) Next() (key, value []byte, err error) {
	if s.idx >= len(s.data) {
		return nil, nil, errors.ErrIteratorDone
	}
	m := s.data[s.idx]
	s.idx++
	return m.Key, m.Value, nil
}

// Release drops the data.
func (s *SliceIterator) Release() {
	s.data = nil
}
