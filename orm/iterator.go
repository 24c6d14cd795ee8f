package orm

import (
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
)

// PrefixRange turns a prefix into a (start, end) range. The end is the
// smallest key that does not start with the prefix. Nil end means there is
// no upper limit.
func PrefixRange(prefix []byte) ([]byte, []byte) {
	if len(prefix) == 0 {
		return nil, nil
	}
	start := append([]byte{}, prefix...)
	end := append([]byte{}, prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return start, end[:i+1]
		}
	}
	return start, nil
}

// ConsumeIterator will read all remaining data into an
// array and release the iterator
func ConsumeIterator(itr testament.Iterator) ([]testament.Model, error) {
	defer itr.Release()

	var res []testament.Model
	for {
		key, value, err := itr.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res, nil
		}
		if err != nil {
			return nil, err
		}
		res = append(res, testament.Pair(key, value))
	}
}

// prefixScan returns all models whose key starts with given prefix.
func prefixScan(db testament.ReadOnlyKVStore, prefix []byte) ([]testament.Model, error) {
	start, end := PrefixRange(prefix)
	itr, err := db.Iterator(start, end)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return ConsumeIterator(itr)
}
