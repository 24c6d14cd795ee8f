package orm

import (
	"bytes"
	"encoding/binary"
	"reflect"
	"regexp"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,12}$`).MatchString

// Indexer calculates the secondary index value for a given model. Returning
// nil excludes the model from the index.
type Indexer func(Model) ([]byte, error)

// ModelBucket stores a single type of model. Keys are prefixed with the
// bucket name.
type ModelBucket interface {
	// One query the database for a single model instance. Lookup is done
	// by the primary index key. Result is loaded into given destination
	// model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database.
	// If given model type cannot be used to contain stored entity, ErrType
	// is returned.
	One(db testament.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns nil if an entity with given primary key value exists. It
	// returns ErrNotFound if no entity can be found.
	Has(db testament.ReadOnlyKVStore, key []byte) error

	// Put saves given model in the database. Before inserting into the
	// database, model is validated using its Validate method. If the key
	// is nil a new one is acquired from the bucket sequence.
	// Returned is the key used to store the model.
	Put(db testament.KVStore, key []byte, m Model) ([]byte, error)

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db testament.KVStore, key []byte) error

	// ByIndex returns all objects that secondary index with given name and
	// given key. Main index is always unique but secondary indexes can
	// return more than one value. Models are loaded into destination slice
	// and their primary keys are returned.
	ByIndex(db testament.ReadOnlyKVStore, indexName string, key []byte, dest ModelSlicePtr) ([][]byte, error)

	// Register registers this bucket and all its indexes in the query
	// router under /<name> and /<name>/<index>.
	Register(name string, r testament.QueryRouter)
}

// ModelBucketOption is implemented by any function that can configure a
// model bucket during creation.
type ModelBucketOption func(mb *modelBucket)

// WithIndex configures a secondary index on the bucket.
func WithIndex(name string, indexer Indexer, unique bool) ModelBucketOption {
	return func(mb *modelBucket) {
		if _, ok := mb.indexes[name]; ok {
			panic("index " + name + " declared twice")
		}
		mb.indexes[name] = index{
			name:    name,
			prefix:  []byte("_i." + mb.name + "_" + name + ":"),
			indexer: indexer,
			unique:  unique,
		}
	}
}

// WithIDSequence configures the sequence used when Put is called with a nil
// key.
func WithIDSequence(s Sequence) ModelBucketOption {
	return func(mb *modelBucket) {
		mb.idSeq = s
	}
}

// NewModelBucket returns a ModelBucket instance storing models of the same
// type as given example.
func NewModelBucket(name string, example Model, opts ...ModelBucketOption) ModelBucket {
	if !isBucketName(name) {
		panic("invalid bucket name: " + name)
	}
	tp := reflect.TypeOf(example)
	if tp.Kind() != reflect.Ptr {
		panic("model must be a pointer")
	}
	mb := &modelBucket{
		name:    name,
		prefix:  []byte(name + ":"),
		model:   tp,
		indexes: make(map[string]index),
		idSeq:   NewSequence(name, "id"),
	}
	for _, fn := range opts {
		fn(mb)
	}
	return mb
}

type modelBucket struct {
	name    string
	prefix  []byte
	model   reflect.Type
	indexes map[string]index
	idSeq   Sequence
}

var _ ModelBucket = (*modelBucket)(nil)

func (mb *modelBucket) dbKey(key []byte) []byte {
	return append(append([]byte{}, mb.prefix...), key...)
}

func (mb *modelBucket) newModel() Model {
	return reflect.New(mb.model.Elem()).Interface().(Model)
}

func (mb *modelBucket) load(db testament.ReadOnlyKVStore, key []byte) (Model, error) {
	raw, err := db.Get(mb.dbKey(key))
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if raw == nil {
		return nil, nil
	}
	m := mb.newModel()
	if err := proto.Unmarshal(raw, m); err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "cannot unmarshal %s: %s", mb.name, err)
	}
	return m, nil
}

func (mb *modelBucket) One(db testament.ReadOnlyKVStore, key []byte, dest Model) error {
	if reflect.TypeOf(dest) != mb.model {
		return errors.Wrapf(errors.ErrType, "%T cannot be represented as %s", dest, mb.model)
	}
	m, err := mb.load(db, key)
	if err != nil {
		return err
	}
	if m == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", mb.name, key)
	}
	reflect.ValueOf(dest).Elem().Set(reflect.ValueOf(m).Elem())
	return nil
}

func (mb *modelBucket) Has(db testament.ReadOnlyKVStore, key []byte) error {
	ok, err := db.Has(mb.dbKey(key))
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", mb.name, key)
	}
	return nil
}

func (mb *modelBucket) Put(db testament.KVStore, key []byte, m Model) ([]byte, error) {
	if reflect.TypeOf(m) != mb.model {
		return nil, errors.Wrapf(errors.ErrType, "cannot store %T in %s", m, mb.name)
	}
	if err := m.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid model")
	}
	if key == nil {
		var err error
		if key, err = mb.idSeq.NextVal(db); err != nil {
			return nil, errors.Wrap(err, "id sequence")
		}
	}

	prev, err := mb.load(db, key)
	if err != nil {
		return nil, err
	}
	if err := mb.updateIndexes(db, key, prev, m); err != nil {
		return nil, err
	}

	raw, err := proto.Marshal(m)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "cannot marshal %s: %s", mb.name, err)
	}
	if raw == nil {
		// empty message, nil would read as a missing entity
		raw = []byte{}
	}
	if err := db.Set(mb.dbKey(key), raw); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return key, nil
}

func (mb *modelBucket) Delete(db testament.KVStore, key []byte) error {
	prev, err := mb.load(db, key)
	if err != nil {
		return err
	}
	if prev == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", mb.name, key)
	}
	if err := mb.updateIndexes(db, key, prev, nil); err != nil {
		return err
	}
	if err := db.Delete(mb.dbKey(key)); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

func (mb *modelBucket) updateIndexes(db testament.KVStore, key []byte, prev, next Model) error {
	for _, idx := range mb.indexes {
		if err := idx.update(db, key, prev, next); err != nil {
			return errors.Wrapf(err, "index %s", idx.name)
		}
	}
	return nil
}

func (mb *modelBucket) ByIndex(db testament.ReadOnlyKVStore, indexName string, key []byte, dest ModelSlicePtr) ([][]byte, error) {
	idx, ok := mb.indexes[indexName]
	if !ok {
		return nil, errors.Wrapf(errors.ErrHuman, "unknown index %q", indexName)
	}
	keys, err := idx.keys(db, key)
	if err != nil {
		return nil, err
	}

	dst := reflect.ValueOf(dest)
	if dst.Kind() != reflect.Ptr || dst.Elem().Kind() != reflect.Slice {
		return nil, errors.Wrapf(errors.ErrType, "destination must be a pointer to a slice, got %T", dest)
	}
	slice := dst.Elem()
	elem := slice.Type().Elem()
	if elem != mb.model && elem != mb.model.Elem() {
		return nil, errors.Wrapf(errors.ErrType, "%s cannot be represented as %s", mb.model, elem)
	}

	for _, k := range keys {
		m, err := mb.load(db, k)
		if err != nil {
			return nil, err
		}
		if m == nil {
			return nil, errors.Wrapf(errors.ErrDatabase, "index %s points to missing %X", indexName, k)
		}
		val := reflect.ValueOf(m)
		if elem.Kind() != reflect.Ptr {
			val = val.Elem()
		}
		slice = reflect.Append(slice, val)
	}
	dst.Elem().Set(slice)
	return keys, nil
}

// Register registers this bucket and all its indexes in the query router.
// The bucket path supports the key and the prefix query modes; index paths
// return all models indexed under given value.
func (mb *modelBucket) Register(name string, r testament.QueryRouter) {
	if name == "" {
		name = mb.name
	}
	root := "/" + name
	r.Register(root, testament.QueryFunc(mb.query))
	for _, idx := range mb.indexes {
		idx := idx
		r.Register(root+"/"+idx.name, testament.QueryFunc(func(db testament.ReadOnlyKVStore, mod string, data []byte) ([]testament.Model, error) {
			keys, err := idx.keys(db, data)
			if err != nil {
				return nil, err
			}
			res := make([]testament.Model, 0, len(keys))
			for _, k := range keys {
				raw, err := db.Get(mb.dbKey(k))
				if err != nil {
					return nil, errors.Wrap(errors.ErrDatabase, err.Error())
				}
				res = append(res, testament.Pair(mb.dbKey(k), raw))
			}
			return res, nil
		}))
	}
}

func (mb *modelBucket) query(db testament.ReadOnlyKVStore, mod string, data []byte) ([]testament.Model, error) {
	switch mod {
	case testament.KeyQueryMod:
		key := mb.dbKey(data)
		raw, err := db.Get(key)
		if err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, err.Error())
		}
		if raw == nil {
			return nil, nil
		}
		return []testament.Model{testament.Pair(key, raw)}, nil
	case testament.PrefixQueryMod:
		return prefixScan(db, mb.dbKey(data))
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
}

// index keeps a reference entry per (value, primary key) pair:
//   _i.<bucket>_<name>:<uint16 value length><value><primary key>
type index struct {
	name    string
	prefix  []byte
	indexer Indexer
	unique  bool
}

func (idx index) valuePrefix(value []byte) []byte {
	res := make([]byte, 0, len(idx.prefix)+2+len(value))
	res = append(res, idx.prefix...)
	var ln [2]byte
	binary.BigEndian.PutUint16(ln[:], uint16(len(value)))
	res = append(res, ln[:]...)
	return append(res, value...)
}

func (idx index) value(m Model) ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	return idx.indexer(m)
}

func (idx index) update(db testament.KVStore, key []byte, prev, next Model) error {
	before, err := idx.value(prev)
	if err != nil {
		return err
	}
	after, err := idx.value(next)
	if err != nil {
		return err
	}
	if prev != nil && next != nil && bytes.Equal(before, after) {
		return nil
	}
	if before != nil {
		if err := db.Delete(append(idx.valuePrefix(before), key...)); err != nil {
			return errors.Wrap(errors.ErrDatabase, err.Error())
		}
	}
	if after == nil {
		return nil
	}
	if idx.unique {
		existing, err := idx.keys(db, after)
		if err != nil {
			return err
		}
		if len(existing) != 0 {
			return errors.Wrapf(errors.ErrDuplicate, "value %X already indexed", after)
		}
	}
	if err := db.Set(append(idx.valuePrefix(after), key...), []byte{1}); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// keys returns the primary keys of all models indexed under given value, in
// primary key order.
func (idx index) keys(db testament.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	prefix := idx.valuePrefix(value)
	models, err := prefixScan(db, prefix)
	if err != nil {
		return nil, err
	}
	keys := make([][]byte, 0, len(models))
	for _, m := range models {
		keys = append(keys, m.Key[len(prefix):])
	}
	return keys, nil
}
