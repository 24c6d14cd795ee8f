package utils_test

import (
	"context"
	"testing"

	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/store"
	"github.com/iov-one/testament/weavetest"
	"github.com/iov-one/testament/weavetest/assert"
	"github.com/iov-one/testament/x/utils"
)

func TestSavepoint(t *testing.T) {
	// always written before calling the decorator
	ok, ov := []byte("demo"), []byte("data")
	// written by the handler
	nk, nv := []byte{1, 2, 3}, []byte{4, 5, 6}

	cases := map[string]struct {
		save    utils.Savepoint
		handler testament.Handler
		check   bool
		wantErr *errors.Error
		written [][]byte
		missing [][]byte
	}{
		"savepoint disabled, error keeps both writes": {
			save:    utils.NewSavepoint(),
			handler: writeHandler{key: nk, value: nv, err: errors.ErrHuman},
			check:   true,
			wantErr: errors.ErrHuman,
			written: [][]byte{ok, nk},
		},
		"check savepoint discards on error": {
			save:    utils.NewSavepoint().OnCheck(),
			handler: writeHandler{key: nk, value: nv, err: errors.ErrHuman},
			check:   true,
			wantErr: errors.ErrHuman,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"deliver savepoint discards on error": {
			save:    utils.NewSavepoint().OnDeliver(),
			handler: writeHandler{key: nk, value: nv, err: errors.ErrHuman},
			wantErr: errors.ErrHuman,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"deliver savepoint does not affect check": {
			save:    utils.NewSavepoint().OnDeliver(),
			handler: writeHandler{key: nk, value: nv, err: errors.ErrHuman},
			check:   true,
			wantErr: errors.ErrHuman,
			written: [][]byte{ok, nk},
		},
		"double activation keeps both behaviours": {
			save:    utils.NewSavepoint().OnCheck().OnDeliver(),
			handler: writeHandler{key: nk, value: nv, err: errors.ErrHuman},
			wantErr: errors.ErrHuman,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"success writes through": {
			save:    utils.NewSavepoint().OnCheck().OnDeliver(),
			handler: writeHandler{key: nk, value: nv},
			written: [][]byte{ok, nk},
		},
		"panic inside savepoint is recovered outside": {
			save:    utils.NewSavepoint().OnDeliver(),
			handler: panicHandler{},
			wantErr: errors.ErrPanic,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			ctx := context.Background()
			kv := store.MemStore()
			assert.Nil(t, kv.Set(ok, ov))

			stack := weavetest.Decorate(weavetest.Decorate(tc.handler, tc.save), utils.NewRecovery())
			tx := &weavetest.Tx{}
			var err error
			if tc.check {
				_, err = stack.Check(ctx, kv, tx)
			} else {
				_, err = stack.Deliver(ctx, kv, tx)
			}
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			for _, k := range tc.written {
				has, err := kv.Has(k)
				assert.Nil(t, err)
				if !has {
					t.Errorf("missing key %X", k)
				}
			}
			for _, k := range tc.missing {
				has, err := kv.Has(k)
				assert.Nil(t, err)
				if has {
					t.Errorf("unexpected key %X", k)
				}
			}
		})
	}
}
