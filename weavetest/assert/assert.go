// Package assert holds the few test assertions used across the ledger
// packages. Every failed assertion stops the test.
package assert

import (
	"reflect"

	"github.com/iov-one/testament/errors"
)

// Tester is the part of testing.TB the assertions need.
type Tester interface {
	Helper()
	Fatal(...interface{})
	Fatalf(string, ...interface{})
}

// Nil fails if value is neither nil nor a nil chan, func, interface, map,
// pointer or slice.
func Nil(t Tester, value interface{}) {
	t.Helper()
	if !isNil(value) {
		// %+v prints the stack of a wrapped error.
		t.Fatalf("want nil, got %+v", value)
	}
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return v.IsNil()
	}
	return false
}

// Equal fails if want and got are not deeply equal.
func Equal(t Tester, want, got interface{}) {
	t.Helper()
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("values not equal\nwant %T %v\n got %T %v", want, want, got, got)
	}
}

// Panics fails if fn returns without panicking.
func Panics(t Tester, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatal("panic expected")
		}
	}()
	fn()
}

// FieldError fails unless err holds exactly one error for fieldName and that
// error is of the want kind. A nil want requires no error for the field.
func FieldError(t Tester, err error, fieldName string, want *errors.Error) {
	t.Helper()
	errs := errors.FieldErrors(err, fieldName)
	switch {
	case want == nil && len(errs) == 0:
	case want == nil:
		t.Fatalf("field %q: want no error, got %q", fieldName, errs)
	case len(errs) != 1:
		t.Fatalf("field %q: want one %q error, got %q", fieldName, want, errs)
	case !want.Is(errs[0]):
		t.Fatalf("field %q: want %q, got %q", fieldName, want, errs[0])
	}
}

// IsErr fails unless got is want or want.Is(got) holds.
func IsErr(t Tester, want, got error) {
	t.Helper()
	if want == got {
		return
	}
	if w, ok := want.(interface{ Is(error) bool }); ok && w.Is(got) {
		return
	}
	t.Fatalf("want %q, got %+v", want, got)
}
