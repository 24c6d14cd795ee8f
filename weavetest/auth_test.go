package weavetest

import (
	"context"
	"reflect"
	"testing"

	"github.com/iov-one/testament"
)

func TestAuthNoSigners(t *testing.T) {
	var a Auth

	if got := a.GetAddresses(nil); got != nil {
		t.Fatalf("unexpected addresses: %+v", got)
	}

	if a.HasAddress(nil, NewAddress()) {
		t.Fatal("random address must not be present")
	}
}

func TestAuthUsingSignerAndSigners(t *testing.T) {
	addrs := []testament.Address{
		NewAddress(),
		NewAddress(),
		NewAddress(),
	}

	a := Auth{
		Signer:  addrs[2],
		Signers: addrs[:2],
	}

	if got := a.GetAddresses(nil); !reflect.DeepEqual(got, addrs) {
		for i, c := range got {
			t.Logf("address %d: %s", i, c)
		}
		t.Fatalf("unexpected addresses")
	}

	for i, c := range addrs {
		if !a.HasAddress(nil, c) {
			t.Errorf("address %d (%s) should be present", i, c)
		}
	}

	if a.HasAddress(nil, NewAddress()) {
		t.Fatal("random address must not be present")
	}
}

func TestCtxAuth(t *testing.T) {
	addrs := []testament.Address{
		NewKey().Address(),
		NewKey().Address(),
	}

	a := CtxAuth{Key: "auth"}
	ctx := context.Background()

	if got := a.GetAddresses(ctx); len(got) != 0 {
		t.Fatalf("unexpected addresses: %+v", got)
	}

	ctx = a.SetAddresses(ctx, addrs...)
	if got := a.GetAddresses(ctx); !reflect.DeepEqual(got, addrs) {
		t.Fatalf("unexpected addresses: %+v", got)
	}
	if !a.HasAddress(ctx, addrs[1]) {
		t.Fatal("address should be present")
	}
	if a.HasAddress(ctx, NewAddress()) {
		t.Fatal("random address must not be present")
	}
}
