package bank

import (
	"context"
	"testing"

	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/store"
	"github.com/iov-one/testament/weavetest"
	"github.com/iov-one/testament/weavetest/assert"
)

type routes map[string]testament.Handler

func (r routes) Handle(path string, h testament.Handler) { r[path] = h }

func TestSendHandler(t *testing.T) {
	alice := weavetest.NewAddress()
	bobby := weavetest.NewAddress()

	cases := map[string]struct {
		Signer     testament.Address
		Msg        *SendMsg
		WantErr    *errors.Error
		WantAlice  uint64
		WantBobby  uint64
		WantEvents int
	}{
		"source defaults to signer": {
			Signer:     alice,
			Msg:        &SendMsg{Asset: NativeAsset, Destination: bobby, Amount: AmountBytes(Amount(30))},
			WantAlice:  70,
			WantBobby:  30,
			WantEvents: 1,
		},
		"source must sign": {
			Signer:    bobby,
			Msg:       &SendMsg{Asset: NativeAsset, Source: alice, Destination: bobby, Amount: AmountBytes(Amount(30))},
			WantErr:   errors.ErrUnauthorized,
			WantAlice: 100,
		},
		"unknown asset": {
			Signer:    alice,
			Msg:       &SendMsg{Asset: weavetest.NewAddress(), Destination: bobby, Amount: AmountBytes(Amount(1))},
			WantErr:   ErrUnknownAsset,
			WantAlice: 100,
		},
		"zero amount is invalid": {
			Signer:    alice,
			Msg:       &SendMsg{Asset: NativeAsset, Destination: bobby, Amount: AmountBytes(Amount(0))},
			WantErr:   errors.ErrAmount,
			WantAlice: 100,
		},
		"too much": {
			Signer:    alice,
			Msg:       &SendMsg{Asset: NativeAsset, Destination: bobby, Amount: AmountBytes(Amount(101))},
			WantErr:   errors.ErrInsufficientAmount,
			WantAlice: 100,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			ctx := context.Background()
			db := store.MemStore()
			ctrl := NewController()
			assert.Nil(t, ctrl.Mint(ctx, db, NativeAsset, alice, Amount(100)))

			r := make(routes)
			RegisterRoutes(r, &weavetest.Auth{Signer: tc.Signer}, ctrl)
			h := r[PathSendMsg]

			tx := &weavetest.Tx{Msg: tc.Msg}
			res, err := h.Deliver(ctx, db, tx)
			if !tc.WantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if err == nil {
				assert.Equal(t, tc.WantEvents, len(res.EventsOf(EventTransfer)))
			}
			assertBalance(t, ctrl, db, NativeAsset, alice, tc.WantAlice)
			assertBalance(t, ctrl, db, NativeAsset, bobby, tc.WantBobby)
		})
	}
}

func TestCreateAndMintToken(t *testing.T) {
	ctx := context.Background()
	db := store.MemStore()
	ctrl := NewController()
	minter := weavetest.NewAddress()
	holder := weavetest.NewAddress()

	r := make(routes)
	RegisterRoutes(r, &weavetest.Auth{Signer: minter}, ctrl)

	res, err := r[PathCreateTokenMsg].Deliver(ctx, db, &weavetest.Tx{Msg: &CreateTokenMsg{Symbol: "DAI"}})
	assert.Nil(t, err)
	token := testament.Address(res.Data)
	assert.Equal(t, TokenAddress(1), token)

	_, err = r[PathCreateTokenMsg].Deliver(ctx, db, &weavetest.Tx{Msg: &CreateTokenMsg{Symbol: "dai"}})
	assert.IsErr(t, errors.ErrInput, err)

	mint := &MintMsg{Token: token, Recipient: holder, Amount: AmountBytes(Amount(500))}
	_, err = r[PathMintMsg].Deliver(ctx, db, &weavetest.Tx{Msg: mint})
	assert.Nil(t, err)
	assertBalance(t, ctrl, db, token, holder, 500)

	// only the minter can mint
	r = make(routes)
	RegisterRoutes(r, &weavetest.Auth{Signer: holder}, ctrl)
	_, err = r[PathMintMsg].Deliver(ctx, db, &weavetest.Tx{Msg: mint})
	assert.IsErr(t, errors.ErrUnauthorized, err)

	// native asset cannot be minted by a message
	mint.Token = NativeAsset
	_, err = r[PathMintMsg].Deliver(ctx, db, &weavetest.Tx{Msg: mint})
	assert.IsErr(t, ErrUnknownAsset, err)
}
