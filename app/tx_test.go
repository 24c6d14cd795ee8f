package app

import (
	"bytes"
	"testing"

	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/store"
	"github.com/iov-one/testament/weavetest"
	"github.com/iov-one/testament/weavetest/assert"
	"github.com/iov-one/testament/x/bank"
	"github.com/iov-one/testament/x/batch"
	"github.com/iov-one/testament/x/router"
	"github.com/iov-one/testament/x/safe"
	"github.com/iov-one/testament/x/sigs"
	"github.com/stretchr/testify/require"
)

func TestTxSignAndDecode(t *testing.T) {
	codec := DefaultCodec()
	key := weavetest.NewKey()
	wallet := safe.WalletAddress(1)

	msg := &router.DeleteWillMsg{WillID: 7}
	tx, err := codec.NewTx(msg, &safe.ExecInfo{Wallet: wallet})
	require.NoError(t, err)
	unsigned, err := tx.GetSignBytes()
	require.NoError(t, err)

	require.NoError(t, tx.Sign(key, "test-chain", 0))
	signed, err := tx.GetSignBytes()
	require.NoError(t, err)
	// Signatures are not part of the signed bytes.
	require.True(t, bytes.Equal(unsigned, signed))

	raw, err := testament.Marshal(tx)
	require.NoError(t, err)
	decoded, err := codec.DecodeTx(raw)
	require.NoError(t, err)

	got, err := decoded.GetMsg()
	require.NoError(t, err)
	require.Equal(t, msg, got)
	require.Equal(t, wallet, decoded.(safe.ExecTx).GetExec().GetWallet())

	signers, err := sigs.VerifyTxSignatures(store.MemStore(), decoded.(sigs.SignedTx), "test-chain")
	require.NoError(t, err)
	require.Equal(t, []testament.Address{key.Address()}, signers)
}

func TestCodecDecode(t *testing.T) {
	codec := DefaultCodec()
	send := &bank.SendMsg{
		Asset:       bank.NativeAsset,
		Source:      weavetest.NewAddress(),
		Destination: weavetest.NewAddress(),
		Amount:      bank.AmountBytes(bank.Amount(3)),
	}
	sendEnv, err := codec.Encode(send)
	assert.Nil(t, err)
	batchEnv := func(envs ...*Envelope) *Envelope {
		raw, err := testament.Marshal(&BatchMsg{Messages: envs})
		assert.Nil(t, err)
		return &Envelope{Path: PathBatchMsg, Payload: raw}
	}
	tooMany := make([]*Envelope, batch.MaxBatchMessages+1)
	for i := range tooMany {
		tooMany[i] = sendEnv
	}

	cases := map[string]struct {
		env      *Envelope
		wantErr  *errors.Error
		wantMsgs int
	}{
		"single message": {
			env: sendEnv,
		},
		"batch": {
			env:      batchEnv(sendEnv, sendEnv),
			wantMsgs: 2,
		},
		"missing envelope": {
			env:     nil,
			wantErr: errors.ErrMsg,
		},
		"unknown path": {
			env:     &Envelope{Path: "foo/bar"},
			wantErr: errors.ErrMsg,
		},
		"garbage payload": {
			env:     &Envelope{Path: bank.PathSendMsg, Payload: []byte{0xff, 0xff, 0xff}},
			wantErr: errors.ErrInput,
		},
		"empty batch": {
			env:     batchEnv(),
			wantErr: errors.ErrEmpty,
		},
		"nested batch": {
			env:     batchEnv(sendEnv, batchEnv(sendEnv)),
			wantErr: errors.ErrMsg,
		},
		"batch too long": {
			env:     batchEnv(tooMany...),
			wantErr: errors.ErrInput,
		},
		"batch with unknown message": {
			env:     batchEnv(sendEnv, &Envelope{Path: "foo/bar"}),
			wantErr: errors.ErrMsg,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			msg, err := codec.Decode(tc.env)
			assert.IsErr(t, tc.wantErr, err)
			if tc.wantErr != nil {
				return
			}
			b, ok := msg.(batch.Msg)
			if tc.wantMsgs == 0 {
				assert.Equal(t, false, ok)
				assert.Equal(t, send, msg)
				return
			}
			assert.Equal(t, true, ok)
			assert.Nil(t, b.Validate())
			msgs, err := b.MsgList()
			assert.Nil(t, err)
			assert.Equal(t, tc.wantMsgs, len(msgs))
		})
	}
}

func TestCodecRegisterTwicePanics(t *testing.T) {
	codec := NewCodec()
	codec.Register(func() testament.Msg { return &bank.SendMsg{} })
	assert.Panics(t, func() {
		codec.Register(func() testament.Msg { return &bank.SendMsg{} })
	})
}

func TestCodecNewBatch(t *testing.T) {
	codec := DefaultCodec()
	owner := weavetest.NewAddress()
	b, err := codec.NewBatch(
		&safe.CreateSafeMsg{Owners: []testament.Address{owner}, Threshold: 1},
		&router.DeleteWillMsg{WillID: 1},
	)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(b.Messages))

	tx, err := codec.NewTx(b, nil)
	assert.Nil(t, err)
	raw, err := testament.Marshal(tx)
	assert.Nil(t, err)
	decoded, err := codec.DecodeTx(raw)
	assert.Nil(t, err)
	assert.Equal(t, PathBatchMsg, testament.GetPath(decoded))

	_, err = codec.NewBatch(&weavetest.Msg{RoutePath: "unknown"})
	assert.IsErr(t, errors.ErrMsg, err)
}
