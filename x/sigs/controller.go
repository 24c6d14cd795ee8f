package sigs

import (
	"encoding/binary"

	"github.com/iov-one/testament"
	"github.com/iov-one/testament/crypto"
	"github.com/iov-one/testament/errors"
)

// SignCodeV1 is the current way to prefix the bytes we use to build
// a signature
var SignCodeV1 = []byte{0, 0xCA, 0xFE, 0}

// VerifyTxSignatures checks all the signatures on the tx.
//
// returns list of signer addresses (possibly empty),
// or error if any signature is invalid
func VerifyTxSignatures(db testament.KVStore, tx SignedTx, chainID string) ([]testament.Address, error) {
	bz, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	sigs := tx.GetSignatures()

	signers := make([]testament.Address, 0, len(sigs))
	for i, sig := range sigs {
		signer, err := VerifySignature(db, sig, bz, chainID)
		if err != nil {
			return nil, errors.Wrapf(err, "signature %d", i)
		}
		for _, s := range signers {
			if s.Equals(signer) {
				return nil, errors.Wrapf(errors.ErrDuplicate, "signer %s", signer)
			}
		}
		signers = append(signers, signer)
	}
	return signers, nil
}

// VerifySignature checks one signature against signbytes, check chain and
// updates the signer sequence in the store.
func VerifySignature(db testament.KVStore, sig *StdSignature, signBytes []byte, chainID string) (testament.Address, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	digest, err := BuildSignBytes(signBytes, chainID, sig.Sequence)
	if err != nil {
		return nil, err
	}
	signer, err := crypto.Recover(digest, sig.Signature)
	if err != nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, err.Error())
	}

	user, err := loadUser(db, signer)
	if err != nil {
		return nil, err
	}
	if err := user.CheckAndIncrementSequence(sig.Sequence); err != nil {
		return nil, err
	}
	if _, err := NewBucket().Put(db, signer, user); err != nil {
		return nil, errors.Wrap(err, "save user")
	}
	return signer, nil
}

/*
BuildSignBytes combines all info on the actual tx before signing

We use the following format:

version | len(chainID) | chainID      | nonce             | signBytes
4bytes  | uint8        | ascii string | int64 (bigendian) | serialized transaction

This is then hashed with keccak256 before fed into the secp256k1 signing and
recovery step.
*/
func BuildSignBytes(signBytes []byte, chainID string, seq int64) ([]byte, error) {
	if seq < 0 {
		return nil, errors.Wrap(ErrInvalidSequence, "negative")
	}
	if !testament.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id: %q", chainID)
	}

	nonce := make([]byte, 8)
	binary.BigEndian.PutUint64(nonce, uint64(seq))

	// concatenate everything
	res := make([]byte, 0, len(SignCodeV1)+1+len(chainID)+8+len(signBytes))
	res = append(res, SignCodeV1...)
	res = append(res, uint8(len(chainID)))
	res = append(res, []byte(chainID)...)
	res = append(res, nonce...)
	res = append(res, signBytes...)
	return crypto.Keccak256(res), nil
}

// BuildSignBytesTx calculates the sign bytes given a tx
func BuildSignBytesTx(tx SignedTx, chainID string, seq int64) ([]byte, error) {
	signBytes, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	return BuildSignBytes(signBytes, chainID, seq)
}

// SignTx creates a signature for the given tx
func SignTx(signer crypto.Signer, tx SignedTx, chainID string, seq int64) (*StdSignature, error) {
	digest, err := BuildSignBytesTx(tx, chainID, seq)
	if err != nil {
		return nil, err
	}
	sig, err := signer.Sign(digest)
	if err != nil {
		return nil, err
	}
	return &StdSignature{
		Sequence:  seq,
		Signature: sig,
	}, nil
}
