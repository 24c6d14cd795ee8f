/*
Package crypto implements the secp256k1 keys used to authorize transactions
and attestations, the personal message digests they sign, signer recovery
and the deterministic derivation of contract addresses.
*/
package crypto

import (
	"crypto/ecdsa"
	"encoding/hex"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
)

// SignatureLength is the length of a recoverable signature: r, s and v.
const SignatureLength = ethcrypto.SignatureLength

// Signer is the functionality we use from a private key.
// No serializing to support hardware devices as well.
type Signer interface {
	// Sign signs a 32 byte digest and returns a 65 byte recoverable
	// signature with v in the {27, 28} range.
	Sign(digest []byte) ([]byte, error)
	// Address returns the account address of this key.
	Address() testament.Address
}

// PrivateKey is a secp256k1 private key.
type PrivateKey struct {
	key *ecdsa.PrivateKey
}

var _ Signer = (*PrivateKey)(nil)

// GenerateKey returns a new random key.
func GenerateKey() (*PrivateKey, error) {
	k, err := ethcrypto.GenerateKey()
	if err != nil {
		return nil, errors.Wrap(errors.ErrHuman, err.Error())
	}
	return &PrivateKey{key: k}, nil
}

// KeyFromHex loads a private key from its hex representation.
func KeyFromHex(s string) (*PrivateKey, error) {
	if len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	k, err := ethcrypto.HexToECDSA(s)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "private key: %s", err)
	}
	return &PrivateKey{key: k}, nil
}

// Hex returns the hex encoded private key.
func (p *PrivateKey) Hex() string {
	return hex.EncodeToString(ethcrypto.FromECDSA(p.key))
}

// Address returns the account address of this key.
func (p *PrivateKey) Address() testament.Address {
	return testament.AddressFromCommon(ethcrypto.PubkeyToAddress(p.key.PublicKey))
}

// Sign signs a 32 byte digest.
func (p *PrivateKey) Sign(digest []byte) ([]byte, error) {
	if len(digest) != 32 {
		return nil, errors.Wrapf(errors.ErrInput, "digest must be 32 bytes, got %d", len(digest))
	}
	sig, err := ethcrypto.Sign(digest, p.key)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	sig[64] += 27
	return sig, nil
}

// Recover returns the address of the key that produced given signature over
// the digest. Both {0, 1} and {27, 28} recovery ids are accepted.
func Recover(digest, sig []byte) (testament.Address, error) {
	if len(sig) != SignatureLength {
		return nil, errors.Wrapf(errors.ErrInput, "signature must be %d bytes, got %d", SignatureLength, len(sig))
	}
	if len(digest) != 32 {
		return nil, errors.Wrapf(errors.ErrInput, "digest must be 32 bytes, got %d", len(digest))
	}
	normalized := append([]byte{}, sig...)
	if normalized[64] >= 27 {
		normalized[64] -= 27
	}
	if normalized[64] > 1 {
		return nil, errors.Wrap(errors.ErrInput, "invalid recovery id")
	}
	pub, err := ethcrypto.SigToPub(digest, normalized)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot recover signer: %s", err)
	}
	return testament.AddressFromCommon(ethcrypto.PubkeyToAddress(*pub)), nil
}
