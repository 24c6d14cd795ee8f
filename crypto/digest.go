package crypto

import (
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/iov-one/testament"
)

// Keccak256 hashes all given data.
func Keccak256(data ...[]byte) []byte {
	return ethcrypto.Keccak256(data...)
}

// PersonalDigest returns the digest of a message signed with the personal
// message prefix "\x19Ethereum Signed Message:\n<len>".
func PersonalDigest(msg []byte) []byte {
	return accounts.TextHash(msg)
}

// Uint256Word returns the 32 byte big endian form of a number, as packed
// by the contract ABI.
func Uint256Word(v uint64) []byte {
	b := uint256.NewInt(v).Bytes32()
	return b[:]
}

// WillAttestation returns the hash a beneficiary signs to attest that the
// owner of a will is gone. It packs the chain id, will kind, will id, owner
// and beneficiary, so that a signature cannot be replayed across chains,
// wills or beneficiaries.
func WillAttestation(chainID uint64, kind uint32, willID uint64, owner, beneficiary testament.Address) []byte {
	return Keccak256(
		Uint256Word(chainID),
		Uint256Word(uint64(kind)),
		Uint256Word(willID),
		common.BytesToAddress(owner).Bytes(),
		common.BytesToAddress(beneficiary).Bytes(),
	)
}

// WillDigest is the personal digest of the will attestation. This is what
// gets signed.
func WillDigest(chainID uint64, kind uint32, willID uint64, owner, beneficiary testament.Address) []byte {
	return PersonalDigest(WillAttestation(chainID, kind, willID, owner, beneficiary))
}

// SignWill produces the attestation signature of given beneficiary key.
func SignWill(s Signer, chainID uint64, kind uint32, willID uint64, owner testament.Address) ([]byte, error) {
	return s.Sign(WillDigest(chainID, kind, willID, owner, s.Address()))
}

// RecoverWillSigner returns the address that signed the attestation for
// given beneficiary.
func RecoverWillSigner(sig []byte, chainID uint64, kind uint32, willID uint64, owner, beneficiary testament.Address) (testament.Address, error) {
	return Recover(WillDigest(chainID, kind, willID, owner, beneficiary), sig)
}
