package crypto

import (
	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/iov-one/testament"
)

// Templates identify the kind of instance deployed by the router. Their
// hashes take the role of the init code hash.
const (
	TemplateCustodyWill    = "will/custody"
	TemplateForwardingWill = "will/forwarding"
	TemplateGuard          = "guard"
)

// Salt is derived from the owner and its creation nonce.
func Salt(owner testament.Address, nonce uint64) [32]byte {
	var salt [32]byte
	copy(salt[:], Keccak256(common.BytesToAddress(owner).Bytes(), Uint256Word(nonce)))
	return salt
}

// CreateAddress2 derives the address of an instance created by deployer for
// owner at given nonce. The same inputs always produce the same address.
func CreateAddress2(deployer, owner testament.Address, nonce uint64, template string) testament.Address {
	addr := ethcrypto.CreateAddress2(
		common.BytesToAddress(deployer),
		Salt(owner, nonce),
		Keccak256([]byte(template)),
	)
	return testament.AddressFromCommon(addr)
}
