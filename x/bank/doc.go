/*
Package bank keeps the balances of the native asset and of fungible tokens.

Balances are 256 bit unsigned integers stored per (asset, holder) pair. The
native asset is identified by the NativeAsset sentinel address and can only
be credited from genesis. Tokens are created with a symbol and a minter.

The package also maintains the registry of contract addresses. A contract is
an address created by another extension (a will, a guard or a wallet). Value
arriving at a contract triggers the receive hook registered for its kind.
*/
package bank
