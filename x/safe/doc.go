/*
Package safe implements the multisignature wallet a forwarding will is
attached to.

A wallet is owned by a list of addresses and requires a threshold of their
signatures to act. A transaction acts on behalf of a wallet by carrying an
exec header naming the wallet and the operation. The Decorator checks the
owner signatures, calls the wallet guard and adds the wallet address to the
authenticated addresses, so that the transaction message runs with the
wallet authority.

A wallet can have one guard, notified of every exec, and any number of
enabled modules. An enabled module may move wallet funds without owner
signatures through ExecFromModule.
*/
package safe
