/*
Package testament defines the interfaces used throughout the ledger, such as
storage, transactions, handlers and addresses, together with the context
helpers that carry block information down the handler stack.

Extensions living under x/ build on top of these interfaces. The will
registry (x/router), the per-owner will instances (x/will) and the wallet
activity guard (x/guard) are the core of the application; x/bank, x/safe
and x/whitelist provide the collaborators they talk to.
*/
package testament
