/*
Package router is the entry point of the protocol: it deploys wills, keeps
the registry of every will ever created and routes owner and beneficiary
requests to them.

Addresses of a new will and of its guard are derived from the router address,
the owner and the owner nonce, so they can be predicted before creation. The
nonce only ever grows, while the will count of an owner goes down when a
will is deleted.
*/
package router
