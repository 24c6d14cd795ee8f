/*
Package guard implements the activity hook attached to a multisig wallet.

A guard is created by the router together with a forwarding will. Every
transaction executed by the wallet it is attached to updates the guard's last
activity time, which the will uses to decide whether the wallet went dormant.
*/
package guard
