/*
Package will implements the per owner distribution instance.

A will holds a distribution plan: for every asset, the percent of the
balance each beneficiary receives once the will is activated. Two kinds of
wills exist. A custody will holds the funds at its own address. A forwarding
will describes funds held by a multisig wallet and pulls them out of the
wallet, as an enabled wallet module, when activated.

A will is activated either by a quorum of beneficiary attestations or, for
forwarding wills, by the wallet being dormant long enough. Activation is
irreversible and pays out floor(balance * percent / 100) per beneficiary.

All state changing operations of this package are reserved to the router.
*/
package will
