/*
Package x contains the shared building blocks of the extensions living in
its sub-packages: authentication helpers and the call scoped lock used to
reject reentrant execution.

Sub-packages implement the ledger functionality (Handler, Decorator, etc.)
and are combined together in the app package. Note that protobuf types in
exported code will be prefixed by the package, so follow standard go naming
conventions and avoid stutter. Use eg. `will.SetNameNoteMsg` in place of
`will.WillSetNameNoteMsg`.
*/
package x
