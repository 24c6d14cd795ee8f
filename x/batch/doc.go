/*
Package batch implements batch transactions.

A batch transaction holds a list of messages that the application can
process. The transaction fails if any of the messages fail to be processed,
so wallet creation, funding and will creation can run atomically. Note that
signatures and other extensions that don't rely on messages are only applied
once per transaction, which means that the "embedded" messages don't hit the
middleware placed before this decorator.
*/
package batch
