/*
Package utils provides the generic decorators every application stack is
built of: panic recovery, logging, savepoints isolating a failed
transaction, action tags and prometheus metrics.
*/
package utils
