/*
Package orm provides an easy to use database access layer for models stored
in a key value store.

Models are protobuf messages. A ModelBucket stores one type of model under a
name prefixed key space, keeps any declared secondary indexes in sync and can
issue sequential identifiers. Buckets can be registered in a query router to
expose their content.
*/
package orm
