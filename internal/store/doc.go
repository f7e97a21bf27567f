// Package store provides the durable backends of the translation cache.
//
// DocumentStore keeps the whole cache as one JSON document, loaded and
// rewritten wholesale on every mutation, on local disk (FileBlob) or in an
// S3-compatible bucket (ObjectBlob). SQLStore keeps one row per phrase in
// SQLite or PostgreSQL, so a phrase can never sit in two buckets.
package store
