// Package cache implements the tri-state translation cache. Every phrase
// lives in exactly one bucket: approved (partitioned by category),
// not approved, or incorrect. Keys are normalized at this boundary so callers
// never need to strip trailing periods themselves.
package cache
