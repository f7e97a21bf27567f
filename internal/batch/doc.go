// Package batch translates a file of phrases, one per line, with bounded
// concurrency. Lines of the form "phrase = translation" seed the cache with
// approved translations instead of being sent to the API.
package batch
