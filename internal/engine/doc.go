// Package engine decides how a phrase gets its translation: passed through
// when it is too short or numeric, served from the cache, or requested from
// the translation API and remembered as not approved. It also moves cached
// translations to the approved or incorrect bucket.
package engine
