// Package normalize canonicalizes raw phrases before they are translated or
// used as cache keys. It splits numbered-list prefixes off the text, collapses
// whitespace and tightens road-sign codes such as "B - 20" into "B-20".
// It also cleans API output, forcing sign codes into Latin script.
package normalize
