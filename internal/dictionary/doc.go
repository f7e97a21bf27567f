// Package dictionary selects the dictionary phrases, comment lines and
// augmentation clauses whose trigger substrings occur in a phrase. All
// functions are pure: they take the text and the rules and return matches.
package dictionary
