// Package prompt loads the rules document (prompt template, dictionary,
// comment rules and augmentations) and builds the system prompt sent to the
// translation API for a phrase.
//
// The document may be written in JSON or YAML. Mapping order is preserved
// because it decides the order of dictionary phrases and comment lines.
package prompt
