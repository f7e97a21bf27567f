// Package processor wires the configured collaborators together and runs the
// application's commands. It opens the translation memory, loads the prompt
// rules, builds the API client behind a circuit breaker and hands all of it
// to the engine.
package processor
