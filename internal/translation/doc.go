// Package translation talks to the external chat-completion APIs that
// produce translations. It offers OpenAI and Gemini clients behind a common
// Client interface, pluggable credential suppliers and a circuit breaker.
package translation
