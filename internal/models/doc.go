// Package models lists the chat models available to the configured OpenAI
// key, to help choose a value for openai.model.
package models
