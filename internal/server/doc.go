// Package server exposes the engine over a single JSON endpoint. A request
// carries one of text, approve or mark_incorrect and is answered with the
// translation or a success flag; failures are reported in the error field.
package server
