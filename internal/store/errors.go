package store

import "errors"

// ErrUnknownBackend indicates a store backend name that is not supported
var ErrUnknownBackend = errors.New("unknown store backend")
