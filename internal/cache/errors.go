package cache

import "errors"

// ErrNotFound indicates no not-approved entry carries the given translation
var ErrNotFound = errors.New("translation not found")
