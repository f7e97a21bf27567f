package engine

import (
	"errors"

	"codeberg.org/snonux/phrasememo/internal/cache"
	"codeberg.org/snonux/phrasememo/internal/translation"
)

var (
	// ErrInputMissing is returned when no phrase was supplied
	ErrInputMissing = errors.New("no text supplied")

	// ErrConfigurationMissing is returned when the rules document, the API
	// client or its credentials are not available
	ErrConfigurationMissing = errors.New("configuration missing")

	// ErrMissingCredentials is wrapped together with ErrConfigurationMissing
	ErrMissingCredentials = translation.ErrMissingCredentials

	// ErrTransport is returned when the translation API call failed
	ErrTransport = errors.New("translation request failed")

	// ErrNotFound is returned when a translation is not in the not-approved bucket
	ErrNotFound = cache.ErrNotFound
)
