package translation

import "errors"

var (
	// ErrMissingCredentials is returned when no API key can be supplied
	ErrMissingCredentials = errors.New("api credentials not found")

	// ErrNoChoices is returned when the API answered without any text
	ErrNoChoices = errors.New("no translation returned")
)
