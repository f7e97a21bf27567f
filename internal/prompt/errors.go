package prompt

import "errors"

// ErrConfigurationMissing indicates the rules document is absent or unusable
var ErrConfigurationMissing = errors.New("prompt configuration missing")
