package services

import "errors"

// ErrValidation marks malformed or missing required input. Handlers map
// it to a 400 response. Wrap it with context: fmt.Errorf("%w: title is
// required", ErrValidation).
var ErrValidation = errors.New("validation failed")
