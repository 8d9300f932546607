package apperr

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrValidation     = errors.New("validation failed")
	ErrNotInitialized = errors.New("store not initialized")
)
