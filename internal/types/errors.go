package types

import "errors"

// Domain specific errors. Callers match them with errors.Is; the wrapped
// message of the underlying failure is kept by every layer.
var (
	// ErrConfiguration means a required credential (the Gemini API key) is missing.
	ErrConfiguration = errors.New("generation backend not configured")
	// ErrGeneration means the model returned nothing usable.
	ErrGeneration = errors.New("generation failed")

	ErrDuplicateAccount   = errors.New("user already exists")
	ErrNotFound           = errors.New("requested item not found")
	ErrInvalidCredentials = errors.New("invalid password")

	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("action forbidden")
	ErrBadRequest      = errors.New("bad request")
)
