package application

import (
	"errors"
	"fmt"
)

// Service-level sentinels. Handlers map these to HTTP statuses; callers
// match them with errors.Is.
var (
	ErrUnauthorized       = errors.New("application: unauthorized")
	ErrNotFound           = errors.New("application: not found")
	ErrAlreadyExists      = errors.New("application: already exists")
	ErrInvalidCredentials = errors.New("application: invalid credentials")
	ErrSessionExpired     = errors.New("application: session expired")
	ErrSessionRevoked     = errors.New("application: session revoked")
)

// ValidationError collects per-field problems with user input. The messages
// are user-facing and already localized.
type ValidationError struct {
	FieldErrors map[string]string
}

func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("validation failed on %d field(s)", len(v.FieldErrors))
}

// HasErrors reports whether any field was rejected.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}
