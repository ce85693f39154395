package persistence

import "errors"

// Sentinel errors shared by every repository implementation. Callers match
// them with errors.Is.
var (
	ErrNotFound  = errors.New("persistence: record not found")
	ErrDuplicate = errors.New("persistence: duplicate record")
)
