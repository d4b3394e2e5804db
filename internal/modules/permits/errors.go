package permits

import "errors"

var (
	ErrPermitNotFound = errors.New("permit not found")
	ErrPhotoNotFound  = errors.New("attachment not found")
)

// ValidationError carries the per-field failure map for an update request.
// Nothing has been written when it is returned.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "validation failed" }
