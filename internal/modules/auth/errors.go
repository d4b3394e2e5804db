package auth

import "errors"

// ErrInvalidSession covers every way a presented session token can be bad:
// unparseable, unknown, revoked or expired. Callers treat them all the same.
var ErrInvalidSession = errors.New("invalid or expired session")
