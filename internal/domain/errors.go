package domain

import "errors"

// Sentinel errors for the domain layer. These provide consistent, checkable
// errors for session and form failures.
var (
	ErrInvalidSession = errors.New("stored session is incomplete or corrupt")
	ErrInvalidUpload  = errors.New("invalid profile picture upload")
)
