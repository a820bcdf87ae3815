package repository

import "errors"

// Sentinel errors for store access. Duplicate enrollments are reported with
// enrollment.ErrAlreadyEnrolled so the tracker can recognize them.
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidRecord = errors.New("invalid record")
	ErrUnavailable   = errors.New("store unavailable")
	ErrUnknownDriver = errors.New("unknown store driver")
)
