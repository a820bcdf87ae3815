package enrollment

import "errors"

// Sentinel errors for enrollment writes.
var (
	// ErrAlreadyEnrolled is the expected conflict for a duplicate (user, hackathon) pair.
	ErrAlreadyEnrolled = errors.New("already enrolled")
	// ErrEnrollmentFailed wraps any other write failure. Callers may retry.
	ErrEnrollmentFailed = errors.New("enrollment failed")
	// ErrInFlight means an enrollment for the same hackathon has not settled yet.
	ErrInFlight = errors.New("enrollment in progress")
	// ErrClosed means the hackathon no longer accepts enrollments.
	ErrClosed = errors.New("enrollment closed")
)
