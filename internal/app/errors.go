package service

import "errors"

var (
	// ErrNotStarted is returned by every operation before Start.
	ErrNotStarted = errors.New("service not started")
	// ErrNotFound is returned when the user or hackathon does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is returned for empty identifiers.
	ErrInvalidArgument = errors.New("invalid argument")
)
