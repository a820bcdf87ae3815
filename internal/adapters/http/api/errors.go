package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/skillhive/internal/adapters/repository"
	service "github.com/okian/skillhive/internal/app"
	"github.com/okian/skillhive/internal/domain/enrollment"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrBadBody    = errors.New("malformed request body")
)

// Error codes returned in errorResponse.Code.
const (
	codeBadRequest       = "bad_request"
	codeNotFound         = "not_found"
	codeAlreadyEnrolled  = "already_enrolled"
	codeInProgress       = "in_progress"
	codeEnrollmentClosed = "enrollment_closed"
	codeEnrollmentFailed = "enrollment_failed"
	codeUnavailable      = "unavailable"
	codeTimeout          = "timeout"
	codeInternal         = "internal_error"
	codeRateLimited      = "rate_limited"
)

// classify maps an error from the service to an HTTP status and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidArgument), errors.Is(err, ErrBadRequest), errors.Is(err, ErrBadBody):
		return http.StatusBadRequest, codeBadRequest
	case errors.Is(err, service.ErrNotFound), errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, codeNotFound
	case errors.Is(err, enrollment.ErrAlreadyEnrolled):
		return http.StatusConflict, codeAlreadyEnrolled
	case errors.Is(err, enrollment.ErrInFlight):
		return http.StatusConflict, codeInProgress
	case errors.Is(err, enrollment.ErrClosed):
		return http.StatusConflict, codeEnrollmentClosed
	case errors.Is(err, enrollment.ErrEnrollmentFailed):
		return http.StatusServiceUnavailable, codeEnrollmentFailed
	case errors.Is(err, service.ErrNotStarted), errors.Is(err, repository.ErrUnavailable):
		return http.StatusServiceUnavailable, codeUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, codeTimeout
	default:
		return http.StatusInternalServerError, codeInternal
	}
}
