package enrollment

import "errors"

// Outcome classifies the result of an enrollment attempt.
type Outcome string

// Enrollment outcomes.
const (
	OutcomeEnrolled        Outcome = "enrolled"
	OutcomeAlreadyEnrolled Outcome = "already_enrolled"
	OutcomeInFlight        Outcome = "in_progress"
	OutcomeClosed          Outcome = "closed"
	OutcomeFailed          Outcome = "failed"
)

// Classify maps the error returned by RecordEnrollment to an Outcome.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeEnrolled
	case errors.Is(err, ErrAlreadyEnrolled):
		return OutcomeAlreadyEnrolled
	case errors.Is(err, ErrInFlight):
		return OutcomeInFlight
	case errors.Is(err, ErrClosed):
		return OutcomeClosed
	default:
		return OutcomeFailed
	}
}

// Title is the short headline shown to the user.
func (o Outcome) Title() string {
	switch o {
	case OutcomeEnrolled:
		return "Enrolled successfully"
	case OutcomeAlreadyEnrolled:
		return "Already enrolled"
	case OutcomeInFlight:
		return "Enrollment in progress"
	case OutcomeClosed:
		return "Enrollment closed"
	default:
		return "Error"
	}
}

// Message is the user-facing explanation.
func (o Outcome) Message() string {
	switch o {
	case OutcomeEnrolled:
		return "You have been enrolled in this hackathon."
	case OutcomeAlreadyEnrolled:
		return "You are already enrolled in this hackathon"
	case OutcomeInFlight:
		return "Your enrollment is still being processed"
	case OutcomeClosed:
		return "This hackathon has ended and no longer accepts enrollments"
	default:
		return "Failed to enroll. Please try again."
	}
}
