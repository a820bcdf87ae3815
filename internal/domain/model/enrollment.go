package model

import "time"

// Enrollment links a user to a hackathon. The (UserID, HackathonID) pair is unique.
type Enrollment struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	HackathonID string    `json:"hackathon_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// IDSet is a read-only set of hackathon IDs.
type IDSet map[string]struct{}

// NewIDSet builds a set from ids.
func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// IsEnrolled reports whether id is in the set. A nil set is empty.
func (s IDSet) IsEnrolled(id string) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of IDs.
func (s IDSet) Len() int { return len(s) }
