// Package enrollment tracks which hackathons a user is enrolled in and
// records new enrollments through a two-phase update: an ID is held as
// pending while the write is in flight and only joins the enrolled set
// once the store confirms it.
package enrollment

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/okian/skillhive/internal/domain/model"
	"github.com/okian/skillhive/pkg/logger"
)

// Writer persists an enrollment. Implementations return an error wrapping
// ErrAlreadyEnrolled when the pair already exists.
type Writer interface {
	CreateEnrollment(ctx context.Context, userID, hackathonID string) error
}

// Tracker holds one user's enrollment state. It is safe for concurrent use.
type Tracker struct {
	mu     sync.RWMutex
	userID string
	writer Writer

	// confirmed maps each enrolled ID to the generation it was confirmed at;
	// IDs that came from a store read carry 0.
	confirmed  map[string]uint64
	pending    map[string]struct{}
	generation uint64
	loaded     bool
	logger     logger.Logger
}

// NewTracker creates a tracker for userID that writes through w.
func NewTracker(userID string, w Writer, opts ...Option) *Tracker {
	t := &Tracker{
		userID:    userID,
		writer:    w,
		confirmed: make(map[string]uint64),
		pending:   make(map[string]struct{}),
		logger:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// UserID returns the user this tracker belongs to.
func (t *Tracker) UserID() string { return t.userID }

// IsEnrolled reports whether hackathonID is confirmed. Pending IDs are not enrolled.
func (t *Tracker) IsEnrolled(hackathonID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.confirmed[hackathonID]
	return ok
}

// IsPending reports whether an enrollment for hackathonID is in flight.
func (t *Tracker) IsPending(hackathonID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.pending[hackathonID]
	return ok
}

// MarkEnrolled adds hackathonID to the confirmed set without a write.
func (t *Tracker) MarkEnrolled(hackathonID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.pending, hackathonID)
	t.generation++
	t.confirmed[hackathonID] = t.generation
}

// Generation returns a counter that advances with every local confirmation.
// Take it before starting an enrollment read and pass it to Load.
func (t *Tracker) Generation() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.generation
}

// Begin opens the tentative phase for hackathonID.
func (t *Tracker) Begin(hackathonID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.confirmed[hackathonID]; ok {
		return ErrAlreadyEnrolled
	}
	if _, ok := t.pending[hackathonID]; ok {
		return ErrInFlight
	}
	t.pending[hackathonID] = struct{}{}
	return nil
}

// Confirm moves a pending hackathonID into the confirmed set.
func (t *Tracker) Confirm(hackathonID string) {
	t.MarkEnrolled(hackathonID)
}

// Reject drops a pending hackathonID, leaving the confirmed set as it was.
func (t *Tracker) Reject(hackathonID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.pending, hackathonID)
}

// RecordEnrollment writes the enrollment and updates local state only on success.
// It returns nil, an error wrapping ErrAlreadyEnrolled, ErrInFlight, or an
// error wrapping ErrEnrollmentFailed.
func (t *Tracker) RecordEnrollment(ctx context.Context, hackathonID string) error {
	if err := t.Begin(hackathonID); err != nil {
		t.logger.Debug(ctx, "enrollment short-circuited",
			logger.String("user_id", t.userID),
			logger.String("hackathon_id", hackathonID),
			logger.Error(err),
		)
		return err
	}

	err := t.writer.CreateEnrollment(ctx, t.userID, hackathonID)
	switch {
	case err == nil:
		t.Confirm(hackathonID)
		t.logger.Info(ctx, "enrolled",
			logger.String("user_id", t.userID),
			logger.String("hackathon_id", hackathonID),
		)
		return nil
	case errors.Is(err, ErrAlreadyEnrolled):
		t.Reject(hackathonID)
		t.logger.Info(ctx, "enrollment conflict",
			logger.String("user_id", t.userID),
			logger.String("hackathon_id", hackathonID),
		)
		return err
	default:
		t.Reject(hackathonID)
		t.logger.Warn(ctx, "enrollment write failed",
			logger.String("user_id", t.userID),
			logger.String("hackathon_id", hackathonID),
			logger.Error(err),
		)
		return fmt.Errorf("%w: %w", ErrEnrollmentFailed, err)
	}
}

// Load replaces the confirmed set with ids from a store read that began at
// generation since. IDs confirmed locally after since are kept, as the read
// may predate them. Pending entries are kept; an ID that is both fetched and
// pending is confirmed.
func (t *Tracker) Load(ids []string, since uint64) {
	next := make(map[string]uint64, len(ids))
	for _, id := range ids {
		next[id] = 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, gen := range t.confirmed {
		if gen > since {
			next[id] = gen
		}
	}
	t.confirmed = next
	t.loaded = true
	for id := range t.pending {
		if _, ok := next[id]; ok {
			delete(t.pending, id)
		}
	}
}

// Loaded reports whether the tracker has been reconciled with the store at least once.
func (t *Tracker) Loaded() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.loaded
}

// Snapshot returns a copy of the confirmed set for a scoring pass.
func (t *Tracker) Snapshot() model.IDSet {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s := make(model.IDSet, len(t.confirmed))
	for id := range t.confirmed {
		s[id] = struct{}{}
	}
	return s
}

// Enrolled returns the confirmed IDs sorted.
func (t *Tracker) Enrolled() []string {
	t.mu.RLock()
	out := make([]string, 0, len(t.confirmed))
	for id := range t.confirmed {
		out = append(out, id)
	}
	t.mu.RUnlock()
	sort.Strings(out)
	return out
}

// Size returns the number of confirmed enrollments.
func (t *Tracker) Size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.confirmed)
}
