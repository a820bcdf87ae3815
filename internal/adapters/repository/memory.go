package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/okian/skillhive/internal/domain/enrollment"
	"github.com/okian/skillhive/internal/domain/model"
)

// MemoryStore keeps everything in maps. It is the default backend and the
// fixture store for tests.
type MemoryStore struct {
	mu          sync.RWMutex
	profiles    map[string]model.Profile
	hackathons  map[string]model.Hackathon
	enrollments map[string][]model.Enrollment // by user
	now         func() time.Time
}

// MemoryOption applies a configuration option to the MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock overrides the enrollment timestamp source.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		profiles:    make(map[string]model.Profile),
		hackathons:  make(map[string]model.Hackathon),
		enrollments: make(map[string][]model.Enrollment),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UpsertProfile stores a copy of p.
func (s *MemoryStore) UpsertProfile(ctx context.Context, p model.Profile) error {
	if err := validateProfile(p); err != nil {
		return err
	}
	p.Skills = append([]string{}, p.Skills...)
	s.mu.Lock()
	s.profiles[p.ID] = p
	s.mu.Unlock()
	return nil
}

// UpsertHackathon stores a copy of h.
func (s *MemoryStore) UpsertHackathon(ctx context.Context, h model.Hackathon) error {
	if err := validateHackathon(h); err != nil {
		return err
	}
	h.SkillsRequired = append([]string{}, h.SkillsRequired...)
	s.mu.Lock()
	s.hackathons[h.ID] = h
	s.mu.Unlock()
	return nil
}

// FetchProfile implements Store.
func (s *MemoryStore) FetchProfile(ctx context.Context, userID string) (model.Profile, error) {
	if err := ctx.Err(); err != nil {
		return model.Profile{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	if !ok {
		return model.Profile{}, fmt.Errorf("profile %s: %w", userID, ErrNotFound)
	}
	return cloneProfile(p), nil
}

// FetchHackathons implements Store.
func (s *MemoryStore) FetchHackathons(ctx context.Context, statuses ...model.Status) ([]model.Hackathon, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	want := statusSet(statuses)
	s.mu.RLock()
	out := make([]model.Hackathon, 0, len(s.hackathons))
	for _, h := range s.hackathons {
		if want != nil && !want[h.Status] {
			continue
		}
		h.SkillsRequired = append([]string{}, h.SkillsRequired...)
		out = append(out, h)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.Before(out[j].StartDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// FetchEnrollments implements Store.
func (s *MemoryStore) FetchEnrollments(ctx context.Context, userID string) ([]model.Enrollment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Enrollment{}, s.enrollments[userID]...), nil
}

// FetchOtherProfiles implements Store.
func (s *MemoryStore) FetchOtherProfiles(ctx context.Context, userID string) ([]model.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := make([]model.Profile, 0, len(s.profiles))
	for id, p := range s.profiles {
		if id == userID {
			continue
		}
		out = append(out, cloneProfile(p))
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// CreateEnrollment implements Store.
func (s *MemoryStore) CreateEnrollment(ctx context.Context, userID, hackathonID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.hackathons[hackathonID]; !ok {
		return fmt.Errorf("hackathon %s: %w", hackathonID, ErrNotFound)
	}
	for _, e := range s.enrollments[userID] {
		if e.HackathonID == hackathonID {
			return fmt.Errorf("user %s hackathon %s: %w", userID, hackathonID, enrollment.ErrAlreadyEnrolled)
		}
	}
	s.enrollments[userID] = append(s.enrollments[userID], model.Enrollment{
		ID:          uuid.NewString(),
		UserID:      userID,
		HackathonID: hackathonID,
		CreatedAt:   s.now().UTC(),
	})
	return nil
}

// Count returns the number of profiles, hackathons and enrollments held.
func (s *MemoryStore) Count() (profiles, hackathons, enrollments int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, es := range s.enrollments {
		enrollments += len(es)
	}
	return len(s.profiles), len(s.hackathons), enrollments
}

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }

func cloneProfile(p model.Profile) model.Profile {
	p.Skills = append([]string{}, p.Skills...)
	return p
}
