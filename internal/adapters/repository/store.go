// Package repository provides the stores behind the matching service: an
// in-memory store, sqlite and postgres implementations, and a circuit
// breaker wrapper for remote backends.
package repository

import (
	"context"
	"fmt"

	"github.com/okian/skillhive/internal/domain/model"
)

// Store is the read/write boundary the service depends on.
type Store interface {
	// FetchProfile returns the profile for userID or ErrNotFound.
	FetchProfile(ctx context.Context, userID string) (model.Profile, error)

	// FetchHackathons returns hackathons ordered by start date ascending, then ID.
	// When statuses is non-empty only those states are returned.
	FetchHackathons(ctx context.Context, statuses ...model.Status) ([]model.Hackathon, error)

	// FetchEnrollments returns userID's enrollments.
	FetchEnrollments(ctx context.Context, userID string) ([]model.Enrollment, error)

	// FetchOtherProfiles returns every profile except userID's, ordered by name then ID.
	FetchOtherProfiles(ctx context.Context, userID string) ([]model.Profile, error)

	// CreateEnrollment inserts the (userID, hackathonID) pair. A duplicate
	// pair yields an error wrapping enrollment.ErrAlreadyEnrolled; an unknown
	// hackathon yields ErrNotFound.
	CreateEnrollment(ctx context.Context, userID, hackathonID string) error

	Close() error
}

// Seeder writes fixtures. It is used by the CLI and tests.
type Seeder interface {
	UpsertProfile(ctx context.Context, p model.Profile) error
	UpsertHackathon(ctx context.Context, h model.Hackathon) error
}

// Repository is a Store that can also be seeded.
type Repository interface {
	Store
	Seeder
}

func validateProfile(p model.Profile) error {
	if p.ID == "" {
		return fmt.Errorf("%w: profile id is empty", ErrInvalidRecord)
	}
	if p.Education != "" && !p.Education.Valid() {
		return fmt.Errorf("%w: unknown education %q", ErrInvalidRecord, p.Education)
	}
	return nil
}

func validateHackathon(h model.Hackathon) error {
	if h.ID == "" {
		return fmt.Errorf("%w: hackathon id is empty", ErrInvalidRecord)
	}
	if h.EndDate.Before(h.StartDate) {
		return fmt.Errorf("%w: hackathon %s ends before it starts", ErrInvalidRecord, h.ID)
	}
	if !h.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidRecord, h.Status)
	}
	if !h.Mode.Valid() {
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidRecord, h.Mode)
	}
	return nil
}

func statusSet(statuses []model.Status) map[model.Status]bool {
	if len(statuses) == 0 {
		return nil
	}
	s := make(map[model.Status]bool, len(statuses))
	for _, st := range statuses {
		s[st] = true
	}
	return s
}
