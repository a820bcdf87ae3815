package service

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/okian/skillhive/internal/adapters/repository"
	"github.com/okian/skillhive/internal/domain/model"
	"github.com/okian/skillhive/pkg/logger"
	"github.com/okian/skillhive/pkg/metrics"
)

// fetchPlan selects which reads a fan-out performs.
type fetchPlan struct {
	profile     bool
	hackathons  bool
	openOnly    bool
	others      bool
	enrollments bool
}

// snapshot is the result of a fan-out. Failed reads leave their field empty.
type snapshot struct {
	profile    model.Profile
	profileErr error
	hackathons []model.Hackathon
	others     []model.Profile
	// enrollmentsOK is false when the enrollment read failed.
	enrollmentsOK bool
	enrollments   []string
}

// fetch runs the planned reads concurrently. Each read records its own
// outcome so one failure never cancels the others.
func (s *Service) fetch(ctx context.Context, userID string, plan fetchPlan) snapshot {
	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	var snap snapshot
	g, gctx := errgroup.WithContext(ctx)

	if plan.profile {
		g.Go(func() error {
			snap.profile, snap.profileErr = s.store.FetchProfile(gctx, userID)
			if snap.profileErr != nil && !errors.Is(snap.profileErr, repository.ErrNotFound) {
				s.degraded(ctx, "fetch_profile", userID, snap.profileErr)
			}
			return nil
		})
	}

	if plan.hackathons {
		g.Go(func() error {
			var statuses []model.Status
			if plan.openOnly {
				statuses = model.OpenStatuses()
			}
			hs, err := s.store.FetchHackathons(gctx, statuses...)
			if err != nil {
				s.degraded(ctx, "fetch_hackathons", userID, err)
				return nil
			}
			snap.hackathons = hs
			return nil
		})
	}

	if plan.others {
		g.Go(func() error {
			ps, err := s.store.FetchOtherProfiles(gctx, userID)
			if err != nil {
				s.degraded(ctx, "fetch_other_profiles", userID, err)
				return nil
			}
			snap.others = ps
			return nil
		})
	}

	if plan.enrollments {
		g.Go(func() error {
			es, err := s.store.FetchEnrollments(gctx, userID)
			if err != nil {
				s.degraded(ctx, "fetch_enrollments", userID, err)
				return nil
			}
			ids := make([]string, len(es))
			for i, e := range es {
				ids[i] = e.HackathonID
			}
			snap.enrollments = ids
			snap.enrollmentsOK = true
			return nil
		})
	}

	_ = g.Wait()

	if snap.hackathons == nil {
		snap.hackathons = []model.Hackathon{}
	}
	if snap.others == nil {
		snap.others = []model.Profile{}
	}
	return snap
}

func (s *Service) degraded(ctx context.Context, op, userID string, err error) {
	metrics.RecordFetchError(op)
	metrics.RecordErrorByComponent("service", "fetch_failed")
	s.logger.Warn(ctx, "store read failed, continuing with empty result",
		logger.String("operation", op),
		logger.String("user_id", userID),
		logger.Error(err),
	)
}
