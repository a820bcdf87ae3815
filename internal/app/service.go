// Package service provides the matching service behind the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/okian/skillhive/internal/adapters/repository"
	"github.com/okian/skillhive/internal/domain/catalog"
	"github.com/okian/skillhive/internal/domain/enrollment"
	"github.com/okian/skillhive/internal/domain/model"
	"github.com/okian/skillhive/internal/domain/recommend"
	"github.com/okian/skillhive/internal/domain/teammates"
	"github.com/okian/skillhive/internal/domain/types"
	"github.com/okian/skillhive/pkg/logger"
	"github.com/okian/skillhive/pkg/metrics"
)

// Service implements the API dependencies for hackathon matching.
type Service struct {
	mu sync.RWMutex

	// Core components
	store       repository.Store
	recommender *recommend.HackathonRecommender
	matcher     *teammates.TeammateMatcher

	trackersMu sync.Mutex
	trackers   map[string]*enrollment.Tracker

	// Configuration
	recommendLimit int
	rankByStrength bool
	teammateLimit  int
	fetchTimeout   time.Duration
	now            func() time.Time

	started bool
	logger  logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		trackers:       make(map[string]*enrollment.Tracker),
		recommendLimit: recommend.DefaultLimit,
		fetchTimeout:   5 * time.Second,
		now:            time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start builds the matchers and marks the service ready.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Named("service")
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
		s.logger.Info(ctx, "no store configured, using in-memory store")
	}

	s.recommender = recommend.New(
		recommend.WithLimit(s.recommendLimit),
		recommend.WithRankByMatchStrength(s.rankByStrength),
	)
	s.matcher = teammates.New(teammates.WithLimit(s.teammateLimit))

	s.started = true
	s.logger.Info(ctx, "matching service started",
		logger.Int("recommend_limit", s.recommender.Limit()),
		logger.Bool("rank_by_strength", s.rankByStrength),
		logger.Int("teammate_limit", s.teammateLimit),
		logger.Duration("fetch_timeout", s.fetchTimeout),
	)
	return nil
}

// Stop closes the store and drops in-memory enrollment state.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	if err := s.store.Close(); err != nil {
		s.logger.Error(context.Background(), "closing store", logger.Error(err))
	}

	s.trackersMu.Lock()
	s.trackers = make(map[string]*enrollment.Tracker)
	s.trackersMu.Unlock()

	s.started = false
	s.logger.Info(context.Background(), "matching service stopped")
}

func (s *Service) ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// lookup returns the user's tracker without creating one.
func (s *Service) lookup(userID string) (*enrollment.Tracker, bool) {
	s.trackersMu.Lock()
	defer s.trackersMu.Unlock()
	t, ok := s.trackers[userID]
	return t, ok
}

// generation is the tracker generation to pair with an enrollment read that
// is about to start. Users without a tracker are at generation 0.
func (s *Service) generation(userID string) uint64 {
	if t, ok := s.lookup(userID); ok {
		return t.Generation()
	}
	return 0
}

// tracker returns the enrollment tracker for userID, creating it on first
// use. Callers must have read the user's profile first.
func (s *Service) tracker(userID string) *enrollment.Tracker {
	s.trackersMu.Lock()
	defer s.trackersMu.Unlock()
	t, ok := s.trackers[userID]
	if !ok {
		t = enrollment.NewTracker(userID, s.store, enrollment.WithLogger(s.logger.Named("enrollment")))
		s.trackers[userID] = t
		metrics.UpdateTrackedUsers(len(s.trackers))
	}
	return t
}

// reconcile loads a fresh enrollment read, started at generation since, into
// the user's tracker and returns the tracker. A failed read keeps the last
// known state.
func (s *Service) reconcile(userID string, snap snapshot, since uint64) *enrollment.Tracker {
	t := s.tracker(userID)
	if snap.enrollmentsOK {
		t.Load(snap.enrollments, since)
	}
	return t
}

// enrolledSet returns the user's enrollments for one pass. Only users whose
// profile was read get a tracker; otherwise an existing tracker or the raw
// read is used.
func (s *Service) enrolledSet(userID string, snap snapshot, since uint64) model.IDSet {
	if snap.profileErr == nil {
		return s.reconcile(userID, snap, since).Snapshot()
	}
	if t, ok := s.lookup(userID); ok {
		if snap.enrollmentsOK {
			t.Load(snap.enrollments, since)
		}
		return t.Snapshot()
	}
	if snap.enrollmentsOK {
		return model.NewIDSet(snap.enrollments...)
	}
	return model.NewIDSet()
}

func profileError(userID string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}
	return nil
}

// Recommend returns up to the configured number of open hackathons sharing
// skills with the user, skipping the ones they already joined.
func (s *Service) Recommend(ctx context.Context, userID string) ([]model.MatchResult[model.Hackathon], error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is empty", ErrInvalidArgument)
	}

	since := s.generation(userID)
	snap := s.fetch(ctx, userID, fetchPlan{profile: true, hackathons: true, openOnly: true, enrollments: true})
	if snap.profileErr != nil {
		if err := profileError(userID, snap.profileErr); err != nil {
			return nil, err
		}
		return []model.MatchResult[model.Hackathon]{}, nil
	}
	t := s.reconcile(userID, snap, since)

	start := time.Now()
	results := s.recommender.Recommend(snap.profile, snap.hackathons, t.Snapshot())
	metrics.RecordRecommendationPass(len(results), float64(time.Since(start).Microseconds())/1000)

	s.logger.Debug(ctx, "recommended hackathons",
		logger.String("user_id", userID),
		logger.Int("candidates", len(snap.hackathons)),
		logger.Int("results", len(results)),
	)
	return results, nil
}

// MatchTeammates ranks the other profiles by skill overlap with the user and
// applies filter to the ranked list.
func (s *Service) MatchTeammates(ctx context.Context, userID string, filter catalog.TeammateFilter) ([]model.MatchResult[model.Profile], error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is empty", ErrInvalidArgument)
	}

	snap := s.fetch(ctx, userID, fetchPlan{profile: true, others: true})
	if snap.profileErr != nil {
		if err := profileError(userID, snap.profileErr); err != nil {
			return nil, err
		}
		return []model.MatchResult[model.Profile]{}, nil
	}

	start := time.Now()
	results := catalog.FilterTeammates(s.matcher.Match(snap.profile, snap.others), filter)
	metrics.RecordTeammatePass(len(results), float64(time.Since(start).Microseconds())/1000)

	s.logger.Debug(ctx, "matched teammates",
		logger.String("user_id", userID),
		logger.Int("candidates", len(snap.others)),
		logger.Int("results", len(results)),
	)
	return results, nil
}

// ListHackathons returns every hackathon matching filter, ordered by start
// date. When userID is set each row carries that user's enrollment state.
func (s *Service) ListHackathons(ctx context.Context, userID string, filter catalog.HackathonFilter) ([]catalog.Listing, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	since := s.generation(userID)
	snap := s.fetch(ctx, userID, fetchPlan{profile: userID != "", hackathons: true, enrollments: userID != ""})
	hackathons := catalog.FilterHackathons(snap.hackathons, filter)
	if userID == "" {
		return catalog.Annotate(hackathons, nil), nil
	}
	if err := profileError(userID, snap.profileErr); err != nil {
		return nil, err
	}
	return catalog.Annotate(hackathons, s.enrolledSet(userID, snap, since)), nil
}

// Enroll records the user's enrollment in a hackathon. The returned result
// is always populated; the error is non-nil for every outcome but success.
func (s *Service) Enroll(ctx context.Context, userID, hackathonID string) (types.EnrollmentResult, error) {
	if err := s.ready(); err != nil {
		return types.EnrollmentResult{}, err
	}
	if userID == "" || hackathonID == "" {
		return types.EnrollmentResult{}, fmt.Errorf("%w: user and hackathon ids are required", ErrInvalidArgument)
	}

	existing, tracked := s.lookup(userID)
	since := s.generation(userID)
	snap := s.fetch(ctx, userID, fetchPlan{
		profile:     true,
		hackathons:  true,
		enrollments: !tracked || !existing.Loaded(),
	})
	if snap.profileErr != nil {
		if err := profileError(userID, snap.profileErr); err != nil {
			return types.EnrollmentResult{}, err
		}
		err := fmt.Errorf("%w: profile of %s unavailable: %w", enrollment.ErrEnrollmentFailed, userID, snap.profileErr)
		metrics.RecordEnrollment(string(enrollment.OutcomeFailed))
		return types.NewEnrollmentResult(userID, hackathonID, err, false), err
	}
	t := s.reconcile(userID, snap, since)

	if h, ok := findHackathon(snap.hackathons, hackathonID); ok && !h.Status.Open() {
		err := fmt.Errorf("hackathon %s is %s: %w", hackathonID, h.Status, enrollment.ErrClosed)
		metrics.RecordEnrollment(string(enrollment.OutcomeClosed))
		return types.NewEnrollmentResult(userID, hackathonID, err, t.IsEnrolled(hackathonID)), err
	}

	err := t.RecordEnrollment(ctx, hackathonID)
	if errors.Is(err, repository.ErrNotFound) {
		metrics.RecordEnrollment("not_found")
		return types.EnrollmentResult{}, fmt.Errorf("%w: hackathon %s", ErrNotFound, hackathonID)
	}

	result := types.NewEnrollmentResult(userID, hackathonID, err, t.IsEnrolled(hackathonID))
	metrics.RecordEnrollment(string(result.Outcome))
	s.updateTrackerMetrics()
	return result, err
}

// IsEnrolled reports whether the user is enrolled in the hackathon. Until the
// user has a loaded tracker it reads the profile and enrollments from the
// store; an unknown user is ErrNotFound.
func (s *Service) IsEnrolled(ctx context.Context, userID, hackathonID string) (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}
	if userID == "" || hackathonID == "" {
		return false, fmt.Errorf("%w: user and hackathon ids are required", ErrInvalidArgument)
	}

	if t, ok := s.lookup(userID); ok && t.Loaded() {
		return t.IsEnrolled(hackathonID), nil
	}

	since := s.generation(userID)
	snap := s.fetch(ctx, userID, fetchPlan{profile: true, enrollments: true})
	if err := profileError(userID, snap.profileErr); err != nil {
		return false, err
	}
	return s.enrolledSet(userID, snap, since).IsEnrolled(hackathonID), nil
}

// Dashboard assembles the profile card, the enrolled hackathons with their
// progress, and the recommendations for userID.
func (s *Service) Dashboard(ctx context.Context, userID string) (types.Dashboard, error) {
	if err := s.ready(); err != nil {
		return types.Dashboard{}, err
	}
	if userID == "" {
		return types.Dashboard{}, fmt.Errorf("%w: user id is empty", ErrInvalidArgument)
	}

	since := s.generation(userID)
	snap := s.fetch(ctx, userID, fetchPlan{profile: true, hackathons: true, enrollments: true})
	if err := profileError(userID, snap.profileErr); err != nil {
		return types.Dashboard{}, err
	}
	enrolled := s.enrolledSet(userID, snap, since)

	now := s.now()
	joined := catalog.Select(snap.hackathons, enrolled)
	items := make([]types.EnrolledHackathon, len(joined))
	for i, h := range joined {
		items[i] = types.EnrolledHackathon{Hackathon: h, Progress: catalog.ProgressAt(h, now)}
	}

	recs := []model.MatchResult[model.Hackathon]{}
	if snap.profileErr == nil {
		recs = s.recommender.Recommend(snap.profile, snap.hackathons, enrolled)
	}

	return types.Dashboard{
		Summary:         types.NewProfileSummary(snap.profile, enrolled.Len()),
		Enrolled:        items,
		Recommendations: recs,
	}, nil
}

func findHackathon(hackathons []model.Hackathon, id string) (model.Hackathon, bool) {
	for _, h := range hackathons {
		if h.ID == id {
			return h, true
		}
	}
	return model.Hackathon{}, false
}

// TrackedUsers returns the IDs of users with an in-memory tracker, sorted.
func (s *Service) TrackedUsers() []string {
	s.trackersMu.Lock()
	defer s.trackersMu.Unlock()
	out := make([]string, 0, len(s.trackers))
	for id := range s.trackers {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (s *Service) trackerTotals() (users, enrollments int) {
	s.trackersMu.Lock()
	defer s.trackersMu.Unlock()
	for _, t := range s.trackers {
		enrollments += t.Size()
	}
	return len(s.trackers), enrollments
}

func (s *Service) updateTrackerMetrics() {
	users, enrollments := s.trackerTotals()
	metrics.UpdateTrackedUsers(users)
	metrics.UpdateTrackedEnrollments(enrollments)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":        s.started,
		"recommendLimit": s.recommendLimit,
		"rankByStrength": s.rankByStrength,
		"teammateLimit":  s.teammateLimit,
		"fetchTimeoutMs": s.fetchTimeout.Milliseconds(),
	}

	if s.started {
		users, enrollments := s.trackerTotals()
		stats["trackedUsers"] = users
		stats["trackedEnrollments"] = enrollments
		if rs, ok := s.store.(*repository.ResilientStore); ok {
			stats["breakerState"] = rs.State()
		}
		metrics.UpdateTrackedUsers(users)
		metrics.UpdateTrackedEnrollments(enrollments)
	}

	return stats
}
