package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/skillhive/internal/domain/enrollment"
	"github.com/okian/skillhive/internal/domain/model"
	"github.com/okian/skillhive/pkg/logger"
	"github.com/okian/skillhive/pkg/metrics"
	gobreaker "github.com/sony/gobreaker/v2"
)

const (
	defaultBreakerName      = "store"
	defaultBreakerThreshold = 5
	defaultBreakerTimeout   = 30 * time.Second
	defaultBreakerProbes    = 1
)

// ResilientStore wraps a Store with a circuit breaker and latency metrics.
// Expected outcomes (not found, duplicate enrollment, caller cancellation)
// do not count as failures.
type ResilientStore struct {
	inner     Store
	cb        *gobreaker.CircuitBreaker[any]
	name      string
	threshold uint32
	timeout   time.Duration
	logger    logger.Logger
}

// ResilientOption applies a configuration option to the ResilientStore.
type ResilientOption func(*ResilientStore)

// WithBreakerName names the breaker in logs and metrics.
func WithBreakerName(name string) ResilientOption {
	return func(s *ResilientStore) {
		if name != "" {
			s.name = name
		}
	}
}

// WithFailureThreshold sets how many consecutive failures open the breaker.
func WithFailureThreshold(n int) ResilientOption {
	return func(s *ResilientStore) {
		if n > 0 {
			s.threshold = uint32(n) //nolint:gosec // validated positive
		}
	}
}

// WithOpenTimeout sets how long the breaker stays open before a probe.
func WithOpenTimeout(d time.Duration) ResilientOption {
	return func(s *ResilientStore) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithStoreLogger sets the logger used for breaker transitions.
func WithStoreLogger(l logger.Logger) ResilientOption {
	return func(s *ResilientStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewResilientStore wraps inner.
func NewResilientStore(inner Store, opts ...ResilientOption) *ResilientStore {
	s := &ResilientStore{
		inner:     inner,
		name:      defaultBreakerName,
		threshold: defaultBreakerThreshold,
		timeout:   defaultBreakerTimeout,
		logger:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.cb = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        s.name,
		MaxRequests: defaultBreakerProbes,
		Timeout:     s.timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.threshold
		},
		IsSuccessful: isExpected,
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.UpdateBreakerState(name, int(to))
			s.logger.Warn(context.Background(), "store breaker state changed",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		},
	})
	metrics.UpdateBreakerState(s.name, int(gobreaker.StateClosed))
	return s
}

// State returns the breaker state name.
func (s *ResilientStore) State() string {
	return s.cb.State().String()
}

func isExpected(err error) bool {
	return err == nil ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, enrollment.ErrAlreadyEnrolled) ||
		errors.Is(err, context.Canceled)
}

func execute[T any](s *ResilientStore, op string, fn func() (T, error)) (T, error) {
	start := time.Now()
	res, err := s.cb.Execute(func() (any, error) { return fn() })
	metrics.RecordStoreLatency(op, float64(time.Since(start).Microseconds())/1000)

	var zero T
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return zero, fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
	}
	if err != nil {
		return zero, err
	}
	v, _ := res.(T)
	return v, nil
}

// FetchProfile implements Store.
func (s *ResilientStore) FetchProfile(ctx context.Context, userID string) (model.Profile, error) {
	return execute(s, "fetch_profile", func() (model.Profile, error) {
		return s.inner.FetchProfile(ctx, userID)
	})
}

// FetchHackathons implements Store.
func (s *ResilientStore) FetchHackathons(ctx context.Context, statuses ...model.Status) ([]model.Hackathon, error) {
	return execute(s, "fetch_hackathons", func() ([]model.Hackathon, error) {
		return s.inner.FetchHackathons(ctx, statuses...)
	})
}

// FetchEnrollments implements Store.
func (s *ResilientStore) FetchEnrollments(ctx context.Context, userID string) ([]model.Enrollment, error) {
	return execute(s, "fetch_enrollments", func() ([]model.Enrollment, error) {
		return s.inner.FetchEnrollments(ctx, userID)
	})
}

// FetchOtherProfiles implements Store.
func (s *ResilientStore) FetchOtherProfiles(ctx context.Context, userID string) ([]model.Profile, error) {
	return execute(s, "fetch_other_profiles", func() ([]model.Profile, error) {
		return s.inner.FetchOtherProfiles(ctx, userID)
	})
}

// CreateEnrollment implements Store.
func (s *ResilientStore) CreateEnrollment(ctx context.Context, userID, hackathonID string) error {
	_, err := execute(s, "create_enrollment", func() (struct{}, error) {
		return struct{}{}, s.inner.CreateEnrollment(ctx, userID, hackathonID)
	})
	return err
}

// Close implements Store.
func (s *ResilientStore) Close() error {
	return s.inner.Close()
}
