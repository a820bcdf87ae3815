package service

import (
	"time"

	"github.com/okian/skillhive/internal/adapters/repository"
	"github.com/okian/skillhive/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the backing store. The service closes it on Stop.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRecommendLimit caps the number of recommended hackathons.
func WithRecommendLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.recommendLimit = n
		}
	}
}

// WithRankByMatchStrength sorts recommendations by overlap before truncating.
func WithRankByMatchStrength(enabled bool) Option {
	return func(s *Service) {
		s.rankByStrength = enabled
	}
}

// WithTeammateLimit caps the teammate shortlist. Zero means unlimited.
func WithTeammateLimit(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.teammateLimit = n
		}
	}
}

// WithFetchTimeout bounds each fan-out of store reads.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.fetchTimeout = d
		}
	}
}

// WithClock overrides the time source used for progress.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
