package seed

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/okian/skillhive/internal/adapters/repository"
	"github.com/okian/skillhive/internal/domain/model"
	"github.com/okian/skillhive/pkg/logger"
)

// Stats counts the rows written by Load.
type Stats struct {
	Profiles   int64 `json:"profiles"`
	Hackathons int64 `json:"hackathons"`
}

// Load upserts profiles and hackathons into s using up to workers goroutines.
// It stops at the first failed write.
func Load(ctx context.Context, s repository.Seeder, profiles []model.Profile, hackathons []model.Hackathon, workers int) (Stats, error) {
	var stats Stats
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, workers))

	for _, p := range profiles {
		g.Go(func() error {
			if err := s.UpsertProfile(gctx, p); err != nil {
				return fmt.Errorf("profile %s: %w", p.ID, err)
			}
			atomic.AddInt64(&stats.Profiles, 1)
			return nil
		})
	}
	for _, h := range hackathons {
		g.Go(func() error {
			if err := s.UpsertHackathon(gctx, h); err != nil {
				return fmt.Errorf("hackathon %s: %w", h.ID, err)
			}
			atomic.AddInt64(&stats.Hackathons, 1)
			return nil
		})
	}

	err := g.Wait()
	logger.Get().Info(ctx, "seed load finished",
		logger.Int("profiles", int(atomic.LoadInt64(&stats.Profiles))),
		logger.Int("hackathons", int(atomic.LoadInt64(&stats.Hackathons))),
		logger.Bool("ok", err == nil),
	)
	return stats, err
}
