package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/skillhive/internal/seed"
)

var (
	smokeURL     string
	smokeUsers   []string
	smokeWorkers int
)

var smokeCmd = &cobra.Command{
	Use:   "smoke",
	Short: "Drive a running service and check its recommendation and enrollment invariants",
	Long: `For each user, smoke fetches recommendations, checks them, enrolls in the
first one and confirms a repeat enrollment is refused. It exits non-zero when
any check fails.`,
	Args: cobra.NoArgs,
	RunE: runSmoke,
}

func runSmoke(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	users := smokeUsers
	if len(users) == 0 {
		ids, err := storedUserIDs(ctx)
		if err != nil {
			return err
		}
		users = ids
	}

	report, err := seed.Smoke(ctx, seed.SmokeConfig{
		BaseURL:            smokeURL,
		UserIDs:            users,
		Workers:            smokeWorkers,
		Timeout:            cfg.FetchTimeout() * 2,
		MaxRecommendations: cfg.RecommendLimit,
	})
	if err != nil {
		return fmt.Errorf("smoke: %w", err)
	}
	if perr := printJSON(cmd.OutOrStdout(), report); perr != nil {
		return perr
	}
	if len(report.Violations) > 0 {
		return fmt.Errorf("smoke: %d violations", len(report.Violations))
	}
	return nil
}

func storedUserIDs(ctx context.Context) ([]string, error) {
	repo, err := openRepository(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = repo.Close() }()

	profiles, err := repo.FetchOtherProfiles(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	ids := make([]string, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.ID)
	}
	return ids, nil
}
