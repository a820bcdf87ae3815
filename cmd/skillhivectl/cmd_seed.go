package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/skillhive/internal/seed"
)

const (
	defaultSeedProfiles   = 50
	defaultSeedHackathons = 20
	defaultWorkers        = 8
)

var (
	seedProfiles   int
	seedHackathons int
	seedWorkers    int
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write generated profiles and hackathons to the store",
	Args:  cobra.NoArgs,
	RunE:  runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	if seedProfiles < 0 || seedHackathons < 0 {
		return fmt.Errorf("--profiles and --hackathons must not be negative")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	repo, err := openRepository(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = repo.Close() }()

	gen := seed.NewGenerator()
	stats, err := seed.Load(ctx, repo, gen.Profiles(seedProfiles), gen.Hackathons(seedHackathons), seedWorkers)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	return printJSON(cmd.OutOrStdout(), stats)
}
