// Command skillhivectl seeds a skillhive store, queries it without the HTTP
// server, and smoke-tests a running service.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/okian/skillhive/internal/adapters/repository"
	app "github.com/okian/skillhive/internal/app"
	"github.com/okian/skillhive/internal/config"
	"github.com/okian/skillhive/pkg/logger"
)

var (
	// Global flags
	driver   string
	dsn      string
	logLevel string
	timeout  time.Duration

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "skillhivectl",
	Short: "Seed, query and smoke-test a skillhive store",
	Long: `skillhivectl works against the same store the skillhive server uses.

Store settings come from SKILLHIVE_* variables or the SKILLHIVE_CONFIG file,
and --driver / --dsn override them.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logger.Init(logger.WithLevel(logLevel), logger.WithWriter(cmd.ErrOrStderr())); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		loaded, err := config.Load(cmd.Context())
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("driver") {
			loaded.StoreDriver = driver
		}
		if cmd.Flags().Changed("dsn") {
			loaded.StoreDSN = dsn
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&driver, "driver", config.DriverSQLite, "Store driver: memory, sqlite or postgres")
	rootCmd.PersistentFlags().StringVar(&dsn, "dsn", "skillhive.db", "sqlite file or postgres connection string")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", time.Minute, "Operation timeout")

	seedCmd.Flags().IntVar(&seedProfiles, "profiles", defaultSeedProfiles, "Number of profiles to generate")
	seedCmd.Flags().IntVar(&seedHackathons, "hackathons", defaultSeedHackathons, "Number of hackathons to generate")
	seedCmd.Flags().IntVar(&seedWorkers, "workers", defaultWorkers, "Concurrent writers")

	teammatesCmd.Flags().StringVar(&teammateQuery, "query", "", "Only candidates whose name or a skill contains this text")
	teammatesCmd.Flags().StringVar(&teammateEducation, "education", "", "Only candidates with this education level")

	smokeCmd.Flags().StringVar(&smokeURL, "url", "http://localhost:9080", "Base URL of the service")
	smokeCmd.Flags().StringSliceVar(&smokeUsers, "users", nil, "User IDs to drive (default: every profile in the store)")
	smokeCmd.Flags().IntVar(&smokeWorkers, "workers", defaultWorkers, "Concurrent users")

	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(teammatesCmd)
	rootCmd.AddCommand(enrollCmd)
	rootCmd.AddCommand(smokeCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// openRepository opens the configured store. Callers close it.
func openRepository(ctx context.Context) (repository.Repository, error) {
	repo, err := repository.Open(ctx, cfg.StoreDriver, cfg.StoreDSN)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	return repo, nil
}

// startService opens the store and starts a service over it. Stopping the
// service closes the store.
func startService(ctx context.Context) (*app.Service, error) {
	repo, err := openRepository(ctx)
	if err != nil {
		return nil, err
	}
	svc := app.New(
		app.WithStore(repo),
		app.WithLogger(logger.Named("service")),
		app.WithRecommendLimit(cfg.RecommendLimit),
		app.WithRankByMatchStrength(cfg.RecommendRankByStrength),
		app.WithTeammateLimit(cfg.TeammateLimit),
		app.WithFetchTimeout(cfg.FetchTimeout()),
	)
	if err := svc.Start(ctx); err != nil {
		_ = repo.Close()
		return nil, fmt.Errorf("start service: %w", err)
	}
	return svc, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
