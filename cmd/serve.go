package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/baseball-sim/sim-engine/internal/config"
	"github.com/baseball-sim/sim-engine/internal/httpapi"
	"github.com/baseball-sim/sim-engine/internal/repository"
	"github.com/baseball-sim/sim-engine/internal/simulation"
	"github.com/baseball-sim/sim-engine/internal/weather"
)

func serveCmd() *cobra.Command {
	var migrationsDir string
	var skipMigrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the control surface (start/status/result/daily + health)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), migrationsDir, skipMigrate)
		},
	}
	cmd.Flags().StringVar(&migrationsDir, "migrations-dir", "migrations", "directory of golang-migrate SQL files")
	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "don't apply pending migrations on startup")
	return cmd
}

func runServe(ctx context.Context, migrationsDir string, skipMigrate bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := charmlog.NewWithOptions(os.Stderr, charmlog.Options{ReportTimestamp: true})

	if !skipMigrate {
		if err := repository.Migrate(cfg.Database.URL, migrationsDir); err != nil {
			log.Warn("migration step failed, continuing against existing schema", "error", err)
		}
	}

	repo, err := repository.NewPostgres(ctx, cfg.Database.URL, cfg.Simulation.Workers)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer repo.Close()

	ws := weather.NewService(cfg.Weather.APIKey, log)
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go ws.StartCacheCleanup(sweepCtx)

	var limiter *httpapi.RateLimiter
	if cfg.Redis.URL != "" {
		limiter, err = httpapi.NewRateLimiter(cfg.Redis.URL, cfg.Redis.RateLimitPerMinute, log)
		if err != nil {
			log.Warn("rate limiter backend unavailable, serving without rate limiting", "error", err)
			limiter = nil
		}
	}

	coord := simulation.NewCoordinator(repo, ws, log)
	server := httpapi.NewServer(repo, coord, limiter, cfg.Simulation.Workers, log)

	runCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	return server.ListenAndServe(runCtx, addr)
}
