package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/baseball-sim/sim-engine/internal/config"
	"github.com/baseball-sim/sim-engine/internal/repository"
)

func migrateCmd() *cobra.Command {
	var migrationsDir string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the simulation_runs/trial_results/run_aggregates schema",
	}
	cmd.PersistentFlags().StringVar(&migrationsDir, "migrations-dir", "migrations", "directory of golang-migrate SQL files")

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if err := repository.Migrate(cfg.Database.URL, migrationsDir); err != nil {
				return err
			}
			fmt.Println("migrations applied")
			return nil
		},
	}

	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recently applied migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if err := repository.Rollback(cfg.Database.URL, migrationsDir); err != nil {
				return err
			}
			fmt.Println("migration rolled back")
			return nil
		},
	}

	cmd.AddCommand(up, down)
	return cmd
}
