// Package cmd implements sim-engine's command-line surface: `serve` runs
// the HTTP control surface, `migrate` manages the Postgres schema.
package cmd

import (
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "sim-engine",
	Short: "Monte Carlo baseball game simulator",
	Long: "sim-engine runs large batches of independent stochastic game\n" +
		"playthroughs across a bounded worker pool and serves their\n" +
		"aggregated win probabilities and score distributions over HTTP.",
}

// Execute runs the root command, dispatching to whichever subcommand was
// named on the command line.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a sim-engine.toml config file (defaults to env vars)")
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
}
