// Package cli provides the command-line interface for dbtlens.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/dbtlens/internal/cli/commands"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dbtlens",
		Short: "dbtlens - static contract and blast-radius analysis for dbt projects",
		Long: `dbtlens validates declared schema contracts against SQL-inferred
schemas, computes downstream blast radius for a change, and optionally
checks inferred contracts against a live warehouse catalog for drift.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	rootCmd.PersistentFlags().String("project-dir", ".", "dbt project directory (where dbtlens.yaml lives)")
	rootCmd.PersistentFlags().String("dialect", "", "SQL dialect override (ansi, postgres, snowflake, bigquery)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose logging")

	rootCmd.AddCommand(commands.NewCheckCommand())
	rootCmd.AddCommand(commands.NewImpactCommand())
	rootCmd.AddCommand(commands.NewDriftCommand())
	rootCmd.AddCommand(commands.NewVersionCommand(Version))

	return rootCmd
}

// Execute runs the root command and returns the process exit code, per
// spec.md §6's stable exit-code contract: 0 no errors, 1 errors found, 2
// bad arguments/config, 3 I/O failure, 4 internal error.
func Execute() int {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return commands.ExitCodeFor(err)
	}
	return commands.LastExitCode()
}
