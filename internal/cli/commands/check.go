package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/dbtlens/internal/state"
	"github.com/leapstack-labs/dbtlens/pkg/analysis"
	"github.com/leapstack-labs/dbtlens/pkg/diagnostic"
	"github.com/leapstack-labs/dbtlens/pkg/manifest"
	"github.com/leapstack-labs/dbtlens/pkg/report"
)

// NewCheckCommand creates the check command: validate declared contracts
// against SQL-inferred schemas, optionally scoped to a prior state's
// blast radius.
func NewCheckCommand() *cobra.Command {
	var statePath string
	var stateDBPath string
	var outputPath string
	var markdownPath string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate declared schema contracts against SQL-inferred schemas",
		Long: `check infers each contract-enforcing model's schema from its compiled
SQL and diffs it against the model's declared contract. With --state, only
models changed since the prior manifest and their downstream blast radius
are checked.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			projectDir, _ := cmd.Root().PersistentFlags().GetString("project-dir")

			engine, err := buildEngine(cmd)
			if err != nil {
				return err
			}

			artifacts, err := loadArtifacts(projectDir)
			if err != nil {
				return err
			}

			opts := analysis.CheckOptions{}
			if statePath != "" {
				prior, err := loadPriorGraph(statePath)
				if err != nil {
					return ioFailure(fmt.Errorf("loading --state: %w", err))
				}
				opts.Prior = prior
			}

			if stateDBPath != "" {
				store, err := openStateStore(stateDBPath)
				if err != nil {
					return ioFailure(fmt.Errorf("opening --state-db: %w", err))
				}
				defer store.Close()
				opts.Store = store
			}

			rep, err := engine.Check(cmd.Context(), artifacts, opts)
			if err != nil {
				return internal(fmt.Errorf("check: %w", err))
			}

			if err := writeReport(cmd, rep, outputPath, markdownPath); err != nil {
				return err
			}

			if diagnostic.HasError(rep.Diagnostics) {
				setExitCode(1)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&statePath, "state", "", "path to a prior manifest.json to scope the check to its blast radius")
	cmd.Flags().StringVar(&stateDBPath, "state-db", "", "path to a SQLite memo database; unchanged nodes since the last run reuse their stored diagnostics")
	cmd.Flags().StringVar(&outputPath, "output", "", "write the JSON report to this path instead of stdout")
	cmd.Flags().StringVar(&markdownPath, "markdown", "", "also write a Markdown rendering of the report to this path")

	return cmd
}

// openStateStore opens (creating if necessary) the SQLite memo database at
// path and applies any pending migrations.
func openStateStore(path string) (*state.SQLiteStore, error) {
	store := state.NewSQLiteStore()
	if err := store.Open(path); err != nil {
		return nil, err
	}
	if err := store.Migrate(); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// loadPriorGraph reads a standalone manifest.json (no catalog) for --state
// comparisons.
func loadPriorGraph(path string) (*manifest.Graph, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := manifest.Load(raw)
	if err != nil {
		return nil, err
	}
	return m.Graph, nil
}

// writeReport emits rep as JSON (to outputPath, or stdout if empty) and,
// if markdownPath is set, as Markdown too.
func writeReport(cmd *cobra.Command, rep *report.Report, outputPath, markdownPath string) error {
	b, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return internal(fmt.Errorf("encoding report: %w", err))
	}

	if outputPath == "" {
		_, _ = cmd.OutOrStdout().Write(append(b, '\n'))
	} else if err := os.WriteFile(outputPath, b, 0o644); err != nil {
		return ioFailure(fmt.Errorf("writing --output: %w", err))
	}

	if markdownPath != "" {
		f, err := os.Create(markdownPath)
		if err != nil {
			return ioFailure(fmt.Errorf("writing --markdown: %w", err))
		}
		defer f.Close()
		if err := report.RenderMarkdown(f, rep); err != nil {
			return ioFailure(fmt.Errorf("rendering --markdown: %w", err))
		}
	}
	return nil
}
