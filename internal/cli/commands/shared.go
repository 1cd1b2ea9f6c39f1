package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/dbtlens/internal/config"
	"github.com/leapstack-labs/dbtlens/pkg/analysis"
	"github.com/leapstack-labs/dbtlens/pkg/manifest"
)

// exitError pairs an error with the exact process exit code it maps to,
// per spec.md §6: 2 bad arguments/config, 3 I/O failure, 4 internal error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func badConfig(err error) error  { return &exitError{code: 2, err: err} }
func ioFailure(err error) error  { return &exitError{code: 3, err: err} }
func internal(err error) error   { return &exitError{code: 4, err: err} }

// ExitCodeFor maps an error returned from cobra's Execute to the stable
// exit-code contract. Errors not wrapped in exitError (flag parsing
// failures cobra itself raises) default to 2, bad arguments.
func ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	if ee, ok := err.(*exitError); ok {
		return ee.code
	}
	return 2
}

// lastExitCode is set by a command's RunE after it successfully produces a
// report, to carry "errors found" (exit 1) back to cli.Execute without
// forcing every command to return a non-nil error for a clean, on-policy
// failure.
var lastExitCode int

// LastExitCode returns the exit code set by the most recently run command,
// 0 if none set one.
func LastExitCode() int { return lastExitCode }

func setExitCode(code int) { lastExitCode = code }

// buildEngine loads project config from --project-dir, overlays --dialect,
// and constructs an analysis.Engine for a single command invocation.
func buildEngine(cmd *cobra.Command) (*analysis.Engine, error) {
	projectDir, _ := cmd.Root().PersistentFlags().GetString("project-dir")
	dialect, _ := cmd.Root().PersistentFlags().GetString("dialect")
	verbose, _ := cmd.Root().PersistentFlags().GetBool("verbose")

	cfg, err := config.LoadFromDir(projectDir)
	if err != nil {
		return nil, badConfig(fmt.Errorf("loading config: %w", err))
	}
	if dialect != "" {
		cfg.Dialect = dialect
	}

	logger := slog.New(slog.DiscardHandler)
	if verbose {
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
	}
	return analysis.NewEngine(cfg, logger), nil
}

// loadArtifacts reads manifest.json and, if present, catalog.json from
// dir, dbt's own on-disk layout for compiled artifacts.
func loadArtifacts(dir string) (*manifest.Artifacts, error) {
	manifestPath := dir + "/manifest.json"
	manifestJSON, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, ioFailure(fmt.Errorf("reading %s: %w", manifestPath, err))
	}

	catalogPath := dir + "/catalog.json"
	catalogJSON, err := os.ReadFile(catalogPath)
	if err != nil {
		catalogJSON = nil
	}

	artifacts, err := manifest.LoadArtifacts(manifestJSON, catalogJSON)
	if err != nil {
		return nil, internal(fmt.Errorf("parsing artifacts: %w", err))
	}
	return artifacts, nil
}
