package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/dbtlens/pkg/diagnostic"
	"github.com/leapstack-labs/dbtlens/pkg/warehouse"
)

// NewDriftCommand creates the drift command: compare declared contracts
// against a live warehouse catalog.
func NewDriftCommand() *cobra.Command {
	var outputPath string
	var markdownPath string

	cmd := &cobra.Command{
		Use:   "drift",
		Short: "Check declared contracts against a live warehouse catalog",
		Long: `drift connects to the warehouse configured in dbtlens.yaml and compares
each contract-enforcing model's declared schema against what the warehouse
actually reports for that relation.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			projectDir, _ := cmd.Root().PersistentFlags().GetString("project-dir")

			engine, err := buildEngine(cmd)
			if err != nil {
				return err
			}
			if engine.Config.Warehouse == nil || engine.Config.Warehouse.Postgres == nil {
				return badConfig(fmt.Errorf("drift requires a warehouse.driver: postgres block in dbtlens.yaml"))
			}

			artifacts, err := loadArtifacts(projectDir)
			if err != nil {
				return err
			}

			pg, err := warehouse.OpenPostgres(cmd.Context(), *engine.Config.Warehouse.Postgres)
			if err != nil {
				return ioFailure(fmt.Errorf("connecting to warehouse: %w", err))
			}
			defer pg.Close()

			cacheCfg := warehouse.DefaultCacheConfig
			if engine.Config.Warehouse.Cache != nil {
				cacheCfg = *engine.Config.Warehouse.Cache
			}
			cache, err := warehouse.NewCache(pg, cacheCfg)
			if err != nil {
				return internal(fmt.Errorf("building warehouse cache: %w", err))
			}
			defer cache.Close()

			rep, err := engine.Drift(cmd.Context(), artifacts, cache)
			if err != nil {
				return internal(fmt.Errorf("drift: %w", err))
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

	cmd.Flags().StringVar(&outputPath, "output", "", "write the JSON report to this path instead of stdout")
	cmd.Flags().StringVar(&markdownPath, "markdown", "", "also write a Markdown rendering of the report to this path")

	return cmd
}
