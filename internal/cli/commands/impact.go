package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewImpactCommand creates the impact command: compute a model's downstream
// blast radius.
func NewImpactCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "impact <model-id>",
		Short: "List every node downstream of a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectDir, _ := cmd.Root().PersistentFlags().GetString("project-dir")

			engine, err := buildEngine(cmd)
			if err != nil {
				return err
			}

			artifacts, err := loadArtifacts(projectDir)
			if err != nil {
				return err
			}

			downstream, err := engine.Impact(cmd.Context(), artifacts, args[0])
			if err != nil {
				return badConfig(err)
			}

			for _, id := range downstream {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
}
