package cli

import (
	"github.com/spf13/cobra"
	"github.com/zkcult/stakedeploy/internal/cli/render"
	"github.com/zkcult/stakedeploy/internal/usecase"
)

// NewArtifactsCmd creates the artifacts command
func NewArtifactsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "artifacts [filter]",
		Short: "List deployable contracts in the build output",
		Long: `List the compiled contracts that can be referenced by name in the
deployment plan. Interfaces and abstract contracts are omitted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.ListArtifactsParams{}
			if len(args) == 1 {
				params.Filter = args[0]
			}

			result, err := app.ListArtifacts.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			renderer := render.NewArtifactsRenderer(cmd.OutOrStdout(), app.Config.ProjectRoot)
			return renderer.RenderArtifacts(result)
		},
	}

	cmd.Flags().String("artifacts", "", "Build output directory (default: artifacts-zk, artifacts or out)")

	return cmd
}
