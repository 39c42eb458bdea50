package cli

import (
	"github.com/spf13/cobra"
	"github.com/zkcult/stakedeploy/internal/cli/render"
	"github.com/zkcult/stakedeploy/internal/usecase"
)

// NewNetworksCmd creates the networks command
func NewNetworksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "networks",
		Short: "List available networks from stakedeploy.toml",
		Long: `List all networks configured in the [networks] section of stakedeploy.toml.

Each endpoint is queried for its chain ID, which is checked against a pinned
chain_id when one is configured.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			offline, _ := cmd.Flags().GetBool("offline")
			result, err := app.ListNetworks.Run(cmd.Context(), usecase.ListNetworksParams{Probe: !offline})
			if err != nil {
				return err
			}

			renderer := render.NewNetworksRenderer(cmd.OutOrStdout())
			return renderer.RenderNetworksList(result)
		},
	}

	cmd.Flags().Bool("offline", false, "Do not query the endpoints")

	return cmd
}
