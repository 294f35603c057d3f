package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-deployer/internal/cli/render"
	"github.com/trebuchet-org/treb-deployer/internal/usecase"
)

// NewNetworksCmd creates the networks command
func NewNetworksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "networks",
		Short: "List available network profiles",
		Long: `List the built-in network profiles and those defined in deployer.toml.

Each profile is resolved against the current environment to show its URL,
chain ID and whether a signing key is available. No network connection is made.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Get app from context
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			// Run use case
			params := usecase.ListNetworksParams{}
			result, err := app.ListNetworks.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			// Render output
			renderer := render.NewNetworksRenderer(cmd.OutOrStdout())
			return renderer.RenderNetworksList(result)
		},
	}

	return cmd
}
