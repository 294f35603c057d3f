package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-deployer/internal/cli/render"
)

// NewConfigCmd creates the config command
func NewConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the resolved configuration",
		Long: `Show the configuration a deployment would run with.

Settings are read, in order of precedence, from flags, DEPLOYER_* environment
variables (.env and .env.local are loaded first), and deployer.toml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ShowConfig.Run(cmd.Context())
			if err != nil {
				return err
			}

			renderer := render.NewConfigRenderer(cmd.OutOrStdout())
			return renderer.RenderConfig(result)
		},
	}
}
