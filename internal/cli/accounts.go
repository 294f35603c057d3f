package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-deployer/internal/cli/render"
	"github.com/trebuchet-org/treb-deployer/internal/usecase"
)

// NewAccountsCmd creates the accounts command
func NewAccountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "Print the accounts of the configured signing keys",
		Long: `Print the address of every signing key configured for the selected network.
Keys are read from PRIVATE_KEY (or the key_env of a deployer.toml network).
No network connection is made.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListAccounts.Run(cmd.Context(), usecase.ListAccountsParams{})
			if err != nil {
				return err
			}

			return render.NewAccountsRenderer(cmd.OutOrStdout()).RenderAccounts(result)
		},
	}
}
