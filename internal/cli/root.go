package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-deployer/internal/adapters/progress"
	"github.com/trebuchet-org/treb-deployer/internal/app"
	"github.com/trebuchet-org/treb-deployer/internal/config"
	"github.com/trebuchet-org/treb-deployer/internal/usecase"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
	// cancelKey is the context key for the run timeout's cancel func
	cancelKey contextKey = "cancel"
)

// NewRootCmd creates the root command. Running it without a subcommand deploys the plan.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "treb-deployer",
		Short: "Deploy contracts behind upgradeable proxies or as plain contracts",
		Long: `treb-deployer deploys every entry of a deployment plan, in order, to the selected network.

Upgradeable entries are installed behind a proxy (uups, transparent or beacon):
implementation, then proxy, then the initializer call through the proxy.
Plain entries are deployed with their constructor arguments.

Without --plan the built-in plan deploys RealWorldCollectiblesUpgradeable behind a
UUPS proxy and RealWorldCollectibles, both as ("Real World Collectibles", "REAL").`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				return err
			}

			v := config.SetupViper(projectRoot, cmd)

			// Initialize app with DI
			appInstance, err := app.InitApp(v, newProgressSink(cmd))
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			// Store app in context
			ctx := context.WithValue(cmd.Context(), appKey, appInstance)

			// Add timeout if configured
			if appInstance.Config.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				// Released by Execute whether or not the command succeeds
				ctx = context.WithValue(ctx, cancelKey, cancel)
			}

			cmd.SetContext(ctx)

			return nil
		},
		RunE: runDeploy,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable the progress spinner")
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network profile to use (e.g. localhost, ropsten, bobaRinkeby)")
	rootCmd.PersistentFlags().String("artifacts", "", "Directory holding the compiled contract artifacts")

	// Deploy flags
	rootCmd.Flags().StringP("plan", "p", "", "Deployment plan file (YAML); defaults to the built-in plan")
	rootCmd.Flags().Duration("confirmation-timeout", 0, "How long to wait for each transaction receipt (default 5m)")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	accountsCmd := NewAccountsCmd()
	accountsCmd.GroupID = "management"
	rootCmd.AddCommand(accountsCmd)

	networksCmd := NewNetworksCmd()
	networksCmd.GroupID = "management"
	rootCmd.AddCommand(networksCmd)

	listCmd := NewListCmd()
	listCmd.GroupID = "management"
	rootCmd.AddCommand(listCmd)

	configCmd := NewConfigCmd()
	configCmd.GroupID = "management"
	rootCmd.AddCommand(configCmd)

	// Version command
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// Execute runs the command tree and releases the run timeout of the command that ran.
// Cobra skips post-run hooks when RunE fails, so the release cannot live there.
func Execute(rootCmd *cobra.Command) error {
	cmd, err := rootCmd.ExecuteC()
	if cmd != nil && cmd.Context() != nil {
		if cancel, ok := cmd.Context().Value(cancelKey).(context.CancelFunc); ok {
			cancel()
		}
	}
	return err
}

// newProgressSink picks the spinner unless it would interleave with debug logs
func newProgressSink(cmd *cobra.Command) usecase.ProgressSink {
	if flagSet(cmd, "debug") || flagSet(cmd, "non-interactive") {
		return progress.NewNopSink()
	}
	return progress.NewSpinnerSink()
}

func flagSet(cmd *cobra.Command, name string) bool {
	f := cmd.Flag(name)
	return f != nil && f.Value.String() == "true"
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}
