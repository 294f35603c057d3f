package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-deployer/internal/cli/render"
	"github.com/trebuchet-org/treb-deployer/internal/domain/models"
	"github.com/trebuchet-org/treb-deployer/internal/usecase"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	var (
		contractName string
		deployType   string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List deployments from the registry",
		Long: `List the deployments recorded for the selected network.

Records are read from deployments/<network>.json. No network connection is made.`,
		Example: `  # List everything deployed to the current network
  treb-deployer list

  # List proxies on bobaRinkeby
  treb-deployer list -n bobaRinkeby --type proxy`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			var deploymentType models.DeploymentType
			switch strings.ToLower(deployType) {
			case "":
			case "singleton":
				deploymentType = models.SingletonDeployment
			case "proxy":
				deploymentType = models.ProxyDeployment
			default:
				return fmt.Errorf("invalid deployment type: %s (valid: singleton, proxy)", deployType)
			}

			result, err := app.ListDeployments.Run(cmd.Context(), usecase.ListDeploymentsParams{
				ContractName: contractName,
				Type:         deploymentType,
			})
			if err != nil {
				return err
			}

			renderer := render.NewDeploymentsRenderer(cmd.OutOrStdout())
			return renderer.RenderDeploymentList(result)
		},
	}

	cmd.Flags().StringVar(&contractName, "contract", "", "Filter by contract name")
	cmd.Flags().StringVar(&deployType, "type", "", "Filter by deployment type (singleton, proxy)")

	return cmd
}
