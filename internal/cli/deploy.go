package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-deployer/internal/cli/render"
	"github.com/trebuchet-org/treb-deployer/internal/config"
	"github.com/trebuchet-org/treb-deployer/internal/usecase"
)

// runDeploy runs the selected plan. Whatever completed is printed even when a
// later spec fails; the failure itself is returned for main to report.
func runDeploy(cmd *cobra.Command, args []string) error {
	app, err := getApp(cmd)
	if err != nil {
		return err
	}

	specs, err := config.LoadPlan(app.Config.PlanFile)
	if err != nil {
		return err
	}

	result, runErr := app.RunDeployment.Run(cmd.Context(), usecase.RunDeploymentParams{
		Specs: specs,
	})

	if s, ok := app.Progress.(interface{ Stop() }); ok {
		s.Stop()
	}

	if err := render.NewDeployRenderer(cmd.OutOrStdout()).RenderDeployed(result); err != nil {
		return err
	}

	if app.Config.ReportGas {
		if err := render.NewGasReportRenderer(cmd.OutOrStdout()).RenderGasReport(result); err != nil {
			return err
		}
	}

	return runErr
}
