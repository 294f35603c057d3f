package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/treb-deployer/internal/domain/models"
	"github.com/trebuchet-org/treb-deployer/internal/usecase"
)

// DeploymentsRenderer renders registry listings
type DeploymentsRenderer struct {
	out io.Writer
}

// NewDeploymentsRenderer creates a new deployments renderer
func NewDeploymentsRenderer(out io.Writer) *DeploymentsRenderer {
	return &DeploymentsRenderer{
		out: out,
	}
}

// RenderDeploymentList renders the recorded deployments of one network
func (r *DeploymentsRenderer) RenderDeploymentList(result *usecase.DeploymentListResult) error {
	if result == nil || len(result.Deployments) == 0 {
		fmt.Fprintln(r.out, "No deployments found")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.SetTitle(fmt.Sprintf("Deployments: %s", result.Network))
	t.AppendHeader(table.Row{"Contract", "Type", "Address", "Implementation", "Deployed"})

	for _, dep := range result.Deployments {
		kind := "singleton"
		implementation := faintStyle.Sprint("-")
		if dep.Type == models.ProxyDeployment {
			kind = "proxy"
			if dep.ProxyInfo != nil {
				kind = fmt.Sprintf("proxy (%s)", dep.ProxyInfo.Type)
				implementation = dep.ProxyInfo.Implementation
			}
		}

		t.AppendRow(table.Row{
			labelStyle.Sprint(dep.ContractName),
			kind,
			dep.Address,
			implementation,
			dep.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	t.Render()
	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "Total deployments: %d (%d singleton, %d proxy)\n",
		result.Summary.Total,
		result.Summary.ByType[models.SingletonDeployment],
		result.Summary.ByType[models.ProxyDeployment],
	)
	return nil
}
