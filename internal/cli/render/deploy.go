package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/treb-deployer/internal/usecase"
)

// DeployRenderer renders the outcome of a deployment run
type DeployRenderer struct {
	out io.Writer
}

// NewDeployRenderer creates a new deploy renderer
func NewDeployRenderer(out io.Writer) *DeployRenderer {
	return &DeployRenderer{
		out: out,
	}
}

// RenderDeployed prints one "<Contract> deployed to: <address>" line per completed spec.
// A partial result, as returned alongside a failure, prints what did complete.
func (r *DeployRenderer) RenderDeployed(result *usecase.RunDeploymentResult) error {
	if result == nil {
		return nil
	}

	for _, deployed := range result.Completed {
		if _, err := fmt.Fprintf(r.out, "%s deployed to: %s\n", deployed.Contract, deployed.Address); err != nil {
			return err
		}
	}
	return nil
}
