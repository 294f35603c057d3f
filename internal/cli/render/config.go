package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/trebuchet-org/treb-deployer/internal/usecase"
)

// ConfigRenderer renders config-related output
type ConfigRenderer struct {
	out io.Writer
}

// NewConfigRenderer creates a new config renderer
func NewConfigRenderer(out io.Writer) *ConfigRenderer {
	return &ConfigRenderer{
		out: out,
	}
}

// getRelativePath returns the relative path from current directory
func getRelativePath(path string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}

	relPath, err := filepath.Rel(cwd, path)
	if err != nil {
		return path
	}

	return relPath
}

// RenderConfig renders the configuration display
func (r *ConfigRenderer) RenderConfig(result *usecase.ShowConfigResult) error {
	fmt.Fprintln(r.out, "📋 Current config:")

	r.field("Project", getRelativePath(result.ProjectRoot))
	r.field("Network", result.Network)
	if result.NetworkError != nil {
		r.field("URL", errorStyle.Sprintf("%v", result.NetworkError))
	} else {
		r.field("URL", result.NetworkURL)
	}
	if result.ChainID != nil {
		r.field("Chain ID", fmt.Sprintf("%d", *result.ChainID))
	} else {
		r.field("Chain ID", faintStyle.Sprint("(reported by node)"))
	}

	r.field("Artifacts", fmt.Sprintf("%s (%d contracts)", getRelativePath(result.ArtifactsDir), result.ArtifactCount))
	if result.PlanFile != "" {
		r.field("Plan", getRelativePath(result.PlanFile))
	} else {
		r.field("Plan", faintStyle.Sprint("(built-in)"))
	}
	r.field("Confirmation", result.ConfirmationTimeout.String())
	r.field("Gas report", onOff(result.ReportGas))
	if result.ExplorerAPIKeySet {
		r.field("Explorer key", "********")
	} else {
		r.field("Explorer key", faintStyle.Sprint("(not set)"))
	}

	if result.DeployerFilePath != "" {
		fmt.Fprintf(r.out, "\n📁 config file: %s\n", getRelativePath(result.DeployerFilePath))
	}

	return nil
}

func (r *ConfigRenderer) field(label, value string) {
	fmt.Fprintf(r.out, "%s %s\n", labelStyle.Sprintf("%-13s", label+":"), value)
}

func onOff(b bool) string {
	if b {
		return successStyle.Sprint("on")
	}
	return faintStyle.Sprint("off")
}
