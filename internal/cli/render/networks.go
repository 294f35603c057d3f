package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/treb-deployer/internal/usecase"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out io.Writer
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer) *NetworksRenderer {
	return &NetworksRenderer{
		out: out,
	}
}

// RenderNetworksList renders every known network profile with its resolved endpoint
func (r *NetworksRenderer) RenderNetworksList(result *usecase.ListNetworksResult) error {
	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured")
		return nil
	}

	fmt.Fprintln(r.out, "🌐 Available Networks:")
	fmt.Fprintln(r.out)

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.AppendHeader(table.Row{"", "Network", "URL", "Chain ID", "Status"})

	for _, network := range result.Networks {
		marker := ""
		if network.Name == result.Current {
			marker = "*"
		}

		chainID := faintStyle.Sprint("any")
		if network.ChainID != nil {
			chainID = fmt.Sprintf("%d", *network.ChainID)
		}

		t.AppendRow(table.Row{marker, labelStyle.Sprint(network.Name), network.URL, chainID, networkStatus(network)})
	}

	t.Render()
	return nil
}

func networkStatus(network usecase.NetworkStatus) string {
	switch {
	case network.Error != nil:
		return errorStyle.Sprintf("❌ %v", network.Error)
	case !network.HasSigningKey:
		return warningStyle.Sprint("⚠️  no signing key")
	case network.AllowUnlimitedContractSize:
		return successStyle.Sprint("✅ ready (unlimited contract size)")
	default:
		return successStyle.Sprint("✅ ready")
	}
}
