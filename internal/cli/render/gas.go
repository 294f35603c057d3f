package render

import (
	"fmt"
	"io"
	"math/big"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/trebuchet-org/treb-deployer/internal/usecase"
)

const (
	gweiDecimals  = 9
	etherDecimals = 18
)

// GasReportRenderer renders the gas used by every confirmed transaction of a run
type GasReportRenderer struct {
	out io.Writer
}

// NewGasReportRenderer creates a new gas report renderer
func NewGasReportRenderer(out io.Writer) *GasReportRenderer {
	return &GasReportRenderer{
		out: out,
	}
}

// RenderGasReport prints a table of transactions with gas used, effective gas price and cost
func (r *GasReportRenderer) RenderGasReport(result *usecase.RunDeploymentResult) error {
	if result == nil || len(result.Completed) == 0 {
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.SetTitle(fmt.Sprintf("Gas report: %s (chain %d)", result.Network.Name, result.ChainID))
	t.AppendHeader(table.Row{"Contract", "Transaction", "Gas Used", "Gas Price (gwei)", "Cost"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})

	var totalGas uint64
	totalCost := new(big.Int)
	for _, deployed := range result.Completed {
		for _, tx := range deployed.Transactions {
			cost := tx.Cost()
			totalGas += tx.GasUsed
			totalCost.Add(totalCost, cost)

			t.AppendRow(table.Row{
				deployed.Contract,
				tx.Label,
				formatCount(tx.GasUsed),
				formatUnits(tx.EffectiveGasPrice, gweiDecimals, 2),
				formatUnits(cost, etherDecimals, 6),
			})
		}
	}

	t.AppendFooter(table.Row{"Total", "", formatCount(totalGas), "", formatUnits(totalCost, etherDecimals, 6)})
	t.Render()
	return nil
}
