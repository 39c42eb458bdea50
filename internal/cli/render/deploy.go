package render

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/zkcult/stakedeploy/internal/domain/models"
	"github.com/zkcult/stakedeploy/pkg/units"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// gweiDecimals scales gas prices in the summary table
const gweiDecimals = 9

var (
	headerStyle   = color.New(color.Bold, color.FgHiWhite)
	labelStyle    = color.New(color.Faint)
	addressStyle  = color.New(color.FgGreen, color.Bold)
	feeStyle      = color.New(color.FgYellow)
	payloadStyle  = color.New(color.FgWhite)
	dryRunStyle   = color.New(color.FgYellow, color.Bold)
	contractStyle = color.New(color.FgCyan, color.Bold)
)

// DeployRenderer renders deployment reports
type DeployRenderer struct {
	out  io.Writer
	json bool
}

// NewDeployRenderer creates a new deploy renderer
func NewDeployRenderer(out io.Writer, jsonOutput bool) *DeployRenderer {
	return &DeployRenderer{out: out, json: jsonOutput}
}

// Render writes the report as console text or JSON
func (r *DeployRenderer) Render(report *models.DeploymentReport) error {
	if r.json {
		return r.renderJSON(report)
	}
	r.renderText(report)
	return nil
}

func (r *DeployRenderer) renderText(report *models.DeploymentReport) {
	network := report.Network
	currency := network.Currency

	fmt.Fprintln(r.out)
	headerStyle.Fprintf(r.out, "Network %s", network.Name)
	labelStyle.Fprintf(r.out, " (chain %d", network.ChainID)
	if network.L1Network != "" {
		labelStyle.Fprintf(r.out, ", settles on %s", network.L1Network)
	}
	labelStyle.Fprintln(r.out, ")")
	fmt.Fprintf(r.out, "%s %s\n\n", labelStyle.Sprint("Deployer:"), report.Deployer.Hex())

	fmt.Fprintln(r.out, r.summaryTable(report))
	fmt.Fprintf(r.out, "\n%s %s\n",
		labelStyle.Sprint("Total estimated fee:"),
		feeStyle.Sprintf("%s %s", units.FormatEther(report.TotalEstimatedFee()), currency))

	// Constructor payloads, the input a block explorer needs for source verification
	for _, entry := range report.Entries {
		fmt.Fprintf(r.out, "\n%s %s\n", contractStyle.Sprint(entry.ContractName), labelStyle.Sprint("constructor arguments:"))
		payloadStyle.Fprintln(r.out, hexutil.Encode(entry.EncodedArgs))
	}

	if report.DryRun {
		fmt.Fprintln(r.out)
		dryRunStyle.Fprintln(r.out, "Dry run: no transactions were broadcast")
		return
	}

	fmt.Fprintln(r.out)
	for _, entry := range report.Entries {
		if entry.Result == nil {
			continue
		}
		address := entry.Result.Address.Hex()
		fmt.Fprintf(r.out, "%s was deployed to %s\n", entry.ContractName, addressStyle.Sprint(address))
		if link := network.AddressURL(address); link != "" {
			fmt.Fprintf(r.out, "  %s\n", labelStyle.Sprint(link))
		}
	}
}

// summaryTable renders one row per deployment
func (r *DeployRenderer) summaryTable(report *models.DeploymentReport) string {
	title := cases.Title(language.English)

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.Style().Box.PaddingRight = "   "
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})

	t.AppendHeader(table.Row{"Deployment", "Contract", "Gas", "Gas price (gwei)", "Fee (" + report.Network.Currency + ")", "Address"})
	for _, entry := range report.Entries {
		gas, gasPrice, fee := "-", "-", "-"
		if entry.Estimate != nil {
			gas = fmt.Sprintf("%d", entry.Estimate.GasLimit)
			gasPrice = units.FormatUnits(entry.Estimate.GasPrice, gweiDecimals)
			fee = units.FormatEther(entry.Estimate.Fee)
		}
		address := "-"
		if entry.Result != nil {
			address = entry.Result.Address.Hex()
		}
		t.AppendRow(table.Row{title.String(entry.Name), entry.ContractName, gas, gasPrice, fee, address})
	}

	return t.Render()
}

type jsonReport struct {
	Network           string           `json:"network"`
	ChainID           uint64           `json:"chainId"`
	L1Network         string           `json:"l1Network,omitempty"`
	Deployer          string           `json:"deployer"`
	DryRun            bool             `json:"dryRun"`
	Currency          string           `json:"currency"`
	TotalEstimatedFee string           `json:"totalEstimatedFee"`
	Deployments       []jsonDeployment `json:"deployments"`
}

type jsonDeployment struct {
	Name         string `json:"name"`
	Contract     string `json:"contract"`
	GasLimit     uint64 `json:"gasLimit"`
	GasPrice     string `json:"gasPrice"`
	EstimatedFee string `json:"estimatedFee"`
	FeeFormatted string `json:"estimatedFeeFormatted"`
	EncodedArgs  string `json:"encodedArgs"`
	Address      string `json:"address,omitempty"`
	TxHash       string `json:"txHash,omitempty"`
	BlockNumber  uint64 `json:"blockNumber,omitempty"`
	GasUsed      uint64 `json:"gasUsed,omitempty"`
	ExplorerURL  string `json:"explorerUrl,omitempty"`
}

// renderJSON writes the report for machine consumption. The RPC URL is left
// out since it commonly embeds an API key.
func (r *DeployRenderer) renderJSON(report *models.DeploymentReport) error {
	out := jsonReport{
		Network:           report.Network.Name,
		ChainID:           report.Network.ChainID,
		L1Network:         report.Network.L1Network,
		Deployer:          report.Deployer.Hex(),
		DryRun:            report.DryRun,
		Currency:          report.Network.Currency,
		TotalEstimatedFee: report.TotalEstimatedFee().String(),
		Deployments:       make([]jsonDeployment, 0, len(report.Entries)),
	}

	for _, entry := range report.Entries {
		d := jsonDeployment{
			Name:        entry.Name,
			Contract:    entry.ContractName,
			EncodedArgs: hexutil.Encode(entry.EncodedArgs),
		}
		if entry.Estimate != nil {
			d.GasLimit = entry.Estimate.GasLimit
			d.GasPrice = bigString(entry.Estimate.GasPrice)
			d.EstimatedFee = bigString(entry.Estimate.Fee)
			d.FeeFormatted = units.FormatEther(entry.Estimate.Fee)
		}
		if entry.Result != nil {
			d.Address = entry.Result.Address.Hex()
			d.TxHash = entry.Result.TxHash.Hex()
			d.BlockNumber = entry.Result.BlockNumber
			d.GasUsed = entry.Result.GasUsed
			d.ExplorerURL = report.Network.AddressURL(d.Address)
		}
		out.Deployments = append(out.Deployments, d)
	}

	encoder := json.NewEncoder(r.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func bigString(n *big.Int) string {
	if n == nil {
		return "0"
	}
	return n.String()
}
