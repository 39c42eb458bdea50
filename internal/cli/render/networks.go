package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/zkcult/stakedeploy/internal/usecase"
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

// RenderNetworksList renders the list of networks
func (r *NetworksRenderer) RenderNetworksList(result *usecase.ListNetworksResult) error {
	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured in stakedeploy.toml [networks]")
		return nil
	}

	fmt.Fprintln(r.out, "🌐 Available Networks:")
	fmt.Fprintln(r.out)

	for _, network := range result.Networks {
		if network.Error != nil {
			fmt.Fprintf(r.out, "  ❌ %s - Error: %v\n", network.Name, network.Error)
			continue
		}

		chain := color.New(color.Faint).Sprint("chain ID unknown")
		if network.ChainID != 0 {
			chain = fmt.Sprintf("Chain ID: %d", network.ChainID)
		}
		line := fmt.Sprintf("  ✅ %s - %s", network.Name, chain)
		if network.L1Network != "" {
			line += color.New(color.Faint).Sprintf(" (L1: %s)", network.L1Network)
		}
		fmt.Fprintln(r.out, line)
	}

	return nil
}
