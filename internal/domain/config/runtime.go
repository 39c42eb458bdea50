package config

import (
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot  string
	ArtifactsDir string // absolute path of the build output
	PlanFile     string // absolute path of the deployment plan

	// Context settings
	Network *Network // nil if not specified and no default configured

	// Execution settings
	Debug          bool
	NonInteractive bool
	JSON           bool // Output in JSON format
	Timeout        time.Duration

	// Command-specific settings (only populated for relevant commands)
	DryRun bool

	// Resolved configurations
	ProjectConfig *ProjectConfig
	Sender        SenderConfig
}

// Network represents network configuration
type Network struct {
	ChainID     uint64 `json:"chainId"`
	Name        string `json:"name"`
	RPCURL      string `json:"rpcUrl"`
	ExplorerURL string `json:"explorerUrl,omitempty"`
	Currency    string `json:"currency"`
	L1Network   string `json:"l1Network,omitempty"`
	ZkSync      bool   `json:"zksync,omitempty"` // deploy through the ContractDeployer system contract
}

// AddressURL returns the explorer link for an address, or "" without an explorer
func (n *Network) AddressURL(address string) string {
	if n == nil || n.ExplorerURL == "" {
		return ""
	}
	return n.ExplorerURL + "/address/" + address
}
