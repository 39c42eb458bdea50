package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/zkcult/stakedeploy/internal/domain/config"
)

// defaultCurrency is the display symbol of the native token when none is configured
const defaultCurrency = "ETH"

// NetworkResolver resolves network names from the [networks] table of stakedeploy.toml
type NetworkResolver struct {
	networks map[string]config.NetworkConfig
}

// NewNetworkResolver creates a new network resolver
func NewNetworkResolver(project *config.ProjectConfig) *NetworkResolver {
	networks := map[string]config.NetworkConfig{}
	if project != nil && project.Networks != nil {
		networks = project.Networks
	}
	return &NetworkResolver{networks: networks}
}

// Networks returns the configured network names in sorted order
func (r *NetworkResolver) Networks() []string {
	return sortedKeys(r.networks)
}

// Resolve resolves a network name to its configuration. ${VAR} references in
// the endpoint are expanded from the environment.
func (r *NetworkResolver) Resolve(networkName string) (*config.Network, error) {
	raw, exists := r.networks[networkName]
	if !exists {
		available := r.Networks()
		if len(available) == 0 {
			return nil, fmt.Errorf("network '%s' not found: no [networks] configured in %s", networkName, ProjectFileName)
		}
		return nil, fmt.Errorf("network '%s' not found in %s (available: %s)",
			networkName, ProjectFileName, strings.Join(available, ", "))
	}

	rpcURL, err := ExpandValue(raw.URL)
	if err != nil {
		return nil, fmt.Errorf("network '%s' has no usable url: %w", networkName, err)
	}
	if rpcURL == "" {
		return nil, fmt.Errorf("network '%s' has no url configured", networkName)
	}

	currency := raw.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	return &config.Network{
		Name:        networkName,
		RPCURL:      rpcURL,
		ChainID:     raw.ChainID,
		ExplorerURL: strings.TrimRight(raw.Explorer, "/"),
		Currency:    currency,
		L1Network:   raw.L1Network,
		ZkSync:      raw.ZkSync,
	}, nil
}

// sortedKeys returns the keys of a map in sorted order
func sortedKeys[V any](m map[string]V) []string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return keys
}
