package usecase

import (
	"context"

	"github.com/zkcult/stakedeploy/internal/domain"
)

// ListNetworksParams contains parameters for listing networks
type ListNetworksParams struct {
	// Probe queries each endpoint for its chain ID
	Probe bool
}

// ListNetworksResult contains the result of listing networks
type ListNetworksResult struct {
	Networks []NetworkStatus
}

// NetworkStatus represents the status of a network
type NetworkStatus struct {
	Name       string
	RPCURL     string
	ChainID    uint64
	Configured bool // chain ID pinned in stakedeploy.toml
	L1Network  string
	Error      error
}

// ListNetworks is a use case for listing available networks
type ListNetworks struct {
	resolver NetworkResolver
	fetcher  ChainIDFetcher
}

// NewListNetworks creates a new ListNetworks use case
func NewListNetworks(resolver NetworkResolver, fetcher ChainIDFetcher) *ListNetworks {
	return &ListNetworks{
		resolver: resolver,
		fetcher:  fetcher,
	}
}

// Run executes the use case
func (uc *ListNetworks) Run(ctx context.Context, params ListNetworksParams) (*ListNetworksResult, error) {
	networkNames := uc.resolver.GetNetworks(ctx)

	networks := make([]NetworkStatus, 0, len(networkNames))
	for _, name := range networkNames {
		status := NetworkStatus{
			Name: name,
		}

		info, err := uc.resolver.ResolveNetwork(ctx, name)
		if err != nil {
			status.Error = err
			networks = append(networks, status)
			continue
		}

		status.RPCURL = info.RPCURL
		status.ChainID = info.ChainID
		status.Configured = info.ChainID != 0
		status.L1Network = info.L1Network

		if params.Probe {
			chainID, err := uc.fetcher.FetchChainID(ctx, info.RPCURL)
			switch {
			case err != nil:
				status.Error = err
			case status.Configured && chainID != info.ChainID:
				status.Error = &domain.ChainIDMismatchError{Expected: info.ChainID, Actual: chainID}
			default:
				status.ChainID = chainID
			}
		}

		networks = append(networks, status)
	}

	return &ListNetworksResult{
		Networks: networks,
	}, nil
}
