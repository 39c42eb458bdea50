package network

import (
	"context"

	"github.com/zkcult/stakedeploy/internal/config"
	domainconfig "github.com/zkcult/stakedeploy/internal/domain/config"
	"github.com/zkcult/stakedeploy/internal/usecase"
)

// ResolverAdapter adapts config.NetworkResolver to the usecase.NetworkResolver interface
type ResolverAdapter struct {
	resolver *config.NetworkResolver
}

// NewResolverAdapter creates a new adapter
func NewResolverAdapter(resolver *config.NetworkResolver) *ResolverAdapter {
	return &ResolverAdapter{
		resolver: resolver,
	}
}

// GetNetworks returns all configured network names
func (a *ResolverAdapter) GetNetworks(ctx context.Context) []string {
	return a.resolver.Networks()
}

// ResolveNetwork resolves a network name to its configuration
func (a *ResolverAdapter) ResolveNetwork(ctx context.Context, networkName string) (*domainconfig.Network, error) {
	return a.resolver.Resolve(networkName)
}

// Ensure the adapter implements the interface
var _ usecase.NetworkResolver = (*ResolverAdapter)(nil)
