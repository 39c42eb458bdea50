package blockchain

import (
	"context"
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/common"
	"github.com/zkcult/stakedeploy/internal/adapters/zksync"
	"github.com/zkcult/stakedeploy/internal/domain"
	"github.com/zkcult/stakedeploy/internal/domain/config"
	"github.com/zkcult/stakedeploy/internal/domain/models"
	"github.com/zkcult/stakedeploy/internal/usecase"
)

// Router sends deployments through the zkSync client on networks flagged
// zksync and through the EVM client everywhere else
type Router struct {
	evm    usecase.ChainClient
	zksync usecase.ChainClient
	active usecase.ChainClient
}

// NewRouter creates a router over both clients
func NewRouter(evm *Client, zk *zksync.Client) *Router {
	return &Router{evm: evm, zksync: zk}
}

func (r *Router) Connect(ctx context.Context, network *config.Network) (uint64, error) {
	r.Close()

	client := r.evm
	if network.ZkSync {
		client = r.zksync
	}

	chainID, err := client.Connect(ctx, network)
	if err != nil {
		return 0, err
	}
	r.active = client
	return chainID, nil
}

func (r *Router) EstimateDeployFee(ctx context.Context, from common.Address, d *models.PreparedDeployment) (*models.FeeEstimate, error) {
	if r.active == nil {
		return nil, domain.ErrNotConnected
	}
	return r.active.EstimateDeployFee(ctx, from, d)
}

func (r *Router) Deploy(ctx context.Context, key *ecdsa.PrivateKey, d *models.PreparedDeployment) (*models.DeploymentResult, error) {
	if r.active == nil {
		return nil, domain.ErrNotConnected
	}
	return r.active.Deploy(ctx, key, d)
}

func (r *Router) Close() {
	if r.active != nil {
		r.active.Close()
		r.active = nil
	}
}

var _ usecase.ChainClient = (*Router)(nil)
