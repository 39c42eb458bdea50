package usecase

import (
	"context"
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/common"
	"github.com/zkcult/stakedeploy/internal/domain/config"
	"github.com/zkcult/stakedeploy/internal/domain/models"
)

// ArtifactRepository provides access to compiled contract artifacts
type ArtifactRepository interface {
	// GetArtifact resolves a contract name or "source:name" reference.
	// It fails with *domain.ArtifactNotFoundError when nothing matches.
	GetArtifact(ctx context.Context, ref string) (*models.Contract, error)
	ListArtifacts(ctx context.Context) ([]*models.Contract, error)
}

// ArgumentEncoder binds a deployment request to its artifact, coercing the
// raw argument values to the constructor ABI and encoding them
type ArgumentEncoder interface {
	Prepare(ctx context.Context, contract *models.Contract, request *models.DeploymentRequest) (*models.PreparedDeployment, error)
}

// ChainClient talks to the target network
type ChainClient interface {
	// Connect dials the network and returns its chain ID
	Connect(ctx context.Context, network *config.Network) (uint64, error)
	EstimateDeployFee(ctx context.Context, from common.Address, deployment *models.PreparedDeployment) (*models.FeeEstimate, error)
	// Deploy submits the creation transaction and blocks until it is mined
	Deploy(ctx context.Context, key *ecdsa.PrivateKey, deployment *models.PreparedDeployment) (*models.DeploymentResult, error)
	// Close releases the connection opened by Connect
	Close()
}

// ChainIDFetcher reads the chain ID of an endpoint
type ChainIDFetcher interface {
	FetchChainID(ctx context.Context, rpcURL string) (uint64, error)
}

// NetworkResolver handles network configuration resolution
type NetworkResolver interface {
	GetNetworks(ctx context.Context) []string
	ResolveNetwork(ctx context.Context, networkName string) (*config.Network, error)
}

// Confirmer asks the user to approve an action
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ContractSelector lets the user pick one of several artifacts sharing a name
type ContractSelector interface {
	SelectContract(ctx context.Context, contracts []*models.Contract, prompt string) (*models.Contract, error)
}

// Progress tracking interfaces

// ExecutionStage represents a stage in the execution process
type ExecutionStage string

const (
	StageResolving  ExecutionStage = "Resolving"
	StageEstimating ExecutionStage = "Estimating"
	StageDeploying  ExecutionStage = "Deploying"
	StageCompleted  ExecutionStage = "Completed"
)

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage   ExecutionStage
	Current int
	Total   int
	Message string
	Spinner bool
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}
