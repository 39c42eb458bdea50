package adapters

import (
	"github.com/google/wire"
	"github.com/zkcult/stakedeploy/internal/adapters/abi"
	"github.com/zkcult/stakedeploy/internal/adapters/artifacts"
	"github.com/zkcult/stakedeploy/internal/adapters/blockchain"
	"github.com/zkcult/stakedeploy/internal/adapters/interactive"
	"github.com/zkcult/stakedeploy/internal/adapters/network"
	"github.com/zkcult/stakedeploy/internal/adapters/progress"
	"github.com/zkcult/stakedeploy/internal/adapters/zksync"
	"github.com/zkcult/stakedeploy/internal/config"
	"github.com/zkcult/stakedeploy/internal/usecase"
)

// ArtifactSet provides build output access
var ArtifactSet = wire.NewSet(
	artifacts.NewRepository,
	wire.Bind(new(usecase.ArtifactRepository), new(*artifacts.Repository)),

	abi.NewEncoder,
	wire.Bind(new(usecase.ArgumentEncoder), new(*abi.Encoder)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.Confirmer), new(*interactive.SelectorAdapter)),
	wire.Bind(new(usecase.ContractSelector), new(*interactive.SelectorAdapter)),
)

// ConfigSet provides configuration-based implementations
var ConfigSet = wire.NewSet(
	config.ProvideNetworkResolver,
	network.NewResolverAdapter,
	wire.Bind(new(usecase.NetworkResolver), new(*network.ResolverAdapter)),
)

// BlockchainSet provides blockchain-based implementations
var BlockchainSet = wire.NewSet(
	blockchain.NewClient,
	zksync.NewClient,
	blockchain.NewRouter,
	wire.Bind(new(usecase.ChainClient), new(*blockchain.Router)),
	wire.Bind(new(usecase.ChainIDFetcher), new(*blockchain.Client)),
)

// ProgressSet provides the progress sink
var ProgressSet = wire.NewSet(
	progress.NewProgressSink,
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	ArtifactSet,
	InteractiveSet,
	ConfigSet,
	BlockchainSet,
	ProgressSet,
)
