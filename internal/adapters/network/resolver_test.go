package network

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zkcult/stakedeploy/internal/config"
	domainconfig "github.com/zkcult/stakedeploy/internal/domain/config"
)

func TestResolverAdapter(t *testing.T) {
	t.Setenv("ZKSYNC_TESTNET_RPC_URL", "https://zksync2-testnet.zksync.dev")

	project := &domainconfig.ProjectConfig{
		Networks: map[string]domainconfig.NetworkConfig{
			"zkSyncTestnet": {URL: "${ZKSYNC_TESTNET_RPC_URL}", L1Network: "goerli"},
			"zkSyncMainnet": {URL: "https://mainnet.era.zksync.io", ChainID: 324, Explorer: "https://explorer.zksync.io/"},
		},
	}
	adapter := NewResolverAdapter(config.NewNetworkResolver(project))

	assert.Equal(t, []string{"zkSyncMainnet", "zkSyncTestnet"}, adapter.GetNetworks(context.Background()))

	testnet, err := adapter.ResolveNetwork(context.Background(), "zkSyncTestnet")
	require.NoError(t, err)
	assert.Equal(t, "https://zksync2-testnet.zksync.dev", testnet.RPCURL)
	assert.Equal(t, "goerli", testnet.L1Network)
	assert.Equal(t, "ETH", testnet.Currency)

	mainnet, err := adapter.ResolveNetwork(context.Background(), "zkSyncMainnet")
	require.NoError(t, err)
	assert.Equal(t, uint64(324), mainnet.ChainID)
	assert.Equal(t, "https://explorer.zksync.io", mainnet.ExplorerURL)

	_, err = adapter.ResolveNetwork(context.Background(), "goerli")
	assert.ErrorContains(t, err, "available: zkSyncMainnet, zkSyncTestnet")
}
