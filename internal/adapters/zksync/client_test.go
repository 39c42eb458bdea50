package zksync

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"errors"
	"io"
	"log/slog"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zkcult/stakedeploy/internal/domain"
	"github.com/zkcult/stakedeploy/internal/domain/config"
	"github.com/zkcult/stakedeploy/internal/domain/models"
	"github.com/zksync-sdk/zksync2-go/utils"
)

const eraChainID = 260

var owner = common.HexToAddress("0x8afACaec5DAd5F03cB3913eA2Ab1609D937b3ff3")

// fakeNode records deployments and mines them into canned receipts
type fakeNode struct {
	chainID  int64
	gas      uint64
	gasPrice int64
	status   uint64
	code     []byte

	estimateErr error
	sendErr     error
	waitErr     error
	noEvent     bool

	estimated []*DeployCall
	deployed  []*DeployCall
	closed    int
}

func newFakeNode() *fakeNode {
	return &fakeNode{
		chainID:  eraChainID,
		gas:      2_000_000,
		gasPrice: 250_000_000,
		status:   types.ReceiptStatusSuccessful,
		code:     []byte{0x01},
	}
}

func (n *fakeNode) ChainID(context.Context) (*big.Int, error) { return big.NewInt(n.chainID), nil }

func (n *fakeNode) SuggestGasPrice(context.Context) (*big.Int, error) {
	return big.NewInt(n.gasPrice), nil
}

func (n *fakeNode) EstimateDeployGas(_ context.Context, call *DeployCall) (uint64, error) {
	n.estimated = append(n.estimated, call)
	return n.gas, n.estimateErr
}

func (n *fakeNode) DeployWithCreate(_ context.Context, _ *ecdsa.PrivateKey, call *DeployCall) (common.Hash, error) {
	if n.sendErr != nil {
		return common.Hash{}, n.sendErr
	}
	n.deployed = append(n.deployed, call)
	return common.BigToHash(big.NewInt(int64(len(n.deployed)))), nil
}

func (n *fakeNode) WaitMined(_ context.Context, txHash common.Hash) (*types.Receipt, error) {
	if n.waitErr != nil {
		return nil, n.waitErr
	}
	call := n.deployed[len(n.deployed)-1]
	receipt := &types.Receipt{
		Status:      n.status,
		TxHash:      txHash,
		BlockNumber: big.NewInt(int64(10 + len(n.deployed))),
		GasUsed:     n.gas / 2,
	}
	if !n.noEvent {
		receipt.Logs = []*types.Log{
			// a contract deployed by the constructor comes first
			deployedEvent(call.From, common.HexToHash("0x0100000aff"), common.HexToAddress("0x1111")),
			deployedEvent(call.From, call.BytecodeHash, common.HexToAddress("0x2222")),
		}
	}
	return receipt, nil
}

func (n *fakeNode) CodeAt(context.Context, common.Address, *big.Int) ([]byte, error) {
	return n.code, nil
}

func (n *fakeNode) Close() { n.closed++ }

func deployedEvent(deployer common.Address, bytecodeHash common.Hash, contract common.Address) *types.Log {
	return &types.Log{
		Address: utils.ContractDeployerAddress,
		Topics: []common.Hash{
			contractDeployedTopic,
			common.BytesToHash(deployer.Bytes()),
			bytecodeHash,
			common.BytesToHash(contract.Bytes()),
		},
	}
}

func newTestClient(t *testing.T, node *fakeNode) *Client {
	t.Helper()

	dial := func(ctx context.Context, rpcURL string) (Node, error) {
		if rpcURL != "http://localhost:8011" {
			return nil, errors.New("dial tcp: connection refused")
		}
		return node, nil
	}
	return NewClientWithDialer(dial, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func localNetwork() *config.Network {
	return &config.Network{Name: "local", RPCURL: "http://localhost:8011", ChainID: eraChainID, ZkSync: true}
}

// eraBytecode is one 32-byte word, the smallest valid EraVM bytecode
func eraBytecode(fill byte) []byte {
	return bytes.Repeat([]byte{fill}, 32)
}

func prepared(t *testing.T, bytecode []byte, deps ...[]byte) *models.PreparedDeployment {
	t.Helper()

	parsed, err := abi.JSON(strings.NewReader(`[{"type":"constructor","stateMutability":"nonpayable","inputs":[{"name":"owner","type":"address"}]}]`))
	require.NoError(t, err)
	encoded, err := parsed.Pack("", owner)
	require.NoError(t, err)

	return &models.PreparedDeployment{
		Request:     &models.DeploymentRequest{Name: "factory"},
		Contract:    &models.Contract{Name: "zkCultStakingFactory"},
		ABI:         &parsed,
		Bytecode:    bytecode,
		Args:        []any{owner},
		EncodedArgs: encoded,
		FactoryDeps: deps,
	}
}

func TestClient_Connect(t *testing.T) {
	node := newFakeNode()
	client := newTestClient(t, node)

	chainID, err := client.Connect(context.Background(), localNetwork())
	require.NoError(t, err)
	assert.Equal(t, uint64(eraChainID), chainID)

	t.Run("pinned chain id differs", func(t *testing.T) {
		network := localNetwork()
		network.ChainID = 324
		_, err := client.Connect(context.Background(), network)

		var mismatch *domain.ChainIDMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, uint64(eraChainID), mismatch.Actual)
	})

	t.Run("unreachable", func(t *testing.T) {
		_, err := client.Connect(context.Background(), &config.Network{Name: "zkSyncTestnet", RPCURL: "https://zksync2-testnet.zksync.dev"})
		assert.ErrorContains(t, err, "failed to connect to RPC")
	})

	t.Run("missing url", func(t *testing.T) {
		_, err := client.Connect(context.Background(), &config.Network{Name: "empty"})
		assert.ErrorContains(t, err, "no RPC URL")
	})
}

func TestClient_RequiresConnection(t *testing.T) {
	client := newTestClient(t, newFakeNode())

	_, err := client.EstimateDeployFee(context.Background(), owner, prepared(t, eraBytecode(0xaa)))
	assert.ErrorIs(t, err, domain.ErrNotConnected)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	_, err = client.Deploy(context.Background(), key, prepared(t, eraBytecode(0xaa)))
	assert.ErrorIs(t, err, domain.ErrNotConnected)
}

func TestClient_EstimateDeployFee(t *testing.T) {
	node := newFakeNode()
	client := newTestClient(t, node)
	_, err := client.Connect(context.Background(), localNetwork())
	require.NoError(t, err)

	pool := eraBytecode(0xbb)
	d := prepared(t, eraBytecode(0xaa), pool)

	estimate, err := client.EstimateDeployFee(context.Background(), owner, d)
	require.NoError(t, err)
	assert.Equal(t, uint64(2_000_000), estimate.GasLimit)
	assert.Equal(t, big.NewInt(250_000_000), estimate.GasPrice)
	assert.Equal(t, big.NewInt(500_000_000_000_000), estimate.Fee)

	require.Len(t, node.estimated, 1)
	call := node.estimated[0]
	assert.Equal(t, owner, call.From)
	assert.Equal(t, [][]byte{pool}, call.FactoryDeps)
	assert.Equal(t, d.EncodedArgs, call.Calldata)
	// version 1, length of one word
	assert.Equal(t, []byte{0x01, 0x00, 0x00, 0x01}, call.BytecodeHash.Bytes()[:4])

	method := deployerABI.Methods["create"]
	assert.Equal(t, method.ID, call.Input[:4])
	values, err := method.Inputs.Unpack(call.Input[4:])
	require.NoError(t, err)
	require.Len(t, values, 3)
	assert.Equal(t, [32]byte{}, values[0])
	assert.Equal(t, [32]byte(call.BytecodeHash), values[1])
	assert.Equal(t, d.EncodedArgs, values[2])

	t.Run("node rejects the estimate", func(t *testing.T) {
		node.estimateErr = errors.New("execution reverted")
		defer func() { node.estimateErr = nil }()

		_, err := client.EstimateDeployFee(context.Background(), owner, d)
		assert.ErrorContains(t, err, "failed to estimate gas: execution reverted")
	})

	t.Run("evm bytecode", func(t *testing.T) {
		for _, code := range [][]byte{eraBytecode(0xaa)[:31], bytes.Repeat([]byte{0xaa}, 64)} {
			_, err := client.EstimateDeployFee(context.Background(), owner, prepared(t, code))
			assert.ErrorContains(t, err, "is not zkSync bytecode")
		}
	})
}

func TestClient_Deploy(t *testing.T) {
	node := newFakeNode()
	client := newTestClient(t, node)
	_, err := client.Connect(context.Background(), localNetwork())
	require.NoError(t, err)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	d := prepared(t, eraBytecode(0xaa), eraBytecode(0xbb))

	result, err := client.Deploy(context.Background(), key, d)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x2222"), result.Address)
	assert.Equal(t, common.BigToHash(big.NewInt(1)), result.TxHash)
	assert.Equal(t, uint64(11), result.BlockNumber)
	assert.Equal(t, uint64(1_000_000), result.GasUsed)

	require.Len(t, node.deployed, 1)
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), node.deployed[0].From)
	assert.Equal(t, [][]byte{eraBytecode(0xbb)}, node.deployed[0].FactoryDeps)

	t.Run("missing deployment event", func(t *testing.T) {
		node.noEvent = true
		defer func() { node.noEvent = false }()

		_, err := client.Deploy(context.Background(), key, d)
		var deployErr *domain.DeploymentError
		require.ErrorAs(t, err, &deployErr)
		assert.NotEmpty(t, deployErr.TxHash)
		assert.ErrorContains(t, err, "no ContractDeployed event")
	})
}

func TestClient_DeployFailures(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	tests := []struct {
		name     string
		setup    func(n *fakeNode)
		wantHash bool
		wantIs   error
		wantText string
	}{
		{
			name:     "submission rejected",
			setup:    func(n *fakeNode) { n.sendErr = errors.New("insufficient funds for gas") },
			wantText: "failed to submit deployment: insufficient funds for gas",
		},
		{
			name:     "reverted",
			setup:    func(n *fakeNode) { n.status = types.ReceiptStatusFailed },
			wantHash: true,
			wantIs:   domain.ErrTransactionReverted,
		},
		{
			name:     "confirmation lost",
			setup:    func(n *fakeNode) { n.waitErr = context.DeadlineExceeded },
			wantHash: true,
			wantIs:   context.DeadlineExceeded,
		},
		{
			name:     "no code",
			setup:    func(n *fakeNode) { n.code = nil },
			wantHash: true,
			wantText: "no code at deployed address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := newFakeNode()
			tt.setup(node)
			client := newTestClient(t, node)
			_, err := client.Connect(context.Background(), localNetwork())
			require.NoError(t, err)

			_, err = client.Deploy(context.Background(), key, prepared(t, eraBytecode(0xaa)))
			require.Error(t, err)
			if tt.wantText != "" {
				assert.ErrorContains(t, err, tt.wantText)
			}
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}

			var deployErr *domain.DeploymentError
			if tt.wantHash {
				require.ErrorAs(t, err, &deployErr)
				assert.Equal(t, common.BigToHash(big.NewInt(1)).Hex(), deployErr.TxHash)
			} else {
				assert.False(t, errors.As(err, &deployErr))
			}
		})
	}
}

func TestClient_Close(t *testing.T) {
	node := newFakeNode()
	client := newTestClient(t, node)
	_, err := client.Connect(context.Background(), localNetwork())
	require.NoError(t, err)

	client.Close()
	client.Close()
	assert.Equal(t, 1, node.closed)

	_, err = client.EstimateDeployFee(context.Background(), owner, prepared(t, eraBytecode(0xaa)))
	assert.ErrorIs(t, err, domain.ErrNotConnected)
}
