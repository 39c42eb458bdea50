package zksync

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/zkcult/stakedeploy/internal/domain"
	"github.com/zkcult/stakedeploy/internal/domain/config"
	"github.com/zkcult/stakedeploy/internal/domain/models"
	"github.com/zkcult/stakedeploy/internal/usecase"
	"github.com/zksync-sdk/zksync2-go/utils"
)

const contractDeployerABI = `[{"type":"function","name":"create","stateMutability":"payable",
"inputs":[{"name":"_salt","type":"bytes32"},{"name":"_bytecodeHash","type":"bytes32"},{"name":"_input","type":"bytes"}],
"outputs":[{"name":"","type":"address"}]}]`

var (
	deployerABI = mustParseABI(contractDeployerABI)

	// ContractDeployed(address indexed deployerAddress, bytes32 indexed bytecodeHash, address indexed contractAddress)
	contractDeployedTopic = crypto.Keccak256Hash([]byte("ContractDeployed(address,bytes32,address)"))
)

func mustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(err)
	}
	return parsed
}

// Node is the zkSync Era RPC surface used for deployments
type Node interface {
	ChainID(ctx context.Context) (*big.Int, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateDeployGas(ctx context.Context, call *DeployCall) (uint64, error)
	DeployWithCreate(ctx context.Context, key *ecdsa.PrivateKey, call *DeployCall) (common.Hash, error)
	WaitMined(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
	Close()
}

// DeployCall is a CREATE deployment through the ContractDeployer system contract
type DeployCall struct {
	From         common.Address
	Value        *big.Int
	Bytecode     []byte
	BytecodeHash common.Hash
	Calldata     []byte   // encoded constructor arguments
	Input        []byte   // ContractDeployer.create calldata
	FactoryDeps  [][]byte // dependencies, without Bytecode itself
}

// Dialer opens a Node for an RPC endpoint
type Dialer func(ctx context.Context, rpcURL string) (Node, error)

// Client deploys through EIP-712 transactions on zkSync Era networks
type Client struct {
	dial    Dialer
	log     *slog.Logger
	node    Node
	chainID *big.Int
}

// NewClient creates a zkSync client backed by the zksync2-go SDK
func NewClient(log *slog.Logger) *Client {
	return NewClientWithDialer(DialNode, log)
}

// NewClientWithDialer creates a zkSync client that opens nodes with dial
func NewClientWithDialer(dial Dialer, log *slog.Logger) *Client {
	return &Client{dial: dial, log: log.With("component", "zksync")}
}

// Connect dials the network and verifies its chain ID
func (c *Client) Connect(ctx context.Context, network *config.Network) (uint64, error) {
	if network.RPCURL == "" {
		return 0, fmt.Errorf("network %s has no RPC URL", network.Name)
	}

	node, err := c.dial(ctx, network.RPCURL)
	if err != nil {
		return 0, fmt.Errorf("failed to connect to RPC: %w", err)
	}

	chainID, err := node.ChainID(ctx)
	if err != nil {
		node.Close()
		return 0, fmt.Errorf("failed to get chain ID: %w", err)
	}

	if network.ChainID != 0 && chainID.Uint64() != network.ChainID {
		node.Close()
		return 0, &domain.ChainIDMismatchError{Expected: network.ChainID, Actual: chainID.Uint64()}
	}

	c.Close()
	c.node = node
	c.chainID = chainID

	c.log.Debug("connected", "network", network.Name, "chainId", chainID.Uint64())
	return chainID.Uint64(), nil
}

// EstimateDeployFee estimates the deployment transaction, factory deps
// included, and prices it at the current gas price
func (c *Client) EstimateDeployFee(ctx context.Context, from common.Address, d *models.PreparedDeployment) (*models.FeeEstimate, error) {
	if c.node == nil {
		return nil, domain.ErrNotConnected
	}

	call, err := newDeployCall(from, d)
	if err != nil {
		return nil, err
	}

	gas, err := c.node.EstimateDeployGas(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("failed to estimate gas: %w", err)
	}

	gasPrice, err := c.node.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get gas price: %w", err)
	}

	fee := new(big.Int).Mul(new(big.Int).SetUint64(gas), gasPrice)
	c.log.Debug("estimated deployment",
		"contract", d.Contract.Name,
		"gas", gas,
		"gasPrice", gasPrice.String(),
		"factoryDeps", len(call.FactoryDeps),
		"fee", fee.String())

	return &models.FeeEstimate{GasLimit: gas, GasPrice: gasPrice, Fee: fee}, nil
}

// Deploy submits the deployment and blocks until it is mined. Failures after
// submission carry the transaction hash.
func (c *Client) Deploy(ctx context.Context, key *ecdsa.PrivateKey, d *models.PreparedDeployment) (*models.DeploymentResult, error) {
	if c.node == nil {
		return nil, domain.ErrNotConnected
	}

	call, err := newDeployCall(crypto.PubkeyToAddress(key.PublicKey), d)
	if err != nil {
		return nil, err
	}

	txHash, err := c.node.DeployWithCreate(ctx, key, call)
	if err != nil {
		return nil, fmt.Errorf("failed to submit deployment: %w", err)
	}
	c.log.Debug("deployment submitted", "contract", d.Contract.Name, "tx", txHash.Hex())

	receipt, err := c.node.WaitMined(ctx, txHash)
	if err != nil {
		return nil, &domain.DeploymentError{TxHash: txHash.Hex(), Err: fmt.Errorf("waiting for confirmation: %w", err)}
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, &domain.DeploymentError{TxHash: txHash.Hex(), Err: domain.ErrTransactionReverted}
	}

	address, ok := deployedAddress(receipt, call.BytecodeHash)
	if !ok {
		return nil, &domain.DeploymentError{TxHash: txHash.Hex(), Err: errors.New("receipt has no ContractDeployed event")}
	}

	code, err := c.node.CodeAt(ctx, address, receipt.BlockNumber)
	if err != nil {
		return nil, &domain.DeploymentError{TxHash: txHash.Hex(), Err: fmt.Errorf("failed to check code: %w", err)}
	}
	if len(code) == 0 {
		return nil, &domain.DeploymentError{TxHash: txHash.Hex(), Err: errors.New("no code at deployed address")}
	}

	return &models.DeploymentResult{
		Address:     address,
		TxHash:      txHash,
		BlockNumber: receipt.BlockNumber.Uint64(),
		GasUsed:     receipt.GasUsed,
	}, nil
}

// Close releases the current connection
func (c *Client) Close() {
	if c.node != nil {
		c.node.Close()
		c.node = nil
	}
}

// newDeployCall hashes the bytecode and builds the ContractDeployer.create
// input. Bytecode that is not valid EraVM bytecode fails here.
func newDeployCall(from common.Address, d *models.PreparedDeployment) (*DeployCall, error) {
	hash, err := utils.HashBytecode(d.Bytecode)
	if err != nil {
		return nil, fmt.Errorf("bytecode of %s is not zkSync bytecode (compile with zksolc): %w", d.Contract.Name, err)
	}

	var salt, bytecodeHash [32]byte
	copy(bytecodeHash[:], hash)

	input, err := deployerABI.Pack("create", salt, bytecodeHash, d.EncodedArgs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode ContractDeployer call: %w", err)
	}

	return &DeployCall{
		From:         from,
		Value:        d.Value(),
		Bytecode:     d.Bytecode,
		BytecodeHash: common.Hash(bytecodeHash),
		Calldata:     d.EncodedArgs,
		Input:        input,
		FactoryDeps:  d.FactoryDeps,
	}, nil
}

// deployedAddress finds the ContractDeployed event of the deployed bytecode.
// Constructors may deploy further contracts, so the bytecode hash is matched.
func deployedAddress(receipt *types.Receipt, bytecodeHash common.Hash) (common.Address, bool) {
	for _, log := range receipt.Logs {
		if log.Address != utils.ContractDeployerAddress || len(log.Topics) != 4 {
			continue
		}
		if log.Topics[0] == contractDeployedTopic && log.Topics[2] == bytecodeHash {
			return common.BytesToAddress(log.Topics[3].Bytes()), true
		}
	}
	if receipt.ContractAddress != (common.Address{}) {
		return receipt.ContractAddress, true
	}
	return common.Address{}, false
}

// Ensure the client implements the port
var _ usecase.ChainClient = (*Client)(nil)
