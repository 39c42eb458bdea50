package blockchain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/zkcult/stakedeploy/internal/domain"
	"github.com/zkcult/stakedeploy/internal/domain/config"
	"github.com/zkcult/stakedeploy/internal/domain/models"
	"github.com/zkcult/stakedeploy/internal/usecase"
)

// Backend is the node API used for deployments
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
}

// Dialer opens a Backend for an RPC endpoint
type Dialer func(ctx context.Context, rpcURL string) (Backend, error)

// DialEthClient dials a JSON-RPC endpoint with ethclient
func DialEthClient(ctx context.Context, rpcURL string) (Backend, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Client implements chain access for fee estimation and deployment
type Client struct {
	dial    Dialer
	log     *slog.Logger
	backend Backend
	chainID *big.Int
}

// NewClient creates a new chain client
func NewClient(log *slog.Logger) *Client {
	return NewClientWithDialer(DialEthClient, log)
}

// NewClientWithDialer creates a chain client that opens backends with dial
func NewClientWithDialer(dial Dialer, log *slog.Logger) *Client {
	return &Client{dial: dial, log: log.With("component", "chain")}
}

// Connect establishes connection to the network and verifies its chain ID
func (c *Client) Connect(ctx context.Context, network *config.Network) (uint64, error) {
	if network.RPCURL == "" {
		return 0, fmt.Errorf("network %s has no RPC URL", network.Name)
	}

	backend, err := c.dial(ctx, network.RPCURL)
	if err != nil {
		return 0, fmt.Errorf("failed to connect to RPC: %w", err)
	}

	chainID, err := backend.ChainID(ctx)
	if err != nil {
		closeBackend(backend)
		return 0, fmt.Errorf("failed to get chain ID: %w", err)
	}

	// Chain ID 0 means "whatever the endpoint serves"
	if network.ChainID != 0 && chainID.Uint64() != network.ChainID {
		closeBackend(backend)
		return 0, &domain.ChainIDMismatchError{Expected: network.ChainID, Actual: chainID.Uint64()}
	}

	c.Close()
	c.backend = backend
	c.chainID = chainID

	c.log.Debug("connected", "network", network.Name, "chainId", chainID.Uint64())
	return chainID.Uint64(), nil
}

// EstimateDeployFee returns estimated gas times the current gas price
func (c *Client) EstimateDeployFee(ctx context.Context, from common.Address, d *models.PreparedDeployment) (*models.FeeEstimate, error) {
	if c.backend == nil {
		return nil, domain.ErrNotConnected
	}

	gas, err := c.backend.EstimateGas(ctx, ethereum.CallMsg{
		From:  from,
		Value: d.Value(),
		Data:  d.Data(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to estimate gas: %w", err)
	}

	gasPrice, err := c.backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get gas price: %w", err)
	}

	fee := new(big.Int).Mul(new(big.Int).SetUint64(gas), gasPrice)
	c.log.Debug("estimated deployment",
		"contract", d.Contract.Name,
		"gas", gas,
		"gasPrice", gasPrice.String(),
		"fee", fee.String())

	return &models.FeeEstimate{GasLimit: gas, GasPrice: gasPrice, Fee: fee}, nil
}

// Deploy signs and submits the creation transaction, then blocks until it is
// mined. Failures after submission carry the transaction hash.
func (c *Client) Deploy(ctx context.Context, key *ecdsa.PrivateKey, d *models.PreparedDeployment) (*models.DeploymentResult, error) {
	if c.backend == nil {
		return nil, domain.ErrNotConnected
	}
	if d.ABI == nil {
		return nil, fmt.Errorf("deployment %s has no parsed ABI", d.Contract.Name)
	}

	auth, err := bind.NewKeyedTransactorWithChainID(key, c.chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	auth.Context = ctx
	auth.Value = d.Value()

	address, tx, _, err := bind.DeployContract(auth, *d.ABI, d.Bytecode, c.backend, d.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to submit deployment: %w", err)
	}
	txHash := tx.Hash()
	c.log.Debug("deployment submitted", "contract", d.Contract.Name, "tx", txHash.Hex(), "address", address.Hex())

	receipt, err := bind.WaitMined(ctx, c.backend, tx)
	if err != nil {
		return nil, &domain.DeploymentError{TxHash: txHash.Hex(), Err: fmt.Errorf("waiting for confirmation: %w", err)}
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, &domain.DeploymentError{TxHash: txHash.Hex(), Err: domain.ErrTransactionReverted}
	}

	code, err := c.backend.CodeAt(ctx, address, receipt.BlockNumber)
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

// FetchChainID dials rpcURL and reads its chain ID
func (c *Client) FetchChainID(ctx context.Context, rpcURL string) (uint64, error) {
	backend, err := c.dial(ctx, rpcURL)
	if err != nil {
		return 0, fmt.Errorf("failed to connect to RPC: %w", err)
	}
	defer closeBackend(backend)

	chainID, err := backend.ChainID(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get chain ID: %w", err)
	}
	return chainID.Uint64(), nil
}

// Close releases the current connection
func (c *Client) Close() {
	if c.backend != nil {
		closeBackend(c.backend)
		c.backend = nil
	}
}

func closeBackend(backend Backend) {
	if closer, ok := backend.(interface{ Close() }); ok {
		closer.Close()
	}
}

// Ensure the client implements the interfaces
var (
	_ usecase.ChainClient    = (*Client)(nil)
	_ usecase.ChainIDFetcher = (*Client)(nil)
)
