package zksync

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/zksync-sdk/zksync2-go/accounts"
	"github.com/zksync-sdk/zksync2-go/clients"
	zktypes "github.com/zksync-sdk/zksync2-go/types"
	"github.com/zksync-sdk/zksync2-go/utils"
)

// defaultGasPerPubdata is the gas per pubdata byte limit used by the SDK for
// deployments
const defaultGasPerPubdata = 50_000

// sdkNode implements Node on top of the zksync2-go client
type sdkNode struct {
	client *clients.Client
}

// DialNode dials a zkSync Era JSON-RPC endpoint
func DialNode(ctx context.Context, rpcURL string) (Node, error) {
	client, err := clients.Dial(rpcURL)
	if err != nil {
		return nil, err
	}
	return &sdkNode{client: client}, nil
}

func (n *sdkNode) ChainID(ctx context.Context) (*big.Int, error) {
	return n.client.ChainID(ctx)
}

func (n *sdkNode) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return n.client.SuggestGasPrice(ctx)
}

// EstimateDeployGas asks zks_estimateFee for the EIP-712 deployment, sending
// the bytecode and its dependencies as factory deps
func (n *sdkNode) EstimateDeployGas(ctx context.Context, call *DeployCall) (uint64, error) {
	deps := make([]hexutil.Bytes, 0, len(call.FactoryDeps)+1)
	for _, dep := range call.FactoryDeps {
		deps = append(deps, dep)
	}
	deps = append(deps, call.Bytecode)

	fee, err := n.client.EstimateFee(ctx, zktypes.CallMsg{
		From:          call.From,
		To:            &utils.ContractDeployerAddress,
		Value:         call.Value,
		Data:          call.Input,
		GasPerPubdata: big.NewInt(defaultGasPerPubdata),
		FactoryDeps:   deps,
	})
	if err != nil {
		return 0, err
	}
	if fee == nil || fee.GasLimit == nil {
		return 0, fmt.Errorf("empty fee estimate")
	}
	return fee.GasLimit.ToInt().Uint64(), nil
}

// DeployWithCreate signs and sends the deployment with a wallet for key.
// The SDK appends the bytecode itself to the factory deps.
func (n *sdkNode) DeployWithCreate(ctx context.Context, key *ecdsa.PrivateKey, call *DeployCall) (common.Hash, error) {
	wallet, err := accounts.NewWallet(crypto.FromECDSA(key), n.client, nil)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to create wallet: %w", err)
	}

	return wallet.DeployWithCreate(&accounts.TransactOpts{
		Value:   call.Value,
		Context: ctx,
	}, accounts.CreateTransaction{
		Bytecode:     call.Bytecode,
		Calldata:     call.Calldata,
		Dependencies: call.FactoryDeps,
	})
}

func (n *sdkNode) WaitMined(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	receipt, err := n.client.WaitMined(ctx, txHash)
	if err != nil {
		return nil, err
	}
	return &receipt.Receipt, nil
}

func (n *sdkNode) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	return n.client.CodeAt(ctx, account, blockNumber)
}

func (n *sdkNode) Close() {
	n.client.Close()
}
