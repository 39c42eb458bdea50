package models

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/zkcult/stakedeploy/internal/domain/config"
)

// DeploymentRequest is one entry of a deployment plan: an artifact reference
// plus the ordered constructor arguments it is deployed with
type DeploymentRequest struct {
	Name     string   // plan label, e.g. "pool"
	Artifact string   // contract name or "source:name"
	Args     []any    // raw values, coerced against the constructor ABI
	Value    *big.Int // native amount sent with the creation tx, nil for none
}

// PreparedDeployment is a request bound to its artifact with arguments encoded
type PreparedDeployment struct {
	Request     *DeploymentRequest
	Contract    *Contract
	ABI         *abi.ABI
	Bytecode    []byte
	Args        []any    // typed values matching the constructor inputs
	EncodedArgs []byte   // ABI-encoded constructor payload, without bytecode
	FactoryDeps [][]byte // bytecode of contracts the constructor deploys (zkSync)
}

// Data returns the full creation transaction input
func (p *PreparedDeployment) Data() []byte {
	data := make([]byte, 0, len(p.Bytecode)+len(p.EncodedArgs))
	data = append(data, p.Bytecode...)
	return append(data, p.EncodedArgs...)
}

// Value returns the native value to send, never nil
func (p *PreparedDeployment) Value() *big.Int {
	if p.Request == nil || p.Request.Value == nil {
		return new(big.Int)
	}
	return p.Request.Value
}

// FeeEstimate is the predicted cost of a deployment in smallest units
type FeeEstimate struct {
	GasLimit uint64
	GasPrice *big.Int
	Fee      *big.Int
}

// DeploymentResult describes a confirmed deployment
type DeploymentResult struct {
	Address     common.Address
	TxHash      common.Hash
	BlockNumber uint64
	GasUsed     uint64
}

// DeploymentEntry groups everything reported for one plan entry
type DeploymentEntry struct {
	Name         string
	ContractName string
	Estimate     *FeeEstimate
	EncodedArgs  []byte
	Result       *DeploymentResult // nil until deployed
}

// DeploymentReport is the outcome of a deployment run
type DeploymentReport struct {
	Network  *config.Network
	Deployer common.Address
	DryRun   bool
	Entries  []*DeploymentEntry
}

// TotalEstimatedFee sums the fee estimates of all entries
func (r *DeploymentReport) TotalEstimatedFee() *big.Int {
	total := new(big.Int)
	for _, entry := range r.Entries {
		if entry.Estimate != nil && entry.Estimate.Fee != nil {
			total.Add(total, entry.Estimate.Fee)
		}
	}
	return total
}
