package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Contract represents a compiled contract discovered in the build output
type Contract struct {
	Name         string    `json:"name"`
	SourceName   string    `json:"sourceName,omitempty"`
	ArtifactPath string    `json:"artifactPath"`
	Artifact     *Artifact `json:"artifact,omitempty"`
}

// Key returns the fully qualified "source:name" reference of the contract
func (c *Contract) Key() string {
	if c.SourceName == "" {
		return c.Name
	}
	return c.SourceName + ":" + c.Name
}

// Bytecode holds creation bytecode as a hex string. Hardhat/zksolc artifacts
// store it as a plain string, Foundry artifacts as {"object": "0x..."}.
type Bytecode string

func (b *Bytecode) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*b = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*b = Bytecode(s)
		return nil
	}
	var obj struct {
		Object string `json:"object"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("unsupported bytecode format: %w", err)
	}
	*b = Bytecode(obj.Object)
	return nil
}

// Artifact represents a compilation artifact as written by the build step
type Artifact struct {
	Format       string            `json:"_format,omitempty"`
	ContractName string            `json:"contractName,omitempty"`
	SourceName   string            `json:"sourceName,omitempty"`
	ABI          json.RawMessage   `json:"abi"`
	Bytecode     Bytecode          `json:"bytecode"`
	FactoryDeps  map[string]string `json:"factoryDeps,omitempty"`
}

// ParsedABI parses the artifact ABI
func (a *Artifact) ParsedABI() (*abi.ABI, error) {
	if len(a.ABI) == 0 {
		return nil, fmt.Errorf("artifact %s has no ABI", a.ContractName)
	}
	parsed, err := abi.JSON(bytes.NewReader(a.ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI of %s: %w", a.ContractName, err)
	}
	return &parsed, nil
}

// CreationCode decodes the creation bytecode. Abstract contracts and
// interfaces have empty bytecode and cannot be deployed.
func (a *Artifact) CreationCode() ([]byte, error) {
	code := strings.TrimSpace(string(a.Bytecode))
	if code == "" || code == "0x" {
		return nil, fmt.Errorf("artifact %s has no creation bytecode (abstract contract or interface?)", a.ContractName)
	}
	if strings.Contains(code, "__") {
		return nil, fmt.Errorf("artifact %s has unlinked library references", a.ContractName)
	}
	if !strings.HasPrefix(code, "0x") {
		code = "0x" + code
	}
	decoded, err := hexutil.Decode(code)
	if err != nil {
		return nil, fmt.Errorf("invalid bytecode in artifact %s: %w", a.ContractName, err)
	}
	return decoded, nil
}
