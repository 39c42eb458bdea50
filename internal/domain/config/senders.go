package config

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/zkcult/stakedeploy/internal/domain"
)

// SenderConfig describes the account that signs deployment transactions
type SenderConfig struct {
	PrivateKey string `toml:"private_key,omitempty"`
}

// Key parses the configured private key
func (s SenderConfig) Key() (*ecdsa.PrivateKey, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(s.PrivateKey), "0x")
	if raw == "" {
		return nil, domain.ErrMissingCredential
	}
	key, err := crypto.HexToECDSA(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCredential, err)
	}
	return key, nil
}

// Address returns the account address of the configured key
func (s SenderConfig) Address() (common.Address, error) {
	key, err := s.Key()
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(key.PublicKey), nil
}
