package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/zkcult/stakedeploy/internal/domain/config"
)

// ProjectFileName is the project configuration file looked up from the working directory
const ProjectFileName = "stakedeploy.toml"

// DefaultPrivateKeyEnv is read when the project file does not configure a sender key
const DefaultPrivateKeyEnv = "DEPLOYER_PRIVATE_KEY"

// loadEnvFiles loads .env files for variable expansion. Variables already set
// in the process environment take precedence.
func loadEnvFiles(projectRoot string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				// Log warning but don't fail
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}

// LoadRawProjectConfig decodes stakedeploy.toml without expanding ${VAR} references.
// A missing file yields an empty configuration.
func LoadRawProjectConfig(projectRoot string) (*config.ProjectConfig, error) {
	cfg := &config.ProjectConfig{
		Networks: make(map[string]config.NetworkConfig),
	}

	path := filepath.Join(projectRoot, ProjectFileName)
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to parse %s: %w", ProjectFileName, err)
	}
	if cfg.Networks == nil {
		cfg.Networks = make(map[string]config.NetworkConfig)
	}

	return cfg, nil
}

// resolveSender expands the configured private key, falling back to DEPLOYER_PRIVATE_KEY
func resolveSender(raw config.SenderConfig, override string) config.SenderConfig {
	if override != "" {
		return config.SenderConfig{PrivateKey: override}
	}
	if raw.PrivateKey != "" {
		return config.SenderConfig{PrivateKey: os.ExpandEnv(raw.PrivateKey)}
	}
	return config.SenderConfig{PrivateKey: os.Getenv(DefaultPrivateKeyEnv)}
}

// hasHardcodedKey reports whether the project file stores a literal private key
func hasHardcodedKey(raw config.SenderConfig) bool {
	if raw.PrivateKey == "" {
		return false
	}
	_, isVar := DetectEnvVar(raw.PrivateKey)
	return !isVar
}
