package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/zkcult/stakedeploy/internal/domain/config"
)

// artifactDirCandidates are probed in order when no build output is configured.
// artifacts-zk is written by the zksolc toolchain, artifacts by hardhat, out by forge.
var artifactDirCandidates = []string{"artifacts-zk", "artifacts", "out"}

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	// Get project root from viper
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
		JSON:           v.GetBool("json"),
		Timeout:        v.GetDuration("timeout"),
		DryRun:         v.GetBool("dry_run"),
	}

	// .env must be loaded before any ${VAR} expansion
	loadEnvFiles(projectRoot)

	projectConfig, err := LoadRawProjectConfig(projectRoot)
	if err != nil {
		return nil, err
	}
	cfg.ProjectConfig = projectConfig

	if hasHardcodedKey(projectConfig.Sender) {
		slog.Warn("private key is hardcoded in "+ProjectFileName+"; run `stakedeploy config externalize` to move it to .env",
			"file", filepath.Join(projectRoot, ProjectFileName))
	}
	cfg.Sender = resolveSender(projectConfig.Sender, v.GetString("private_key"))

	cfg.ArtifactsDir = resolveArtifactsDir(projectRoot, v.GetString("artifacts"))
	cfg.PlanFile = absPath(projectRoot, v.GetString("plan"))

	// Resolve network if specified, otherwise fall back to the default network
	networkName := v.GetString("network")
	if networkName == "" {
		networkName = v.GetString("default_network")
	}
	if networkName != "" {
		network, err := NewNetworkResolver(projectConfig).Resolve(networkName)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve network %s: %w", networkName, err)
		}
		cfg.Network = network
	}

	return cfg, nil
}

// resolveArtifactsDir returns the configured build output, or the first
// existing candidate directory
func resolveArtifactsDir(projectRoot, configured string) string {
	if configured != "" {
		return absPath(projectRoot, configured)
	}
	for _, candidate := range artifactDirCandidates {
		dir := filepath.Join(projectRoot, candidate)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return filepath.Join(projectRoot, artifactDirCandidates[0])
}

func absPath(projectRoot, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(projectRoot, path)
}

// FindProjectRoot walks up from current directory to find stakedeploy.toml
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, ProjectFileName)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root without finding the project file
			return "", fmt.Errorf("not in a stakedeploy project (%s not found)", ProjectFileName)
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// Scalar settings may live at the top level of the project file
	v.SetConfigName(strings.TrimSuffix(ProjectFileName, ".toml"))
	v.SetConfigType("toml")
	v.AddConfigPath(projectRoot)

	// Set up environment variables
	v.SetEnvPrefix("STAKEDEPLOY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults
	v.SetDefault("timeout", "10m")
	v.SetDefault("plan", "deploy.yaml")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("project_root", projectRoot)

	// Try to read config file (ignore error if not found)
	_ = v.ReadInConfig()

	if cmd != nil {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			if err := v.BindPFlag(key, f); err != nil {
				panic(err)
			}
		})
	}

	return v
}

// ProvideNetworkResolver creates a NetworkResolver for Wire dependency injection
func ProvideNetworkResolver(cfg *config.RuntimeConfig) *NetworkResolver {
	return NewNetworkResolver(cfg.ProjectConfig)
}
