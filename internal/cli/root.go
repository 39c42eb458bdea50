package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/zkcult/stakedeploy/internal/app"
	"github.com/zkcult/stakedeploy/internal/config"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// commands that run without a wired app
var standaloneCommands = map[string]bool{
	"version":     true,
	"help":        true,
	"completion":  true,
	"externalize": true,
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "stakedeploy",
		Short: "Deploy the zkCult staking pool and factory contracts",
		Long: `stakedeploy estimates and deploys the zkCult staking pool and staking
factory contracts from compiled build artifacts.

Networks are configured in stakedeploy.toml, the deployment plan in deploy.yaml.
The signing key is read from DEPLOYER_PRIVATE_KEY (environment or .env).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if standaloneCommands[cmd.Name()] {
				return nil
			}

			projectRoot, err := resolveProjectRoot(cmd)
			if err != nil {
				return err
			}

			v := config.SetupViper(projectRoot, cmd)

			appInstance, err := app.InitApp(v)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)

			if appInstance.Config.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				cmd.PostRun = func(cmd *cobra.Command, args []string) {
					cancel()
				}
			}

			cmd.SetContext(ctx)
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network to use (defined in stakedeploy.toml [networks])")
	rootCmd.PersistentFlags().String("config", "", "Path to stakedeploy.toml or its directory (default: search upwards)")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	deployCmd := NewDeployCmd()
	deployCmd.GroupID = "main"
	rootCmd.AddCommand(deployCmd)

	estimateCmd := NewEstimateCmd()
	estimateCmd.GroupID = "main"
	rootCmd.AddCommand(estimateCmd)

	artifactsCmd := NewArtifactsCmd()
	artifactsCmd.GroupID = "management"
	rootCmd.AddCommand(artifactsCmd)

	networksCmd := NewNetworksCmd()
	networksCmd.GroupID = "management"
	rootCmd.AddCommand(networksCmd)

	configCmd := NewConfigCmd()
	configCmd.GroupID = "management"
	rootCmd.AddCommand(configCmd)

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// resolveProjectRoot honours --config, otherwise searches upwards for stakedeploy.toml
func resolveProjectRoot(cmd *cobra.Command) (string, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return config.FindProjectRoot()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("invalid --config: %w", err)
	}
	if info.IsDir() {
		return abs, nil
	}
	if filepath.Base(abs) != config.ProjectFileName {
		return "", fmt.Errorf("invalid --config: expected a %s file, got %s", config.ProjectFileName, filepath.Base(abs))
	}
	return filepath.Dir(abs), nil
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	a, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return a, nil
}
