package cli

import (
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/zkcult/stakedeploy/internal/cli/render"
	"github.com/zkcult/stakedeploy/internal/config"
)

// NewConfigCmd creates the config command
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and clean up stakedeploy.toml",
		Long: `Show the resolved configuration or move hardcoded secrets out of
stakedeploy.toml into .env.`,
	}

	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigExternalizeCmd())

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the resolved configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			return render.NewConfigRenderer(cmd.OutOrStdout()).RenderConfig(app.Config)
		},
	}
}

func newConfigExternalizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "externalize",
		Short: "Move hardcoded keys and RPC URLs to .env",
		Long: `Replace literal private keys and RPC URLs in stakedeploy.toml with ${VAR}
references and append the values to .env.

Make sure .env is listed in .gitignore.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			projectRoot, err := resolveProjectRoot(cmd)
			if err != nil {
				return err
			}

			secrets, err := config.FindHardcodedSecrets(projectRoot)
			if err != nil {
				return err
			}

			renderer := render.NewConfigRenderer(cmd.OutOrStdout())
			renderer.RenderSecrets(secrets)
			if len(secrets) == 0 {
				return nil
			}

			yes, _ := cmd.Flags().GetBool("yes")
			nonInteractive, _ := cmd.Flags().GetBool("non-interactive")
			if !yes {
				if nonInteractive {
					return fmt.Errorf("refusing to rewrite %s without --yes in non-interactive mode", config.ProjectFileName)
				}
				if !confirmPrompt(fmt.Sprintf("Move these values to .env and rewrite %s?", config.ProjectFileName)) {
					fmt.Fprintln(cmd.OutOrStdout(), "Externalize cancelled.")
					return nil
				}
			}

			for _, secret := range secrets {
				if err := config.ExternalizeSecret(projectRoot, secret); err != nil {
					return err
				}
				renderer.RenderExternalized(secret)
			}
			return nil
		},
	}

	cmd.Flags().BoolP("yes", "y", false, "Skip confirmation")

	return cmd
}

func confirmPrompt(label string) bool {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}

	_, err := prompt.Run()
	return err == nil
}
