package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/zkcult/stakedeploy/internal/cli/render"
	"github.com/zkcult/stakedeploy/internal/config"
	"github.com/zkcult/stakedeploy/internal/usecase"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Estimate fees and deploy every contract of the plan",
		Long: `Deploy the contracts listed in the deployment plan (deploy.yaml by default).

Artifacts are resolved first, then the fee of each deployment is estimated and,
after confirmation, the contracts are deployed one after another in plan order.
Each deployment waits for its transaction to be mined. The first failure stops
the run; nothing is retried.

Examples:
  # Deploy to the network configured as default_network
  stakedeploy deploy

  # Deploy to a named network without prompting
  stakedeploy deploy --network zkSyncTestnet --non-interactive

  # Show fees and encoded constructor arguments only
  stakedeploy deploy --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, false)
		},
	}

	addPlanFlags(cmd)
	cmd.Flags().Bool("dry-run", false, "Estimate fees without broadcasting")

	return cmd
}

// NewEstimateCmd creates the estimate command
func NewEstimateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate deployment fees without broadcasting",
		Long: `Estimate the deployment fee of every contract in the plan and print the
ABI-encoded constructor arguments. No transaction is sent.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, true)
		},
	}

	addPlanFlags(cmd)

	return cmd
}

func addPlanFlags(cmd *cobra.Command) {
	cmd.Flags().String("plan", "", "Deployment plan file (default: deploy.yaml)")
	cmd.Flags().String("artifacts", "", "Build output directory (default: artifacts-zk, artifacts or out)")
	cmd.Flags().Bool("json", false, "Output the report as JSON")
}

func runPlan(cmd *cobra.Command, estimateOnly bool) error {
	app, err := getApp(cmd)
	if err != nil {
		return err
	}

	requests, err := config.LoadPlan(app.Config.PlanFile)
	if err != nil {
		return err
	}

	dryRun := estimateOnly || app.Config.DryRun
	if !app.Config.JSON && app.Config.Network != nil {
		verb := "Deploying"
		if dryRun {
			verb = "Estimating"
		}
		color.New(color.Bold).Fprintf(cmd.OutOrStdout(), "%s %d contract(s) on %s\n", verb, len(requests), app.Config.Network.Name)
	}

	report, err := app.RunDeployment.Run(cmd.Context(), usecase.RunDeploymentParams{
		Requests: requests,
		DryRun:   dryRun,
	})
	if err != nil {
		return err
	}

	renderer := render.NewDeployRenderer(cmd.OutOrStdout(), app.Config.JSON)
	if err := renderer.Render(report); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}
