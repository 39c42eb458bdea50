package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/samber/lo"
	"github.com/zkcult/stakedeploy/internal/domain"
	"github.com/zkcult/stakedeploy/internal/domain/config"
	"github.com/zkcult/stakedeploy/internal/domain/models"
	"github.com/zkcult/stakedeploy/pkg/units"
)

// RunDeployment estimates and deploys the contracts of a deployment plan,
// strictly in plan order
type RunDeployment struct {
	config    *config.RuntimeConfig
	artifacts ArtifactRepository
	encoder   ArgumentEncoder
	chain     ChainClient
	confirmer Confirmer
	progress  ProgressSink
	log       *slog.Logger
}

// NewRunDeployment creates a new RunDeployment use case
func NewRunDeployment(
	cfg *config.RuntimeConfig,
	artifacts ArtifactRepository,
	encoder ArgumentEncoder,
	chain ChainClient,
	confirmer Confirmer,
	progress ProgressSink,
	log *slog.Logger,
) *RunDeployment {
	return &RunDeployment{
		config:    cfg,
		artifacts: artifacts,
		encoder:   encoder,
		chain:     chain,
		confirmer: confirmer,
		progress:  progress,
		log:       log,
	}
}

// RunDeploymentParams contains parameters for a deployment run
type RunDeploymentParams struct {
	Requests []*models.DeploymentRequest
	DryRun   bool // estimate only
}

// Run executes the deployment plan. Artifacts and the signing key are resolved
// before any network call; the first failure aborts the run without retry.
func (uc *RunDeployment) Run(ctx context.Context, params RunDeploymentParams) (_ *models.DeploymentReport, err error) {
	if len(params.Requests) == 0 {
		return nil, domain.ErrEmptyPlan
	}
	network := uc.config.Network
	if network == nil {
		return nil, domain.ErrNoNetwork
	}
	total := len(params.Requests)

	stage := StageResolving
	defer func() {
		if err != nil && !errors.Is(err, domain.ErrDeploymentCancelled) {
			uc.progress.Error(fmt.Sprintf("%s failed", stage))
		}
	}()

	// Step 1: resolve every artifact up front
	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageResolving, Total: total, Message: "Resolving artifacts", Spinner: true})
	contracts := make([]*models.Contract, total)
	factoryDeps := make([][][]byte, total)
	for i, request := range params.Requests {
		contract, err := uc.artifacts.GetArtifact(ctx, request.Artifact)
		if err != nil {
			return nil, err
		}
		uc.log.Debug("resolved artifact", "deployment", request.Name, "artifact", contract.Key(), "path", contract.ArtifactPath)
		contracts[i] = contract

		if factoryDeps[i], err = uc.resolveFactoryDeps(ctx, contract); err != nil {
			return nil, err
		}
	}

	key, err := uc.config.Sender.Key()
	if err != nil {
		return nil, fmt.Errorf("cannot sign deployments: %w", err)
	}
	deployer := crypto.PubkeyToAddress(key.PublicKey)

	// Step 2: encode constructor arguments and estimate fees
	stage = StageEstimating
	prepared := make([]*models.PreparedDeployment, total)
	for i, request := range params.Requests {
		p, err := uc.encoder.Prepare(ctx, contracts[i], request)
		if err != nil {
			return nil, &domain.EstimationError{Deployment: request.Name, Contract: contracts[i].Name, Err: err}
		}
		p.FactoryDeps = factoryDeps[i]
		prepared[i] = p
	}

	chainID, err := uc.chain.Connect(ctx, network)
	if err != nil {
		return nil, &domain.EstimationError{
			Deployment: params.Requests[0].Name,
			Contract:   contracts[0].Name,
			Err:        fmt.Errorf("network %s unreachable: %w", network.Name, err),
		}
	}
	defer uc.chain.Close()

	resolved := *network
	resolved.ChainID = chainID
	report := &models.DeploymentReport{
		Network:  &resolved,
		Deployer: deployer,
		DryRun:   params.DryRun,
		Entries:  make([]*models.DeploymentEntry, 0, total),
	}
	uc.log.Debug("connected", "network", network.Name, "chainId", chainID, "deployer", deployer.Hex())

	for i, p := range prepared {
		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   StageEstimating,
			Current: i + 1,
			Total:   total,
			Message: fmt.Sprintf("Estimating %s deployment", p.Request.Name),
			Spinner: true,
		})

		estimate, err := uc.chain.EstimateDeployFee(ctx, deployer, p)
		if err != nil {
			return nil, &domain.EstimationError{Deployment: p.Request.Name, Contract: p.Contract.Name, Err: err}
		}

		report.Entries = append(report.Entries, &models.DeploymentEntry{
			Name:         p.Request.Name,
			ContractName: p.Contract.Name,
			Estimate:     estimate,
			EncodedArgs:  p.EncodedArgs,
		})
		uc.progress.Info(fmt.Sprintf("The %s deployment estimated: %s %s",
			p.Request.Name, units.FormatEther(estimate.Fee), resolved.Currency))
	}

	if params.DryRun {
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageCompleted, Total: total, Message: "Estimation complete"})
		return report, nil
	}

	// The prompt needs the terminal to itself
	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageEstimating, Total: total, Message: "Estimates ready"})

	ok, err := uc.confirmer.Confirm(ctx, fmt.Sprintf("Deploy %d contract(s) to %s for about %s %s",
		total, resolved.Name, units.FormatEther(report.TotalEstimatedFee()), resolved.Currency))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrDeploymentCancelled
	}

	// Step 3: deploy sequentially, stopping at the first failure
	stage = StageDeploying
	for i, p := range prepared {
		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   StageDeploying,
			Current: i + 1,
			Total:   total,
			Message: fmt.Sprintf("Deploying %s (%s)", p.Request.Name, p.Contract.Name),
			Spinner: true,
		})

		result, err := uc.chain.Deploy(ctx, key, p)
		if err != nil {
			var deployErr *domain.DeploymentError
			if errors.As(err, &deployErr) {
				deployErr.Deployment = p.Request.Name
				deployErr.Contract = p.Contract.Name
				return nil, deployErr
			}
			return nil, &domain.DeploymentError{Deployment: p.Request.Name, Contract: p.Contract.Name, Err: err}
		}

		report.Entries[i].Result = result
		uc.progress.Info(fmt.Sprintf("%s was deployed to %s", p.Contract.Name, result.Address.Hex()))
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageCompleted, Total: total, Message: "Deployment complete"})
	return report, nil
}

// resolveFactoryDeps collects the creation code of every contract the
// constructor of contract can deploy, transitively. zkSync requires these to
// be published with the deployment.
func (uc *RunDeployment) resolveFactoryDeps(ctx context.Context, contract *models.Contract) ([][]byte, error) {
	var deps [][]byte
	seen := map[string]bool{contract.Key(): true}
	queue := []*models.Contract{contract}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current.Artifact == nil {
			continue
		}

		refs := lo.Values(current.Artifact.FactoryDeps)
		slices.Sort(refs)
		for _, ref := range refs {
			if seen[ref] {
				continue
			}
			seen[ref] = true

			dep, err := uc.artifacts.GetArtifact(ctx, ref)
			if err != nil {
				return nil, fmt.Errorf("factory dependency of %s: %w", current.Name, err)
			}
			if key := dep.Key(); key != ref {
				if seen[key] {
					continue
				}
				seen[key] = true
			}
			if dep.Artifact == nil {
				return nil, fmt.Errorf("factory dependency %s of %s has no artifact", ref, current.Name)
			}

			code, err := dep.Artifact.CreationCode()
			if err != nil {
				return nil, fmt.Errorf("factory dependency of %s: %w", current.Name, err)
			}
			uc.log.Debug("resolved factory dependency", "contract", current.Key(), "dependency", dep.Key())
			deps = append(deps, code)
			queue = append(queue, dep)
		}
	}
	return deps, nil
}
