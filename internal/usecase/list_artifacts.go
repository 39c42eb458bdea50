package usecase

import (
	"context"
	"sort"
	"strings"

	"github.com/zkcult/stakedeploy/internal/domain/config"
	"github.com/zkcult/stakedeploy/internal/domain/models"
)

// ListArtifactsParams contains parameters for listing artifacts
type ListArtifactsParams struct {
	Filter string // case-insensitive substring of the contract name
}

// ListArtifactsResult contains the deployable artifacts of the build output
type ListArtifactsResult struct {
	BuildDir  string
	Artifacts []*models.Contract
}

// ListArtifacts lists compiled contracts that can be referenced in a plan
type ListArtifacts struct {
	repo     ArtifactRepository
	buildDir string
}

// NewListArtifacts creates a new ListArtifacts use case
func NewListArtifacts(repo ArtifactRepository, cfg *config.RuntimeConfig) *ListArtifacts {
	return &ListArtifacts{repo: repo, buildDir: cfg.ArtifactsDir}
}

// Run executes the use case
func (uc *ListArtifacts) Run(ctx context.Context, params ListArtifactsParams) (*ListArtifactsResult, error) {
	all, err := uc.repo.ListArtifacts(ctx)
	if err != nil {
		return nil, err
	}

	filter := strings.ToLower(params.Filter)
	artifacts := make([]*models.Contract, 0, len(all))
	for _, contract := range all {
		if filter != "" && !strings.Contains(strings.ToLower(contract.Name), filter) {
			continue
		}
		artifacts = append(artifacts, contract)
	}

	sort.Slice(artifacts, func(i, j int) bool {
		if artifacts[i].Name != artifacts[j].Name {
			return artifacts[i].Name < artifacts[j].Name
		}
		return artifacts[i].SourceName < artifacts[j].SourceName
	})

	return &ListArtifactsResult{BuildDir: uc.buildDir, Artifacts: artifacts}, nil
}
