package config

import (
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/zkcult/stakedeploy/internal/domain"
	"github.com/zkcult/stakedeploy/internal/domain/config"
	"github.com/zkcult/stakedeploy/internal/domain/models"
	"github.com/zkcult/stakedeploy/pkg/units"
	"gopkg.in/yaml.v3"
)

// LoadPlan reads a deployment plan file and converts it to deployment requests
func LoadPlan(path string) ([]*models.DeploymentRequest, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user supplied plan path
	if err != nil {
		return nil, fmt.Errorf("failed to read deployment plan: %w", err)
	}
	return ParsePlan(data)
}

// ParsePlan decodes a YAML deployment plan
func ParsePlan(data []byte) ([]*models.DeploymentRequest, error) {
	var plan config.PlanFile
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse deployment plan: %w", err)
	}

	if len(plan.Deployments) == 0 {
		return nil, domain.ErrEmptyPlan
	}

	seen := make(map[string]bool)
	requests := make([]*models.DeploymentRequest, 0, len(plan.Deployments))
	for i, entry := range plan.Deployments {
		if strings.TrimSpace(entry.Artifact) == "" {
			return nil, fmt.Errorf("deployment #%d: artifact is required", i+1)
		}

		name := entry.Name
		if name == "" {
			name = entry.Artifact
		}
		if seen[name] {
			return nil, fmt.Errorf("deployment #%d: duplicate name %q", i+1, name)
		}
		seen[name] = true

		value, err := parseValue(entry.Value)
		if err != nil {
			return nil, fmt.Errorf("deployment %s: %w", name, err)
		}

		args := entry.Args
		if args == nil {
			args = []any{}
		}

		requests = append(requests, &models.DeploymentRequest{
			Name:     name,
			Artifact: entry.Artifact,
			Args:     args,
			Value:    value,
		})
	}

	return requests, nil
}

// parseValue parses the native value of a deployment. Bare integers are wei.
func parseValue(raw string) (*big.Int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if _, _, ok := units.SplitAmount(raw); ok {
		v, err := units.ParseAmount(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q: %w", raw, err)
		}
		if v.Sign() < 0 {
			return nil, fmt.Errorf("invalid value %q: must not be negative", raw)
		}
		return v, nil
	}
	v, ok := new(big.Int).SetString(raw, 10)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("invalid value %q", raw)
	}
	return v, nil
}
