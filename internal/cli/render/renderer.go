package render

import "github.com/zkcult/stakedeploy/internal/domain/models"

type Renderer[T any] interface {
	Render(result T) error
}

var _ Renderer[*models.DeploymentReport] = (*DeployRenderer)(nil)
