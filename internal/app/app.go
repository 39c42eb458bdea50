package app

import (
	"log/slog"

	"github.com/zkcult/stakedeploy/internal/domain/config"
	"github.com/zkcult/stakedeploy/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Logger *slog.Logger

	// Use cases
	RunDeployment *usecase.RunDeployment
	ListNetworks  *usecase.ListNetworks
	ListArtifacts *usecase.ListArtifacts
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	logger *slog.Logger,
	runDeployment *usecase.RunDeployment,
	listNetworks *usecase.ListNetworks,
	listArtifacts *usecase.ListArtifacts,
) (*App, error) {
	return &App{
		Config:        cfg,
		Logger:        logger,
		RunDeployment: runDeployment,
		ListNetworks:  listNetworks,
		ListArtifacts: listArtifacts,
	}, nil
}
