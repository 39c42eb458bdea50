//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/zkcult/stakedeploy/internal/adapters"
	"github.com/zkcult/stakedeploy/internal/config"
	"github.com/zkcult/stakedeploy/internal/logging"
	"github.com/zkcult/stakedeploy/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewRunDeployment,
		usecase.NewListNetworks,
		usecase.NewListArtifacts,

		// App
		NewApp,
	)
	return nil, nil
}
