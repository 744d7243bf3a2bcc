//go:build wireinject
// +build wireinject

package di

import (
	"github.com/sudz7/n50-swing-algo/pkg/config"
	"github.com/sudz7/n50-swing-algo/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure
		ProvideHistoryCache,
		ProvideMarketData,
		ProvideKafkaSink,

		// Core
		ProvideGenerator,
		ProvideHub,
		ProvideCoordinator,

		// Transport
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
