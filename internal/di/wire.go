//go:build wireinject
// +build wireinject

package di

import (
	"Mercado/pkg/config"
	"Mercado/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,
		ProvideCache,

		// External collaborators
		ProvideMarketData,
		ProvideClassifier,
		ProvideSnapshotPublisher,

		// Use cases
		ProvideRefresher,

		// HTTP
		ProvideChartHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
