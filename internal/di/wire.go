//go:build wireinject
// +build wireinject

package di

import (
	"FinSight/pkg/config"
	"FinSight/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideResponseCache,
		ProvidePredictionCache,

		// Repositories
		ProvideBarStore,
		ProvideNewsStore,
		ProvideAlertPublisher,

		// Engines
		ProvideTechnicalEngine,
		ProvideSentimentScorer,
		ProvideRiskEngine,
		ProvidePredictionEngine,

		// Use cases
		ProvideAnalytics,
		ProvideHub,
		ProvideAlertScanner,
		ProvideNewsIngestHandler,

		// HTTP and application server
		ProvideAnalyticsHandler,
		ProvideHTTPServer,
		ProvideApp,
	)
	return &server.App{}, nil
}
