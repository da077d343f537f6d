//go:build wireinject
// +build wireinject

package main

import (
	"log/slog"

	"github.com/google/wire"

	"github.com/AnshBhanushali/Healytics/internal/bootstrap"
	"github.com/AnshBhanushali/Healytics/internal/domain/assessment"
	"github.com/AnshBhanushali/Healytics/internal/infra/analyzer"
	httpiface "github.com/AnshBhanushali/Healytics/internal/interface/http"
)

func initializeApp(logger *slog.Logger) (*bootstrap.App, error) {
	wire.Build(
		provideConfig,
		provideEngineConfig,
		provideAnalyzerClient,
		provideRepository,
		provideStore,
		provideObjectStorage,
		wire.Bind(new(assessment.Analyzer), new(*analyzer.Client)),
		assessment.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
