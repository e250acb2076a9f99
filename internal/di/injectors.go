//go:build wireinject
// +build wireinject

package di

import (
	"adhan/internal"
	"adhan/internal/controllers"
	"adhan/internal/notify"
	"adhan/internal/providers"
	"adhan/internal/scheduler"
	"adhan/internal/services"
	"adhan/internal/store"
	"adhan/internal/structures"
	"adhan/internal/updater"

	wire "github.com/google/wire"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, func(), error) {

	wire.Build(
		providers.NewConfigProvider,
		provideLogger,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		store.NewResourceStore,
		services.NewConnectivityChecker,
		services.NewSettingsService,
		services.NewCatalogService,
		services.NewTimingsResolver,
		notify.NewTimingsDisplay,
		notify.NewStatusReader,
		services.NewTimingsService,

		provideFetcherIdentity,
		provideOnlineChecker,
		updater.NewHTTPFetcher,
		updater.NewExecRestarter,
		updater.NewEngine,

		provideNotificationSink,
		provideTimingsSource,
		provideSettingsSource,
		scheduler.NewEvaluator,
		scheduler.NewScheduler,

		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil, nil
}
