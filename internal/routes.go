package internal

import (
	"adhan/internal/controllers"
	"adhan/internal/providers"
	"adhan/internal/structures"
	"net/http"
)

func InitRoutes(apiController *controllers.ApiController, healthController *controllers.HealthController, metrics providers.MetricsProviderInterface, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/health", http.HandlerFunc(healthController.Health))
	if conf.Metrics.Enabled {
		routers.Get("/metrics", metrics.Handler())
	}

	routers.Get("/timings", http.HandlerFunc(apiController.GetTimings))
	routers.Get("/catalog", http.HandlerFunc(apiController.GetCatalog))
	routers.Get("/theme", http.HandlerFunc(apiController.GetTheme))
	routers.Get("/status", http.HandlerFunc(apiController.GetStatus))
	routers.Get("/settings", http.HandlerFunc(apiController.GetSettings))
	routers.Post("/settings", http.HandlerFunc(apiController.UpdateSettings))
	routers.Post("/refresh", http.HandlerFunc(apiController.Refresh))
	routers.Post("/adhan/play", http.HandlerFunc(apiController.PlayAdhan))
	routers.Post("/adhan/stop", http.HandlerFunc(apiController.StopAdhan))
	routers.Post("/adhan/toggle", http.HandlerFunc(apiController.ToggleAdhan))
	return routers
}
