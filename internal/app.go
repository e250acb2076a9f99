package internal

import (
	"adhan/internal/models"
	"adhan/internal/notify"
	"adhan/internal/providers"
	"adhan/internal/scheduler/interfaces"
	"adhan/internal/services"
	"adhan/internal/structures"
	"adhan/internal/updater"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"
)

type App struct {
	WebServer *http.Server

	conf      *structures.Config
	logger    providers.Logger
	settings  services.SettingsServiceInterface
	catalog   services.CatalogServiceInterface
	timings   services.TimingsServiceInterface
	engine    updater.EngineInterface
	evaluator interfaces.EvaluatorInterface
	scheduler interfaces.SchedulerInterface
	sink      notify.NotificationSink
}

func NewApp(
	conf *structures.Config,
	logger providers.Logger,
	settings services.SettingsServiceInterface,
	catalog services.CatalogServiceInterface,
	timings services.TimingsServiceInterface,
	engine updater.EngineInterface,
	evaluator interfaces.EvaluatorInterface,
	scheduler interfaces.SchedulerInterface,
	sink notify.NotificationSink,
	router providers.RouterProviderInterface,
	metrics providers.MetricsProviderInterface,
) *App {
	app := &App{
		conf:      conf,
		logger:    logger,
		settings:  settings,
		catalog:   catalog,
		timings:   timings,
		engine:    engine,
		evaluator: evaluator,
		scheduler: scheduler,
		sink:      sink,
	}

	if conf.WebServer.Enabled {
		mux := http.NewServeMux()
		known := make([]string, 0)
		for _, route := range router.GetRoutes() {
			mux.Handle(route.Url, route.Handler)
			known = append(known, route.Url)
		}

		app.WebServer = &http.Server{
			Addr:         conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:      providers.MetricsMiddleware(metrics, logger, known, mux),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
	}
	return app
}

// Run brings the daemon up in order (local files, version reconcile, catalog,
// selection, timings, periodic tasks, control API) and blocks until ctx is
// done or SIGINT/SIGTERM arrives.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.logger.Infof(providers.TypeApp, "Starting %s", a.conf.AppName)
	a.bootstrap(ctx)
	a.scheduler.Init()

	serverErr := make(chan error, 1)
	if a.WebServer != nil {
		go func() {
			a.logger.Infof(providers.TypeApp, "Listening HTTP clients on %s", a.WebServer.Addr)
			if err := a.WebServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErr <- err
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Infof(providers.TypeApp, "Shutdown signal received")
	case err := <-serverErr:
		runErr = fmt.Errorf("server error: %w", err)
	}

	return errors.Join(runErr, a.shutdown())
}

func (a *App) bootstrap(ctx context.Context) {
	if written := a.engine.EnsureLocal(ctx); written > 0 {
		a.logger.Infof(providers.TypeSync, "Restored %d missing resource(s)", written)
	}

	if _, err := a.engine.Reconcile(ctx); err != nil {
		if errors.Is(err, updater.ErrVersionUnavailable) {
			a.logger.Warnf(providers.TypeSync, "Version check skipped: %s", err)
		} else {
			a.logger.Errorf(providers.TypeSync, "Startup sync failed: %s", err)
		}
	}

	catalog := a.catalog.Reload()
	if _, err := a.settings.ReconcileSelection(catalog); err != nil {
		a.logger.Errorf(providers.TypeApp, "Unable to store reconciled selection: %s", err)
	}

	if vc, ok := a.sink.(notify.VolumeControl); ok {
		vc.SetVolume(a.settings.Get().Volume)
		a.settings.Subscribe(func(cfg models.DeviceConfig) {
			vc.SetVolume(cfg.Volume)
		})
	}

	if _, err := a.timings.Refresh(ctx, false); err != nil {
		a.logger.Warnf(providers.TypePrayer, "Initial timings refresh: %s", err)
	}
}

func (a *App) shutdown() error {
	a.scheduler.Stop()
	a.sink.Stop()
	a.evaluator.Stop()

	var errs []error
	if a.WebServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.WebServer.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := a.sink.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close notification sink: %w", err))
	}

	a.logger.Infof(providers.TypeApp, "gracefully stopped")
	return errors.Join(errs...)
}
