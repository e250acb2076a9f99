package scheduler

import (
	"adhan/internal/providers"
	"adhan/internal/scheduler/interfaces"
	"adhan/internal/services"
	"adhan/internal/structures"
	"adhan/internal/updater"
	"context"
	"errors"
	"sync"
	"time"

	"github.com/roylee0704/gron"
)

type Scheduler struct {
	config    *structures.Config
	logger    providers.Logger
	evaluator interfaces.EvaluatorInterface
	engine    updater.EngineInterface
	catalog   services.CatalogServiceInterface
	settings  services.SettingsServiceInterface
	timings   services.TimingsServiceInterface
	cron      *gron.Cron
	syncMu    sync.Mutex
	ctx       context.Context
	cancel    context.CancelFunc
	now       func() time.Time
}

func (s *Scheduler) Init() {
	s.cron = gron.New()

	s.cron.AddFunc(gron.Every(s.config.Scheduler.TriggerInterval), func() {
		s.runTask("trigger", func() {
			s.evaluator.Evaluate(s.now())
		})
	})

	s.cron.AddFunc(gron.Every(s.config.Scheduler.SyncInterval), func() {
		s.runTask("sync", func() {
			s.RunSyncCycle(s.ctx)
		})
	})

	s.cron.Start()
	s.logger.Infof(providers.TypeApp, "Periodic tasks started: trigger every %s, sync every %s",
		s.config.Scheduler.TriggerInterval, s.config.Scheduler.SyncInterval)
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
	s.cancel()
}

// RunSyncCycle reconciles remote resources, restores missing local files and
// refreshes today's timings. A cycle that starts while another is running is
// skipped.
func (s *Scheduler) RunSyncCycle(ctx context.Context) {
	if !s.syncMu.TryLock() {
		s.logger.Debugf(providers.TypeSync, "Sync cycle still running, skipping")
		return
	}
	defer s.syncMu.Unlock()

	report, err := s.engine.Reconcile(ctx)
	if err != nil {
		if errors.Is(err, updater.ErrVersionUnavailable) {
			s.logger.Warnf(providers.TypeSync, "Version check skipped: %s", err)
		} else {
			s.logger.Errorf(providers.TypeSync, "Sync failed: %s", err)
		}
	}

	written := s.engine.EnsureLocal(ctx)
	if report.Advanced || written > 0 {
		catalog := s.catalog.Reload()
		if _, err = s.settings.ReconcileSelection(catalog); err != nil {
			s.logger.Errorf(providers.TypeApp, "Unable to store reconciled selection: %s", err)
		}
	}

	if _, err = s.timings.Refresh(ctx, false); err != nil {
		s.logger.Warnf(providers.TypePrayer, "Timings refresh: %s", err)
	}
}

func (s *Scheduler) runTask(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Errorf(providers.TypeApp, "Task %s panicked: %v", name, r)
		}
	}()
	fn()
}

func NewScheduler(
	config *structures.Config,
	logger providers.Logger,
	evaluator interfaces.EvaluatorInterface,
	engine updater.EngineInterface,
	catalog services.CatalogServiceInterface,
	settings services.SettingsServiceInterface,
	timings services.TimingsServiceInterface,
) interfaces.SchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		config:    config,
		logger:    logger,
		evaluator: evaluator,
		engine:    engine,
		catalog:   catalog,
		settings:  settings,
		timings:   timings,
		ctx:       ctx,
		cancel:    cancel,
		now:       time.Now,
	}
}
