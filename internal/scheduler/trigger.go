package scheduler

import (
	"adhan/internal/models"
	"adhan/internal/notify"
	"adhan/internal/providers"
	"adhan/internal/scheduler/interfaces"
	"context"
	"sync"
	"time"
)

type TimingsSource interface {
	Current() *models.PrayerTimings
	Ledger() *models.TriggerLedger
}

type SettingsSource interface {
	Get() models.DeviceConfig
}

// Evaluator fires each canonical prayer at most once per day, on the first
// evaluation whose wall-clock minute equals the prayer's time.
type Evaluator struct {
	timings  TimingsSource
	settings SettingsSource
	sink     notify.NotificationSink
	metrics  providers.MetricsProviderInterface
	logger   providers.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewEvaluator(
	timings TimingsSource,
	settings SettingsSource,
	sink notify.NotificationSink,
	metrics providers.MetricsProviderInterface,
	logger providers.Logger,
) interfaces.EvaluatorInterface {
	ctx, cancel := context.WithCancel(context.Background())
	return &Evaluator{
		timings:  timings,
		settings: settings,
		sink:     sink,
		metrics:  metrics,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Evaluate returns the prayers recorded by this call. Notifications for them
// run on their own goroutines.
func (e *Evaluator) Evaluate(now time.Time) []string {
	ledger := e.timings.Ledger()
	if ledger.Rollover(models.DateOf(now)) {
		e.logger.Debugf(providers.TypeTrigger, "New day %s, trigger ledger reset", models.DateOf(now))
	}

	current := e.timings.Current()
	if current.IsEmpty() {
		return nil
	}

	clock := now.Format(models.ClockLayout)
	cfg := e.settings.Get()

	var fired []string
	for _, name := range models.CanonicalPrayers {
		value, ok := current.Get(name)
		if !ok || !models.MatchesClock(value, clock) {
			continue
		}
		if !ledger.MarkIfAbsent(name) {
			continue
		}

		fired = append(fired, name)
		e.metrics.IncTriggersFired(name, cfg.AdhanEnabled)
		if !cfg.AdhanEnabled {
			e.logger.Infof(providers.TypeTrigger, "%s time (%s), adhan disabled", name, clock)
			continue
		}

		e.logger.Infof(providers.TypeTrigger, "%s time (%s), notifying", name, clock)
		e.dispatch(models.PrayerEvent{
			Prayer:   name,
			Time:     models.CleanTime(value),
			City:     current.City,
			Country:  current.Country,
			DeviceID: cfg.DeviceID,
			At:       now,
		})
	}
	return fired
}

func (e *Evaluator) dispatch(ev models.PrayerEvent) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				e.logger.Errorf(providers.TypeTrigger, "Notification for %s panicked: %v", ev.Prayer, r)
			}
		}()

		if err := e.sink.Notify(e.ctx, ev); err != nil {
			e.logger.Errorf(providers.TypeTrigger, "Notification for %s failed: %s", ev.Prayer, err)
		}
	}()
}

func (e *Evaluator) NextPrayer(now time.Time) (string, string, bool) {
	return e.timings.Current().Next(now)
}

// Stop cancels running notifications and waits for them to return.
func (e *Evaluator) Stop() {
	e.cancel()
	e.wg.Wait()
}
