package services

import (
	"adhan/internal/models"
	"adhan/internal/notify"
	"adhan/internal/providers"
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/atomic"
)

type TimingsServiceInterface interface {
	Refresh(ctx context.Context, explicit bool) (*models.PrayerTimings, error)
	Current() *models.PrayerTimings
	Ledger() *models.TriggerLedger
}

// TimingsService holds today's timings for the selected city. The trigger
// ledger is cleared when a refresh changes the (city, country, day) scope or
// when the user asked for the refresh.
type TimingsService struct {
	settings SettingsServiceInterface
	catalog  CatalogServiceInterface
	resolver TimingsResolverInterface
	display  notify.TimingsDisplay
	metrics  providers.MetricsProviderInterface
	logger   providers.Logger

	refreshMu sync.Mutex
	current   atomic.Pointer[models.PrayerTimings]
	lastScope *models.PrayerTimings
	ledger    *models.TriggerLedger
}

func NewTimingsService(
	settings SettingsServiceInterface,
	catalog CatalogServiceInterface,
	resolver TimingsResolverInterface,
	display notify.TimingsDisplay,
	metrics providers.MetricsProviderInterface,
	logger providers.Logger,
) TimingsServiceInterface {
	return &TimingsService{
		settings: settings,
		catalog:  catalog,
		resolver: resolver,
		display:  display,
		metrics:  metrics,
		logger:   logger,
		ledger:   models.NewTriggerLedger(),
	}
}

func (ts *TimingsService) Current() *models.PrayerTimings {
	return ts.current.Load()
}

func (ts *TimingsService) Ledger() *models.TriggerLedger {
	return ts.ledger
}

func (ts *TimingsService) Refresh(ctx context.Context, explicit bool) (*models.PrayerTimings, error) {
	ts.refreshMu.Lock()
	defer ts.refreshMu.Unlock()

	city, country := ts.settings.Get().Selection()
	timings, err := ts.resolver.Resolve(ctx, city, country, ts.catalog.Current())

	if err != nil {
		ts.current.Store(nil)
		ts.metrics.IncTimingsRefresh("none")
		ts.display.ShowTimings(nil)
		if errors.Is(err, ErrCityNotFound) {
			ts.display.ShowStatus(fmt.Sprintf("No timings available: %s - %s is not in the city list", city, country))
		} else {
			ts.display.ShowStatus("No timings available right now")
		}
		return nil, err
	}

	if explicit || !timings.SameScope(ts.lastScope) {
		ts.ledger.Clear()
	}
	ts.lastScope = timings
	ts.current.Store(timings)
	ts.metrics.IncTimingsRefresh(string(timings.Source))
	ts.display.ShowTimings(timings)

	switch timings.Source {
	case models.SourceCache:
		ts.display.ShowStatus("Using locally cached timings")
	default:
		ts.display.ShowStatus(fmt.Sprintf("Timings updated for %s - %s", city, country))
	}
	return timings, nil
}
