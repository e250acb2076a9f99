package controllers

import (
	"adhan/internal/models"
	"adhan/internal/notify"
	"adhan/internal/services"
	"adhan/internal/store"
	"adhan/internal/structures"
	"adhan/internal/testutil"
	"adhan/internal/updater"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const catalogJSON = `{"Egypt":{"Cairo":{"lat":30.0444,"lon":31.2357,"tz":"Africa/Cairo","method":5},"Alexandria":{"lat":31.2001,"lon":29.9187,"tz":"Africa/Cairo"}}}`

type fakeTimings struct {
	mu        sync.Mutex
	current   *models.PrayerTimings
	ledger    *models.TriggerLedger
	err       error
	refreshes []bool
}

func (f *fakeTimings) Refresh(_ context.Context, explicit bool) (*models.PrayerTimings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes = append(f.refreshes, explicit)
	if f.err != nil {
		return nil, f.err
	}
	return f.current, nil
}

func (f *fakeTimings) Current() *models.PrayerTimings {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

func (f *fakeTimings) Ledger() *models.TriggerLedger { return f.ledger }

type fakeEvaluator struct{}

func (fakeEvaluator) Evaluate(time.Time) []string { return nil }
func (fakeEvaluator) NextPrayer(time.Time) (string, string, bool) {
	return models.Asr, "15:20", true
}
func (fakeEvaluator) Stop() {}

type fakeEngine struct {
	state updater.State
}

func (e *fakeEngine) State() updater.State { return e.state }
func (e *fakeEngine) Check(context.Context) (updater.CheckResult, error) {
	return updater.CheckResult{}, nil
}
func (e *fakeEngine) Reconcile(context.Context) (updater.Report, error) {
	return updater.Report{}, nil
}
func (e *fakeEngine) EnsureLocal(context.Context) int { return 0 }

// flakyStore fails config saves on demand.
type flakyStore struct {
	store.ResourceStoreInterface
	mu        sync.Mutex
	failSaves bool
}

func (s *flakyStore) SaveConfig(cfg models.DeviceConfig) error {
	s.mu.Lock()
	fail := s.failSaves
	s.mu.Unlock()
	if fail {
		return errors.New("disk full")
	}
	return s.ResourceStoreInterface.SaveConfig(cfg)
}

func (s *flakyStore) setFailSaves(fail bool) {
	s.mu.Lock()
	s.failSaves = fail
	s.mu.Unlock()
}

type apiFixture struct {
	store    store.ResourceStoreInterface
	disk     *flakyStore
	settings services.SettingsServiceInterface
	catalog  services.CatalogServiceInterface
	timings  *fakeTimings
	engine   *fakeEngine
	sink     *testutil.MockSink
	cache    *testutil.MockCache
	board    *notify.StatusBoard
	api      *ApiController
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	conf := &structures.Config{Storage: structures.Storage{
		Dir:         t.TempDir(),
		ConfigFile:  "config.json",
		CatalogFile: "cities.json",
		ThemeFile:   "theme.json",
		CacheFile:   "prayer_times_cache.json",
		VersionFile: "version.txt",
		AudioFile:   "adhan.mp3",
	}}
	logger := &testutil.MockLogger{}
	st, err := store.NewResourceStore(conf, logger)
	require.NoError(t, err)
	require.NoError(t, st.SaveText(conf.Storage.CatalogFile, catalogJSON))
	require.NoError(t, st.SaveVersion("4"))

	disk := &flakyStore{ResourceStoreInterface: st}
	settings := services.NewSettingsService(disk, logger)
	require.NoError(t, settings.SetSelection("Cairo", "Egypt"))

	f := &apiFixture{
		store:    st,
		disk:     disk,
		settings: settings,
		catalog:  services.NewCatalogService(st, logger),
		timings:  &fakeTimings{ledger: models.NewTriggerLedger()},
		engine:   &fakeEngine{state: updater.StateCurrent},
		sink:     &testutil.MockSink{},
		cache:    testutil.NewMockCache(),
		board:    notify.NewStatusBoard(logger, 10),
	}
	f.api = NewApiController(logger, f.cache, st, settings, f.catalog,
		f.timings, fakeEvaluator{}, f.engine, f.sink, f.board)
	return f
}

func sampleTimings() *models.PrayerTimings {
	return &models.PrayerTimings{
		City:    "Cairo",
		Country: "Egypt",
		Date:    "01-03-2026",
		Source:  models.SourceLive,
		Times:   map[string]string{models.Fajr: "04:50", models.Asr: "15:20"},
	}
}
