package services

import (
	"adhan/internal/models"
	"adhan/internal/store"
	"adhan/internal/testutil"
	"errors"
	"os"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsService_FirstRunPersistsDefaults(t *testing.T) {
	conf := testConfig(t)
	st := newTestStore(t, conf)

	ss := NewSettingsService(st, &testutil.MockLogger{})
	cfg := ss.Get()

	assert.Equal(t, models.DefaultCity, cfg.City)
	assert.Equal(t, models.DefaultCountry, cfg.Country)
	assert.Equal(t, models.DefaultVolume, cfg.Volume)
	assert.True(t, cfg.AdhanEnabled)
	assert.NotEmpty(t, cfg.DeviceID)
	assert.Equal(t, cfg.DeviceID, ss.DeviceID())
	assert.True(t, st.Exists(conf.Storage.ConfigFile))

	again := NewSettingsService(st, &testutil.MockLogger{})
	assert.Equal(t, cfg.DeviceID, again.DeviceID())
}

func TestSettingsService_VolumeClamps(t *testing.T) {
	conf := testConfig(t)
	st := newTestStore(t, conf)
	ss := NewSettingsService(st, &testutil.MockLogger{})

	v, err := ss.SetVolume(150)
	require.NoError(t, err)
	assert.Equal(t, 100, v)
	saved, _ := st.LoadConfig()
	assert.Equal(t, 100, saved.Volume)

	v, err = ss.SetVolume(-5)
	require.NoError(t, err)
	assert.Equal(t, 0, v)
	saved, _ = st.LoadConfig()
	assert.Equal(t, 0, saved.Volume)
}

func TestSettingsService_SelectionValidation(t *testing.T) {
	ss := NewSettingsService(newTestStore(t, testConfig(t)), &testutil.MockLogger{})

	assert.ErrorIs(t, ss.SetSelection("", "Egypt"), ErrInvalidSelection)
	assert.ErrorIs(t, ss.SetSelection("Cairo", "  "), ErrInvalidSelection)

	require.NoError(t, ss.SetSelection(" Cairo ", "Egypt"))
	city, country := ss.Get().Selection()
	assert.Equal(t, "Cairo", city)
	assert.Equal(t, "Egypt", country)
}

func TestSettingsService_ToggleAndFlags(t *testing.T) {
	conf := testConfig(t)
	st := newTestStore(t, conf)
	ss := NewSettingsService(st, &testutil.MockLogger{})

	enabled, err := ss.ToggleAdhan()
	require.NoError(t, err)
	assert.False(t, enabled)

	require.NoError(t, ss.SetAutoStart(false))
	require.NoError(t, ss.SetAdhanEnabled(true))

	saved, _ := st.LoadConfig()
	assert.True(t, saved.AdhanEnabled)
	assert.False(t, saved.AutoStart)
}

func TestSettingsService_SubscribersSeeUpdates(t *testing.T) {
	ss := NewSettingsService(newTestStore(t, testConfig(t)), &testutil.MockLogger{})

	var seen []int
	ss.Subscribe(func(cfg models.DeviceConfig) { seen = append(seen, cfg.Volume) })

	_, _ = ss.SetVolume(30)
	_, _ = ss.SetVolume(200)

	assert.Equal(t, []int{30, 100}, seen)
}

func TestSettingsService_PreservesUnknownKeys(t *testing.T) {
	conf := testConfig(t)
	st := newTestStore(t, conf)
	require.NoError(t, st.SaveText(conf.Storage.ConfigFile,
		`{"city_country":["Cairo","Egypt"],"volume":50,"adhan_enabled":true,"auto_start":true,"device_id":"dev-1","language":"ar"}`))

	ss := NewSettingsService(st, &testutil.MockLogger{})
	_, err := ss.SetVolume(60)
	require.NoError(t, err)

	data, err := os.ReadFile(st.Path(conf.Storage.ConfigFile))
	require.NoError(t, err)
	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "ar", raw["language"])
	assert.Equal(t, float64(60), raw["volume"])
	assert.Equal(t, "dev-1", ss.DeviceID())
}

func TestSettingsService_ReconcileSelection(t *testing.T) {
	conf := testConfig(t)
	st := newTestStore(t, conf)
	require.NoError(t, st.SaveText(conf.Storage.CatalogFile, catalogJSON))
	catalog := st.LoadCatalog()
	ss := NewSettingsService(st, &testutil.MockLogger{})

	changed, err := ss.ReconcileSelection(catalog)
	require.NoError(t, err)
	assert.True(t, changed)
	city, country := ss.Get().Selection()
	assert.Equal(t, "Algiers", city)
	assert.Equal(t, "Algeria", country)

	saved, _ := st.LoadConfig()
	assert.Equal(t, "Algiers", saved.City)

	changed, err = ss.ReconcileSelection(catalog)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestSettingsService_ReconcileSelectionEmptyCatalog(t *testing.T) {
	ss := NewSettingsService(newTestStore(t, testConfig(t)), &testutil.MockLogger{})

	changed, err := ss.ReconcileSelection(models.EmptyCityCatalog())

	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, models.DefaultCity, ss.Get().City)
}

type failingConfigStore struct {
	store.ResourceStoreInterface
	fail bool
}

func (s *failingConfigStore) SaveConfig(cfg models.DeviceConfig) error {
	if s.fail {
		return errors.New("read-only file system")
	}
	return s.ResourceStoreInterface.SaveConfig(cfg)
}

func TestSettingsService_ApplyChangesAllFieldsOnce(t *testing.T) {
	conf := testConfig(t)
	st := newTestStore(t, conf)
	ss := NewSettingsService(st, &testutil.MockLogger{})

	var seen []models.DeviceConfig
	ss.Subscribe(func(cfg models.DeviceConfig) { seen = append(seen, cfg) })

	city, country, volume, enabled := " Algiers ", "Algeria", 250, false
	cfg, err := ss.Apply(SettingsPatch{City: &city, Country: &country, Volume: &volume, AdhanEnabled: &enabled})

	require.NoError(t, err)
	assert.Equal(t, "Algiers", cfg.City)
	assert.Equal(t, "Algeria", cfg.Country)
	assert.Equal(t, 100, cfg.Volume)
	assert.False(t, cfg.AdhanEnabled)
	require.Len(t, seen, 1)
	assert.Equal(t, cfg.City, seen[0].City)

	saved, _ := st.LoadConfig()
	assert.Equal(t, "Algiers", saved.City)
	assert.Equal(t, 100, saved.Volume)
}

func TestSettingsService_ApplyRejectsBlankSelection(t *testing.T) {
	ss := NewSettingsService(newTestStore(t, testConfig(t)), &testutil.MockLogger{})

	blank, volume := "  ", 10
	_, err := ss.Apply(SettingsPatch{City: &blank, Volume: &volume})

	assert.ErrorIs(t, err, ErrInvalidSelection)
	assert.Equal(t, models.DefaultVolume, ss.Get().Volume)
}

func TestSettingsService_FailedSaveKeepsPreviousConfig(t *testing.T) {
	conf := testConfig(t)
	disk := &failingConfigStore{ResourceStoreInterface: newTestStore(t, conf)}
	ss := NewSettingsService(disk, &testutil.MockLogger{})

	var notified int
	ss.Subscribe(func(models.DeviceConfig) { notified++ })
	disk.fail = true

	city, volume := "Alexandria", 15
	cfg, err := ss.Apply(SettingsPatch{City: &city, Volume: &volume})

	require.Error(t, err)
	assert.Equal(t, models.DefaultCity, cfg.City)
	assert.Equal(t, models.DefaultCity, ss.Get().City)
	assert.Equal(t, models.DefaultVolume, ss.Get().Volume)
	assert.Zero(t, notified)

	_, err = ss.ToggleAdhan()
	require.Error(t, err)
	assert.True(t, ss.Get().AdhanEnabled)
}
