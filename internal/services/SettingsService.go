package services

import (
	"adhan/internal/models"
	"adhan/internal/providers"
	"adhan/internal/store"
	"errors"
	"fmt"
	"strings"
	"sync"
)

var ErrInvalidSelection = errors.New("city and country are required")

type SettingsServiceInterface interface {
	Get() models.DeviceConfig
	DeviceID() string
	SetVolume(volume int) (int, error)
	SetSelection(city, country string) error
	SetAdhanEnabled(enabled bool) error
	ToggleAdhan() (bool, error)
	SetAutoStart(enabled bool) error
	Apply(patch SettingsPatch) (models.DeviceConfig, error)
	ReconcileSelection(catalog *models.CityCatalog) (bool, error)
	Subscribe(fn func(models.DeviceConfig))
}

// SettingsPatch lists the fields to change; nil fields keep their value.
type SettingsPatch struct {
	City         *string
	Country      *string
	Volume       *int
	AdhanEnabled *bool
	AutoStart    *bool
}

// SettingsService owns the device configuration. Every mutation is persisted
// first, then swapped in and announced to subscribers. A failed save leaves
// the configuration untouched.
type SettingsService struct {
	store  store.ResourceStoreInterface
	logger providers.Logger

	mu          sync.RWMutex
	cfg         models.DeviceConfig
	subscribers []func(models.DeviceConfig)
}

func NewSettingsService(st store.ResourceStoreInterface, logger providers.Logger) SettingsServiceInterface {
	cfg, found := st.LoadConfig()
	ss := &SettingsService{store: st, logger: logger, cfg: cfg}

	if cfg.DeviceID == "" {
		ss.cfg.DeviceID = models.NewDeviceID()
	}
	if !found || cfg.DeviceID == "" {
		if err := st.SaveConfig(ss.cfg); err != nil {
			logger.Errorf(providers.TypeApp, "Unable to write device config: %s", err)
		}
	}
	logger.Infof(providers.TypeApp, "Device %s configured for %s - %s", ss.cfg.DeviceID, ss.cfg.City, ss.cfg.Country)
	return ss
}

func (ss *SettingsService) Get() models.DeviceConfig {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return ss.cfg.Clone()
}

func (ss *SettingsService) DeviceID() string {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return ss.cfg.DeviceID
}

func (ss *SettingsService) Subscribe(fn func(models.DeviceConfig)) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.subscribers = append(ss.subscribers, fn)
}

func (ss *SettingsService) update(fn func(cfg *models.DeviceConfig) error) (models.DeviceConfig, error) {
	ss.mu.Lock()
	next := ss.cfg.Clone()
	if err := fn(&next); err != nil {
		current := ss.cfg.Clone()
		ss.mu.Unlock()
		return current, err
	}
	if err := ss.store.SaveConfig(next); err != nil {
		current := ss.cfg.Clone()
		ss.mu.Unlock()
		ss.logger.Errorf(providers.TypeApp, "Unable to persist device config: %s", err)
		return current, fmt.Errorf("persist device config: %w", err)
	}
	ss.cfg = next
	subscribers := append([]func(models.DeviceConfig){}, ss.subscribers...)
	ss.mu.Unlock()

	for _, sub := range subscribers {
		sub(next.Clone())
	}
	return next.Clone(), nil
}

// Apply changes every field patch carries in one validated, persisted update.
func (ss *SettingsService) Apply(patch SettingsPatch) (models.DeviceConfig, error) {
	return ss.update(func(cfg *models.DeviceConfig) error {
		if patch.City != nil || patch.Country != nil {
			city, country := cfg.Selection()
			if patch.City != nil {
				city = *patch.City
			}
			if patch.Country != nil {
				country = *patch.Country
			}
			if err := setSelection(cfg, city, country); err != nil {
				return err
			}
		}
		if patch.Volume != nil {
			cfg.Volume = models.ClampVolume(*patch.Volume)
		}
		if patch.AdhanEnabled != nil {
			cfg.AdhanEnabled = *patch.AdhanEnabled
		}
		if patch.AutoStart != nil {
			cfg.AutoStart = *patch.AutoStart
		}
		return nil
	})
}

func setSelection(cfg *models.DeviceConfig, city, country string) error {
	city, country = strings.TrimSpace(city), strings.TrimSpace(country)
	if city == "" || country == "" {
		return ErrInvalidSelection
	}
	cfg.City, cfg.Country = city, country
	return nil
}

func (ss *SettingsService) SetVolume(volume int) (int, error) {
	cfg, err := ss.Apply(SettingsPatch{Volume: &volume})
	return cfg.Volume, err
}

func (ss *SettingsService) SetSelection(city, country string) error {
	_, err := ss.update(func(cfg *models.DeviceConfig) error {
		return setSelection(cfg, city, country)
	})
	return err
}

func (ss *SettingsService) SetAdhanEnabled(enabled bool) error {
	_, err := ss.Apply(SettingsPatch{AdhanEnabled: &enabled})
	return err
}

func (ss *SettingsService) ToggleAdhan() (bool, error) {
	cfg, err := ss.update(func(cfg *models.DeviceConfig) error {
		cfg.AdhanEnabled = !cfg.AdhanEnabled
		return nil
	})
	if err != nil {
		return cfg.AdhanEnabled, err
	}
	state := "disabled"
	if cfg.AdhanEnabled {
		state = "enabled"
	}
	ss.logger.Infof(providers.TypeApp, "Adhan %s", state)
	return cfg.AdhanEnabled, nil
}

func (ss *SettingsService) SetAutoStart(enabled bool) error {
	_, err := ss.Apply(SettingsPatch{AutoStart: &enabled})
	return err
}

// ReconcileSelection moves a selection that the catalog does not know to the
// first country that has cities, and its first city. An empty catalog leaves
// the selection alone. It reports whether the selection changed.
func (ss *SettingsService) ReconcileSelection(catalog *models.CityCatalog) (bool, error) {
	if catalog.IsEmpty() {
		return false, nil
	}

	current := ss.Get()
	if _, ok := catalog.Lookup(current.City, current.Country); ok {
		return false, nil
	}

	for _, country := range catalog.Countries() {
		cities := catalog.Cities(country)
		if len(cities) == 0 {
			continue
		}
		ss.logger.Warnf(providers.TypeApp, "Selection %s - %s not in catalog, using %s - %s", current.City, current.Country, cities[0], country)
		return true, ss.SetSelection(cities[0], country)
	}
	return false, nil
}
