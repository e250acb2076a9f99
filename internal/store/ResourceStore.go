package store

import (
	"adhan/internal/models"
	"adhan/internal/providers"
	"adhan/internal/structures"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	json "github.com/goccy/go-json"
)

const DefaultVersion = "0"

type ResourceStoreInterface interface {
	Path(name string) string
	Exists(name string) bool
	LoadJSON(name string, dst interface{}) bool
	SaveJSON(name string, v interface{}) error
	LoadText(name string) (string, bool)
	SaveText(name string, text string) error
	Replace(name string, r io.Reader) (int64, error)

	LoadConfig() (models.DeviceConfig, bool)
	SaveConfig(cfg models.DeviceConfig) error
	LoadCatalog() *models.CityCatalog
	LoadTheme() models.Theme
	LoadPrayerCache() (*models.PrayerCache, bool)
	SavePrayerCache(cache *models.PrayerCache) error
	LoadVersion() string
	SaveVersion(token string) error
}

// ResourceStore reads and writes the small documents the daemon keeps in its
// data directory. Loads never fail: a missing or malformed document is
// reported as absent. Saves go through a temporary file and a rename, so a
// reader sees either the old or the new content.
type ResourceStore struct {
	dir    string
	files  structures.Storage
	logger providers.Logger
	mu     sync.Mutex
}

func NewResourceStore(conf *structures.Config, logger providers.Logger) (ResourceStoreInterface, error) {
	dir := conf.Storage.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}
	return &ResourceStore{
		dir:    dir,
		files:  conf.Storage,
		logger: logger,
	}, nil
}

func (s *ResourceStore) Path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

func (s *ResourceStore) Exists(name string) bool {
	info, err := os.Stat(s.Path(name))
	return err == nil && !info.IsDir()
}

func (s *ResourceStore) LoadJSON(name string, dst interface{}) bool {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warnf(providers.TypeApp, "Unable to read %s: %s", name, err)
		}
		return false
	}
	if err = json.Unmarshal(data, dst); err != nil {
		s.logger.Warnf(providers.TypeApp, "Malformed document %s: %s", name, err)
		return false
	}
	return true
}

func (s *ResourceStore) SaveJSON(name string, v interface{}) error {
	data, err := json.MarshalIndentWithOption(v, "", "  ", json.DisableHTMLEscape())
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	_, err = s.Replace(name, bytes.NewReader(data))
	return err
}

func (s *ResourceStore) LoadText(name string) (string, bool) {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(string(data)), true
}

func (s *ResourceStore) SaveText(name string, text string) error {
	_, err := s.Replace(name, strings.NewReader(text))
	return err
}

// Replace streams r into a temporary file next to name and renames it over
// name once the content is synced. The temporary file is removed on failure.
func (s *ResourceStore) Replace(name string, r io.Reader) (int64, error) {
	target := s.Path(name)
	tmpFile := target + ".tmp"

	file, err := os.Create(tmpFile)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(file, r)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return n, err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return n, err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return n, err
	}

	if err = os.Rename(tmpFile, target); err != nil {
		os.Remove(tmpFile)
		return n, err
	}
	return n, nil
}

func (s *ResourceStore) LoadConfig() (models.DeviceConfig, bool) {
	var cfg models.DeviceConfig
	if !s.LoadJSON(s.files.ConfigFile, &cfg) {
		return models.DefaultDeviceConfig(), false
	}
	return cfg, true
}

// SaveConfig merges cfg into whatever is on disk, so keys written by other
// tools survive.
func (s *ResourceStore) SaveConfig(cfg models.DeviceConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var current map[string]interface{}
	if !s.LoadJSON(s.files.ConfigFile, &current) {
		current = nil
	}
	return s.SaveJSON(s.files.ConfigFile, cfg.MergeInto(current))
}

func (s *ResourceStore) LoadCatalog() *models.CityCatalog {
	var catalog models.CityCatalog
	if !s.LoadJSON(s.files.CatalogFile, &catalog) {
		return models.EmptyCityCatalog()
	}
	return &catalog
}

func (s *ResourceStore) LoadTheme() models.Theme {
	var theme models.Theme
	if !s.LoadJSON(s.files.ThemeFile, &theme) {
		return models.DefaultTheme()
	}
	theme.ApplyDefaults()
	return theme
}

func (s *ResourceStore) LoadPrayerCache() (*models.PrayerCache, bool) {
	var cache models.PrayerCache
	if !s.LoadJSON(s.files.CacheFile, &cache) {
		return nil, false
	}
	return &cache, true
}

func (s *ResourceStore) SavePrayerCache(cache *models.PrayerCache) error {
	return s.SaveJSON(s.files.CacheFile, cache)
}

func (s *ResourceStore) LoadVersion() string {
	v, ok := s.LoadText(s.files.VersionFile)
	if !ok || v == "" {
		return DefaultVersion
	}
	return v
}

func (s *ResourceStore) SaveVersion(token string) error {
	return s.SaveText(s.files.VersionFile, strings.TrimSpace(token))
}
