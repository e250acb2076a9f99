package services

import (
	"adhan/internal/store"
	"adhan/internal/structures"
	"adhan/internal/testutil"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const catalogJSON = `{
  "Egypt": {
    "Cairo": {"lat": 30.0444, "lon": 31.2357, "tz": "Africa/Cairo", "method": 5},
    "Alexandria": {"lat": 31.2001, "lon": 29.9187, "tz": "Africa/Cairo"}
  },
  "Algeria": {
    "Algiers": {"lat": 36.7538, "lon": 3.0588, "tz": "Africa/Algiers", "method": 19}
  }
}`

func testConfig(t *testing.T) *structures.Config {
	t.Helper()
	return &structures.Config{
		AppName: "AdhanDaemon",
		Storage: structures.Storage{
			Dir:         t.TempDir(),
			ConfigFile:  "config.json",
			CatalogFile: "cities.json",
			ThemeFile:   "theme.json",
			CacheFile:   "prayer_times_cache.json",
			VersionFile: "version.txt",
			AudioFile:   "adhan.mp3",
		},
		TimeService: structures.TimeServiceConfig{
			URL:      "http://127.0.0.1:1/v1/timings",
			Timeout:  2 * time.Second,
			CacheTTL: time.Minute,
		},
		Connectivity: structures.ConnectivityConfig{
			ProbeURL: "http://127.0.0.1:1",
			Timeout:  time.Second,
		},
	}
}

func newTestStore(t *testing.T, conf *structures.Config) store.ResourceStoreInterface {
	t.Helper()
	st, err := store.NewResourceStore(conf, &testutil.MockLogger{})
	require.NoError(t, err)
	return st
}
