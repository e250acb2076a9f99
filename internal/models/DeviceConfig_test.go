package models

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDeviceConfig(t *testing.T) {
	cfg := DefaultDeviceConfig()
	assert.Equal(t, DefaultCity, cfg.City)
	assert.Equal(t, "Egypt", cfg.Country)
	assert.Equal(t, 80, cfg.Volume)
	assert.True(t, cfg.AdhanEnabled)
	assert.True(t, cfg.AutoStart)
	assert.Nil(t, cfg.Extra)
}

func TestClampVolume(t *testing.T) {
	assert.Equal(t, 100, ClampVolume(150))
	assert.Equal(t, 0, ClampVolume(-5))
	assert.Equal(t, 42, ClampVolume(42))
}

func TestDeviceConfig_UnmarshalCityCountry(t *testing.T) {
	var cfg DeviceConfig
	require.NoError(t, json.Unmarshal([]byte(`{"city_country":["Alexandria","Egypt"],"volume":55,"adhan_enabled":false}`), &cfg))

	assert.Equal(t, "Alexandria", cfg.City)
	assert.Equal(t, "Egypt", cfg.Country)
	assert.Equal(t, 55, cfg.Volume)
	assert.False(t, cfg.AdhanEnabled)
	assert.True(t, cfg.AutoStart, "missing key falls back to default")
	assert.Nil(t, cfg.Extra)
}

func TestDeviceConfig_UnmarshalSeparateKeys(t *testing.T) {
	var cfg DeviceConfig
	require.NoError(t, json.Unmarshal([]byte(`{"city":"Riyadh","country":"Saudi Arabia"}`), &cfg))
	assert.Equal(t, "Riyadh", cfg.City)
	assert.Equal(t, "Saudi Arabia", cfg.Country)
}

func TestDeviceConfig_UnmarshalClampsVolume(t *testing.T) {
	var cfg DeviceConfig
	require.NoError(t, json.Unmarshal([]byte(`{"volume":150.0}`), &cfg))
	assert.Equal(t, 100, cfg.Volume)
}

func TestDeviceConfig_UnmarshalKeepsUnknownKeys(t *testing.T) {
	var cfg DeviceConfig
	require.NoError(t, json.Unmarshal([]byte(`{"volume":10,"theme":"dark","window":{"x":5}}`), &cfg))

	require.NotNil(t, cfg.Extra)
	assert.Equal(t, "dark", cfg.Extra["theme"])
	assert.Equal(t, map[string]interface{}{"x": float64(5)}, cfg.Extra["window"])
	assert.NotContains(t, cfg.Extra, "volume")
}

func TestDeviceConfig_UnmarshalInvalid(t *testing.T) {
	var cfg DeviceConfig
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &cfg))
	assert.Error(t, json.Unmarshal([]byte(`{"volume":`), &cfg))
}

func TestDeviceConfig_UnmarshalMistypedFieldKeepsOthers(t *testing.T) {
	var cfg DeviceConfig
	require.NoError(t, json.Unmarshal([]byte(`{"city_country":["Alexandria","Egypt"],"volume":"80","adhan_enabled":"no","auto_start":false,"device_id":7}`), &cfg))

	assert.Equal(t, "Alexandria", cfg.City)
	assert.Equal(t, "Egypt", cfg.Country)
	assert.Equal(t, DefaultVolume, cfg.Volume)
	assert.True(t, cfg.AdhanEnabled)
	assert.False(t, cfg.AutoStart)
	assert.Empty(t, cfg.DeviceID)
	assert.Nil(t, cfg.Extra)
}

func TestDeviceConfig_UnmarshalBadPairFallsBackToKeys(t *testing.T) {
	var cfg DeviceConfig
	require.NoError(t, json.Unmarshal([]byte(`{"city_country":"Cairo","city":"Riyadh","country":"Saudi Arabia"}`), &cfg))

	assert.Equal(t, "Riyadh", cfg.City)
	assert.Equal(t, "Saudi Arabia", cfg.Country)
}

func TestDeviceConfig_MarshalRoundTrip(t *testing.T) {
	cfg := DefaultDeviceConfig()
	cfg.City = "Alexandria"
	cfg.DeviceID = "5f0c6d1e-6c1b-4d0b-9d5e-6f1f4c7d8e9a"
	cfg.Extra = map[string]interface{}{"theme": "dark", "zoom": float64(2)}

	data, err := json.Marshal(cfg)
	require.NoError(t, err)

	var out DeviceConfig
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, cfg, out)
}

func TestDeviceConfig_MergeIntoKeepsBaseKeys(t *testing.T) {
	cfg := DefaultDeviceConfig()
	cfg.Volume = 30

	merged := cfg.MergeInto(map[string]interface{}{"volume": 99, "legacy": true, "city": "old"})
	assert.Equal(t, 30, merged["volume"])
	assert.Equal(t, true, merged["legacy"])
	assert.NotContains(t, merged, "city")
	assert.Equal(t, []string{DefaultCity, "Egypt"}, merged["city_country"])
}

func TestDeviceConfig_Clone(t *testing.T) {
	cfg := DefaultDeviceConfig()
	cfg.Extra = map[string]interface{}{"a": "b"}
	clone := cfg.Clone()
	clone.Extra["a"] = "c"
	assert.Equal(t, "b", cfg.Extra["a"])
}
