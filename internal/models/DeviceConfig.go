package models

import (
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

const (
	DefaultCity    = "القاهرة"
	DefaultCountry = "Egypt"
	DefaultVolume  = 80
	MinVolume      = 0
	MaxVolume      = 100
)

// DeviceConfig holds the per-installation settings. Keys the program does not
// know about are kept in Extra and written back on save.
type DeviceConfig struct {
	City         string
	Country      string
	Volume       int
	AdhanEnabled bool
	AutoStart    bool
	DeviceID     string
	Extra        map[string]interface{}
}

var knownConfigKeys = []string{"city_country", "city", "country", "volume", "adhan_enabled", "auto_start", "device_id"}

func DefaultDeviceConfig() DeviceConfig {
	return DeviceConfig{
		City:         DefaultCity,
		Country:      DefaultCountry,
		Volume:       DefaultVolume,
		AdhanEnabled: true,
		AutoStart:    true,
	}
}

func NewDeviceID() string {
	return uuid.NewString()
}

func ClampVolume(v int) int {
	return min(max(v, MinVolume), MaxVolume)
}

// Selection returns the (city, country) pair the device is configured for.
func (c DeviceConfig) Selection() (string, string) {
	return c.City, c.Country
}

// Clone returns a copy that shares no mutable state with c.
func (c DeviceConfig) Clone() DeviceConfig {
	out := c
	if c.Extra != nil {
		out.Extra = make(map[string]interface{}, len(c.Extra))
		for k, v := range c.Extra {
			out.Extra[k] = v
		}
	}
	return out
}

func (c DeviceConfig) fields() map[string]interface{} {
	out := make(map[string]interface{}, 5)
	out["city_country"] = []string{c.City, c.Country}
	out["volume"] = c.Volume
	out["adhan_enabled"] = c.AdhanEnabled
	out["auto_start"] = c.AutoStart
	if c.DeviceID != "" {
		out["device_id"] = c.DeviceID
	}
	return out
}

func (c DeviceConfig) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.MergeInto(nil))
}

// MergeInto overlays the known fields and Extra onto base and returns the
// merged document. base is not modified.
func (c DeviceConfig) MergeInto(base map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(base)+len(c.Extra)+5)
	for k, v := range base {
		out[k] = v
	}
	for _, k := range knownConfigKeys {
		delete(out, k)
	}
	for k, v := range c.Extra {
		out[k] = v
	}
	for k, v := range c.fields() {
		out[k] = v
	}
	return out
}

// UnmarshalJSON decodes each known key on its own. A missing or mistyped
// key keeps its default; only a document that is not a JSON object fails.
func (c *DeviceConfig) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	cfg := DefaultDeviceConfig()
	var pair []string
	if decodeField(raw, "city_country", &pair) && len(pair) == 2 {
		cfg.City, cfg.Country = pair[0], pair[1]
	} else {
		decodeField(raw, "city", &cfg.City)
		decodeField(raw, "country", &cfg.Country)
	}
	var volume float64
	if decodeField(raw, "volume", &volume) {
		cfg.Volume = ClampVolume(int(volume))
	}
	decodeField(raw, "adhan_enabled", &cfg.AdhanEnabled)
	decodeField(raw, "auto_start", &cfg.AutoStart)
	decodeField(raw, "device_id", &cfg.DeviceID)

	for _, k := range knownConfigKeys {
		delete(raw, k)
	}
	for k, v := range raw {
		var value interface{}
		if err := json.Unmarshal(v, &value); err != nil {
			continue
		}
		if cfg.Extra == nil {
			cfg.Extra = make(map[string]interface{}, len(raw))
		}
		cfg.Extra[k] = value
	}

	*c = cfg
	return nil
}

// decodeField decodes raw[key] into dst and reports success. dst is left
// unchanged when the key is missing, null or of the wrong type.
func decodeField[T any](raw map[string]json.RawMessage, key string, dst *T) bool {
	v, ok := raw[key]
	if !ok || string(v) == "null" {
		return false
	}
	var out T
	if err := json.Unmarshal(v, &out); err != nil {
		return false
	}
	*dst = out
	return true
}
