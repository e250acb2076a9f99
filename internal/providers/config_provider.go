package providers

import (
	"adhan/internal/structures"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.dir", ".")
	v.SetDefault("storage.configFile", "config.json")
	v.SetDefault("storage.catalogFile", "cities.json")
	v.SetDefault("storage.themeFile", "theme.json")
	v.SetDefault("storage.cacheFile", "prayer_times_cache.json")
	v.SetDefault("storage.versionFile", "version.txt")
	v.SetDefault("storage.audioFile", "adhan.mp3")

	v.SetDefault("sync.versionPath", "version.txt")
	v.SetDefault("sync.timeout", 15*time.Second)
	v.SetDefault("sync.restart", true)
	v.SetDefault("sync.resources", []map[string]interface{}{
		{"name": "cities.json", "path": "cities.json"},
		{"name": "theme.json", "path": "theme.json"},
		{"name": "adhan.mp3", "path": "adhan.mp3"},
		{"name": "adhan", "path": "adhan", "optional": true, "payload": true},
	})

	v.SetDefault("timeService.url", "http://api.aladhan.com/v1/timings")
	v.SetDefault("timeService.timeout", 10*time.Second)
	v.SetDefault("timeService.cacheTTL", 10*time.Minute)

	v.SetDefault("connectivity.probeUrl", "https://www.google.com")
	v.SetDefault("connectivity.timeout", 4*time.Second)

	v.SetDefault("scheduler.triggerInterval", time.Second)
	v.SetDefault("scheduler.syncInterval", 30*time.Minute)
	v.SetDefault("scheduler.adhanDuration", 10*time.Second)

	v.SetDefault("webServer.host", "127.0.0.1")
	v.SetDefault("webServer.port", 18650)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.mode", 0644)
	v.SetDefault("logger.dir", ".")

	v.SetDefault("audio.enabled", true)
	v.SetDefault("mqtt.topic", "adhan")
	v.SetDefault("mqtt.timeout", 5*time.Second)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.size", 1)
}

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	dir := filepath.Dir(flags.ConfigPath)
	filename := filepath.Base(flags.ConfigPath)

	err := godotenv.Load(filepath.Join(dir, ".env"))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("unable to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AddConfigPath(dir)
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.BindEnv("logger.level", "ADHAN_LOG_LEVEL")
	v.BindEnv("logger.dir", "ADHAN_LOG_DIR")
	v.BindEnv("storage.dir", "ADHAN_DATA_DIR")
	v.BindEnv("sync.baseUrl", "ADHAN_SYNC_BASE_URL")
	v.BindEnv("sync.strict", "ADHAN_SYNC_STRICT")
	v.BindEnv("scheduler.syncInterval", "ADHAN_SYNC_INTERVAL")
	v.BindEnv("webServer.enabled", "ADHAN_HTTP_ENABLED")
	v.BindEnv("mqtt.enabled", "ADHAN_MQTT_ENABLED")
	v.BindEnv("mqtt.broker", "ADHAN_MQTT_BROKER")

	err = v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "AdhanDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
