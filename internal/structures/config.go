package structures

import "time"

type Server struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host" validate:"required"`
	Port    int    `yaml:"port" validate:"required|uint|min:1"`
}

type Storage struct {
	Dir         string `yaml:"dir" validate:"required"`
	ConfigFile  string `yaml:"configFile" validate:"required"`
	CatalogFile string `yaml:"catalogFile" validate:"required"`
	ThemeFile   string `yaml:"themeFile" validate:"required"`
	CacheFile   string `yaml:"cacheFile" validate:"required"`
	VersionFile string `yaml:"versionFile" validate:"required"`
	AudioFile   string `yaml:"audioFile" validate:"required"`
}

type Resource struct {
	Name     string `yaml:"name"`
	Path     string `yaml:"path"`
	Optional bool   `yaml:"optional"`
	Payload  bool   `yaml:"payload"`
}

type SyncConfig struct {
	BaseURL     string        `yaml:"baseUrl" validate:"required"`
	VersionPath string        `yaml:"versionPath" validate:"required"`
	Timeout     time.Duration `yaml:"timeout" validate:"required|min:1"`
	Strict      bool          `yaml:"strict"`
	Restart     bool          `yaml:"restart"`
	Resources   []Resource    `yaml:"resources"`
}

type TimeServiceConfig struct {
	URL      string        `yaml:"url" validate:"required"`
	Timeout  time.Duration `yaml:"timeout" validate:"required|min:1"`
	CacheTTL time.Duration `yaml:"cacheTTL"`
}

type ConnectivityConfig struct {
	ProbeURL string        `yaml:"probeUrl" validate:"required"`
	Timeout  time.Duration `yaml:"timeout" validate:"required|min:1"`
}

type SchedulerConfig struct {
	TriggerInterval time.Duration `yaml:"triggerInterval" validate:"required|min:1"`
	SyncInterval    time.Duration `yaml:"syncInterval" validate:"required|min:1"`
	AdhanDuration   time.Duration `yaml:"adhanDuration" validate:"required|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required"`
}

type AudioConfig struct {
	Enabled bool `yaml:"enabled"`
}

type MqttConfig struct {
	Enabled bool          `yaml:"enabled"`
	Broker  string        `yaml:"broker"`
	Topic   string        `yaml:"topic"`
	QoS     byte          `yaml:"qos"`
	Timeout time.Duration `yaml:"timeout"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName      string
	Debug        bool
	Path         string
	Storage      Storage            `yaml:"storage"`
	Sync         SyncConfig         `yaml:"sync"`
	TimeService  TimeServiceConfig  `yaml:"timeService"`
	Connectivity ConnectivityConfig `yaml:"connectivity"`
	Scheduler    SchedulerConfig    `yaml:"scheduler"`
	WebServer    Server             `yaml:"webServer"`
	Logger       LoggerConfig       `yaml:"logger"`
	Audio        AudioConfig        `yaml:"audio"`
	Mqtt         MqttConfig         `yaml:"mqtt"`
	Cache        CacheConfig        `yaml:"cache"`
	Metrics      MetricsConfig      `yaml:"metrics"`
}
