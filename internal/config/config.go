package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"
	_ "time/tzdata"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config struct is the top-level configuration structure.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Assessment AssessmentConfig `mapstructure:"assessment"`
}

// ServerConfig holds server-related settings.
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	SessionSecret  string   `mapstructure:"session_secret"`
	SecureCookies  bool     `mapstructure:"secure_cookies"`
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"` // postgres or sqlite
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	Path     string `mapstructure:"path"` // sqlite only
}

// LoggingConfig holds settings for the logger.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Directory  string `mapstructure:"directory"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// AssessmentConfig tunes the question flow and the in-progress session store.
type AssessmentConfig struct {
	QuestionsPath string        `mapstructure:"questions_path"`
	NavigateDelay time.Duration `mapstructure:"navigate_delay"`
	HistoryLimit  int           `mapstructure:"history_limit"`
	SessionTTL    time.Duration `mapstructure:"session_ttl"`
	MaxSessions   int           `mapstructure:"max_sessions"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	// DisplayTimezone is the IANA zone used for dates shown to users.
	DisplayTimezone string `mapstructure:"display_timezone"`
}

// DisplayLocation resolves DisplayTimezone, falling back to UTC when it is
// empty or unknown. Load rejects unknown zones, so the fallback only covers
// hand-built configs.
func (a AssessmentConfig) DisplayLocation() *time.Location {
	if a.DisplayTimezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(a.DisplayTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// setDefaults sets the default values for the configuration.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "5050")
	v.SetDefault("server.session_secret", "change-me-in-production")
	v.SetDefault("server.secure_cookies", false)
	v.SetDefault("server.trusted_proxies", []string{})

	// Database defaults
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "db")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "user")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.dbname", "teaminsight")
	v.SetDefault("database.path", "teaminsight.db")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.directory", "logs")
	v.SetDefault("logging.max_size", 10)   // 10 MB
	v.SetDefault("logging.max_backups", 3) // Keep 3 backups
	v.SetDefault("logging.max_age", 7)     // 7 days
	v.SetDefault("logging.compress", true) // Compress old logs

	// Assessment defaults
	v.SetDefault("assessment.questions_path", "")
	v.SetDefault("assessment.navigate_delay", 1500*time.Millisecond)
	v.SetDefault("assessment.history_limit", 50)
	v.SetDefault("assessment.session_ttl", 2*time.Hour)
	v.SetDefault("assessment.max_sessions", 10000)
	v.SetDefault("assessment.sweep_interval", time.Minute)
	v.SetDefault("assessment.display_timezone", "Asia/Tokyo")
}

// Manager owns the viper instance and the current configuration snapshot.
type Manager struct {
	v       *viper.Viper
	current atomic.Pointer[Config]
}

// Load reads configuration from defaults, <projectRoot>/config/config.yaml
// and TEAMINSIGHT_* environment variables.
func Load(projectRoot string) (*Manager, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// --- File Configuration ---
	v.AddConfigPath(filepath.Join(projectRoot, "config"))
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// --- Environment Variable Binding ---
	v.SetEnvPrefix("TEAMINSIGHT") // e.g., TEAMINSIGHT_SERVER_PORT
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// It's okay if the file doesn't exist; defaults and env vars will be used.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	m := &Manager{v: v}
	conf, err := m.decode()
	if err != nil {
		return nil, err
	}
	m.current.Store(conf)
	return m, nil
}

func (m *Manager) decode() (*Config, error) {
	var conf Config
	if err := m.v.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if tz := conf.Assessment.DisplayTimezone; tz != "" {
		if _, err := time.LoadLocation(tz); err != nil {
			return nil, fmt.Errorf("invalid assessment.display_timezone %q: %w", tz, err)
		}
	}
	return &conf, nil
}

// Get returns the current configuration snapshot. Callers must not mutate it.
func (m *Manager) Get() *Config {
	return m.current.Load()
}

// Watch sets up hot reloading. A config file that fails to decode keeps the
// previous snapshot in place.
func (m *Manager) Watch(log *zap.Logger) {
	m.v.OnConfigChange(func(e fsnotify.Event) {
		log.Info("Configuration file changed, reloading.", zap.String("file", e.Name))
		conf, err := m.decode()
		if err != nil {
			log.Error("Error reloading configuration", zap.Error(err))
			return
		}
		m.current.Store(conf)
	})
	m.v.WatchConfig()
}
