// Package config loads uxlog settings. Values are layered, lowest first:
// built-in defaults, a YAML file, UXLOG_* environment variables, command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Geun-Oh/uxlog/internal/logging"
	"github.com/Geun-Oh/uxlog/internal/mission"
	"github.com/Geun-Oh/uxlog/internal/validation"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. UXLOG_SERVER_ADDR.
const EnvPrefix = "UXLOG"

// EnvConfigFile names the environment variable holding a config file path.
const EnvConfigFile = "UXLOG_CONFIG"

// Config is the complete uxlog configuration.
type Config struct {
	Log       logging.Config       `mapstructure:"log"`
	Analyze   AnalyzeConfig        `mapstructure:"analyze"`
	Server    ServerConfig         `mapstructure:"server"`
	Subtitle  SubtitleConfig       `mapstructure:"subtitle"`
	Telemetry TelemetryConfig      `mapstructure:"telemetry"`
	Missions  []mission.Descriptor `mapstructure:"missions" validate:"dive"`
}

// AnalyzeConfig controls loading and reporting a dataset.
type AnalyzeConfig struct {
	// Source is a file path, "-" for stdin, or an http(s) URL.
	Source   string        `mapstructure:"source"`
	Format   string        `mapstructure:"format" validate:"oneof=text json funnel-csv"`
	Output   string        `mapstructure:"output"`
	Color    bool          `mapstructure:"color"`
	Stats    bool          `mapstructure:"stats"`
	Missions []string      `mapstructure:"missions"`
	Exclude  []string      `mapstructure:"exclude"`
	Events   []string      `mapstructure:"events"`
	Keyword  string        `mapstructure:"keyword"`
	Regex    string        `mapstructure:"regex"`
	Since    string        `mapstructure:"since"`
	Until    string        `mapstructure:"until"`
	Watch    bool          `mapstructure:"watch"`
	Notify   bool          `mapstructure:"notify"`
	Debounce time.Duration `mapstructure:"debounce" validate:"gte=0"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr" validate:"required"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes" validate:"gt=0"`
	RateLimit       int           `mapstructure:"rate_limit" validate:"gte=0"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gte=0"`
}

// SubtitleConfig controls the subtitle suggestion client.
type SubtitleConfig struct {
	Endpoint    string        `mapstructure:"endpoint" validate:"omitempty,url"`
	Timeout     time.Duration `mapstructure:"timeout" validate:"gte=0"`
	MaxFailures uint32        `mapstructure:"max_failures"`
	OpenTimeout time.Duration `mapstructure:"open_timeout" validate:"gte=0"`
}

// TelemetryConfig controls the event tracker.
type TelemetryConfig struct {
	Endpoint      string        `mapstructure:"endpoint" validate:"omitempty,url"`
	SessionID     string        `mapstructure:"session_id"`
	RatePerSecond float64       `mapstructure:"rate_per_second" validate:"gte=0"`
	Timeout       time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

// SetDefaults registers the built-in defaults.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.caller", false)
	v.SetDefault("log.timestamp", true)
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 14)
	v.SetDefault("log.compress", false)

	v.SetDefault("analyze.source", "")
	v.SetDefault("analyze.format", "text")
	v.SetDefault("analyze.output", "")
	v.SetDefault("analyze.color", true)
	v.SetDefault("analyze.stats", false)
	v.SetDefault("analyze.missions", []string{})
	v.SetDefault("analyze.exclude", []string{})
	v.SetDefault("analyze.events", []string{})
	v.SetDefault("analyze.keyword", "")
	v.SetDefault("analyze.regex", "")
	v.SetDefault("analyze.since", "")
	v.SetDefault("analyze.until", "")
	v.SetDefault("analyze.watch", false)
	v.SetDefault("analyze.notify", false)
	v.SetDefault("analyze.debounce", 300*time.Millisecond)
	v.SetDefault("analyze.timeout", 30*time.Second)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.max_upload_bytes", 32<<20)
	v.SetDefault("server.rate_limit", 120)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("subtitle.endpoint", "")
	v.SetDefault("subtitle.timeout", 20*time.Second)
	v.SetDefault("subtitle.max_failures", 3)
	v.SetDefault("subtitle.open_timeout", 30*time.Second)

	v.SetDefault("telemetry.endpoint", "")
	v.SetDefault("telemetry.session_id", "")
	v.SetDefault("telemetry.rate_per_second", 20.0)
	v.SetDefault("telemetry.timeout", 5*time.Second)
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file into v and decodes the result. file wins over
// UXLOG_CONFIG; with neither, ./uxlog.yaml is read if present.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file == "" {
		file = os.Getenv(EnvConfigFile)
	}
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", file, err)
		}
	} else {
		v.SetConfigName("uxlog")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("config: read uxlog.yaml: %w", err)
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := validation.Struct(&c); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &c, nil
}

// Registry builds the mission registry: the configured missions, or the
// default ones when none are configured, narrowed to Analyze.Missions.
func (c *Config) Registry() (*mission.Registry, error) {
	reg := mission.Default()
	if len(c.Missions) > 0 {
		r, err := mission.NewRegistry(c.Missions...)
		if err != nil {
			return nil, fmt.Errorf("config: missions: %w", err)
		}
		reg = r
	}
	if len(c.Analyze.Missions) == 0 {
		return reg, nil
	}
	sub, err := reg.Subset(c.Analyze.Missions...)
	if err != nil {
		return nil, fmt.Errorf("config: analyze.missions: %w", err)
	}
	return sub, nil
}
