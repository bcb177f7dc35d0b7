package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the citation service and CLI
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	Fetch     FetchConfig     `mapstructure:"fetch"`
	Output    OutputConfig    `mapstructure:"output"`
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// OutputConfig names the files citations are written to
type OutputConfig struct {
	LogFile      string `mapstructure:"log_file"`
	ExportFile   string `mapstructure:"export_file"`
	DefaultStyle string `mapstructure:"default_style"`
}

// ServerConfig contains HTTP API settings
type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	MaxURLs      int           `mapstructure:"max_urls"`
	DefaultStyle string        `mapstructure:"default_style"`
	SessionTTL   time.Duration `mapstructure:"session_ttl"`
	CORSOrigins  []string      `mapstructure:"cors_origins"`
}

func (s ServerConfig) Validate() error {
	if strings.TrimSpace(s.Address) == "" {
		return fmt.Errorf("server.address is required")
	}
	if s.MaxURLs <= 0 {
		return fmt.Errorf("server.max_urls must be > 0")
	}
	return nil
}

type StorageConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

// RedisConfig backs the optional output log index.
type RedisConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Host      string        `mapstructure:"host"`
	Port      string        `mapstructure:"port"`
	Password  string        `mapstructure:"password"`
	DB        int           `mapstructure:"db"`
	Timeout   time.Duration `mapstructure:"timeout"`
	KeyPrefix string        `mapstructure:"key_prefix"`
}

func (r RedisConfig) Validate() error {
	if !r.Enabled {
		return nil
	}
	if strings.TrimSpace(r.Host) == "" {
		return fmt.Errorf("storage.redis.host required")
	}
	if strings.TrimSpace(r.Port) == "" {
		return fmt.Errorf("storage.redis.port required")
	}
	return nil
}

// TelemetryConfig contains tracing and metrics settings
type TelemetryConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	MetricsPath  string `mapstructure:"metrics_path"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	ServiceName  string `mapstructure:"service_name"`
}

func (t TelemetryConfig) Validate() error {
	if t.MetricsPath != "" && !strings.HasPrefix(t.MetricsPath, "/") {
		return fmt.Errorf("telemetry.metrics_path must start with /")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("general.debug", false)
	v.SetDefault("general.log_level", "info")

	v.SetDefault("fetch.type", "http")
	v.SetDefault("fetch.timeout", 10*time.Second)
	v.SetDefault("fetch.max_bytes", 10<<20)
	v.SetDefault("fetch.user_agent", "Mozilla/5.0")

	v.SetDefault("output.log_file", "citations_output.txt")
	v.SetDefault("output.export_file", "citations.txt")
	v.SetDefault("output.default_style", "harvard")

	v.SetDefault("server.address", ":10001")
	v.SetDefault("server.max_urls", 50)
	v.SetDefault("server.default_style", "unsw")
	v.SetDefault("server.session_ttl", time.Hour)
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("storage.redis.enabled", false)
	v.SetDefault("storage.redis.host", "localhost")
	v.SetDefault("storage.redis.port", "6379")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.redis.timeout", 5*time.Second)
	v.SetDefault("storage.redis.key_prefix", "citer:")

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.metrics_path", "/metrics")
	v.SetDefault("telemetry.service_name", "citer")
}

// Load reads configuration from path, or from the first config.{json,yaml}
// found in the usual locations when path is empty. A missing file is not an
// error when path is empty; defaults and CITER_* environment variables apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config") // name of config file (without extension)
	setDefaults(v)

	if path == "" {
		v.AddConfigPath("./config") // path to look for the config file in
		v.AddConfigPath(".")        // optionally look for config in the working directory
		if exe, err := os.Executable(); err == nil {
			exeDir := filepath.Dir(exe)
			v.AddConfigPath(exeDir)                                // bin/
			v.AddConfigPath(filepath.Join(exeDir, "..", "config")) // repo root/config
		}
	} else {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("CITER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv() // read in environment variables that match (CITER_*)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	config.Fetch = config.Fetch.Normalize()
	config.Output = config.Output.Normalize()

	for _, validate := range []func() error{
		config.Fetch.Validate,
		config.Server.Validate,
		config.Storage.Redis.Validate,
		config.Telemetry.Validate,
	} {
		if err := validate(); err != nil {
			return nil, err
		}
	}
	return &config, nil
}
