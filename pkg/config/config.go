package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Environment names
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Geolocation policy variants
const (
	GeoPolicyLenient = "lenient"
	GeoPolicyStrict  = "strict"
)

// Config holds all configuration for the client
type Config struct {
	Client  ClientConfig
	Geo     GeoConfig
	Session SessionConfig
	Device  DeviceConfig
}

// ClientConfig holds backend connection configuration
type ClientConfig struct {
	// BaseURL is the root of the Civic AI backend, e.g. http://localhost:8000.
	// The REST resources live under BaseURL+APIPrefix; /predict/image is
	// served at the root.
	BaseURL        string        `mapstructure:"base_url"`
	APIPrefix      string        `mapstructure:"api_prefix"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	AuthProvider   string        `mapstructure:"auth_provider"`
	Environment    string        `mapstructure:"environment"`
}

// GeoConfig holds geolocation resolver configuration
type GeoConfig struct {
	// Policy selects the lenient or strict resolution variant.
	Policy       string        `mapstructure:"policy"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaximumAge   time.Duration `mapstructure:"maximum_age"`
	HighAccuracy bool          `mapstructure:"high_accuracy"`
}

// SessionConfig holds session persistence configuration
type SessionConfig struct {
	// Path is the sqlite file holding the active identity between runs.
	Path string `mapstructure:"path"`
}

// DeviceConfig configures the headless device adapters used by the CLI
type DeviceConfig struct {
	// FramePath points at the image file the file-backed camera serves.
	FramePath string  `mapstructure:"frame_path"`
	Latitude  float64 `mapstructure:"latitude"`
	Longitude float64 `mapstructure:"longitude"`
}

// Validate checks that the configuration is usable in the given environment.
func (c *Config) Validate() error {
	if c.Geo.Policy != GeoPolicyLenient && c.Geo.Policy != GeoPolicyStrict {
		return fmt.Errorf("CIVIC_GEO_POLICY must be %q or %q, got %q",
			GeoPolicyLenient, GeoPolicyStrict, c.Geo.Policy)
	}
	if c.Geo.Timeout <= 0 {
		return errors.New("CIVIC_GEO_TIMEOUT must be positive")
	}
	env := c.Client.Environment
	if env == EnvProduction || env == EnvStaging {
		if c.Client.BaseURL == "" {
			return errors.New("CIVIC_CLIENT_BASE_URL required in " + env)
		}
		if strings.Contains(c.Client.BaseURL, "localhost") {
			return errors.New("localhost backend not allowed in " + env + " - set CIVIC_CLIENT_BASE_URL")
		}
	}
	return nil
}

// Load loads configuration from environment and config files.
func Load(appName string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Read from environment variables
	v.SetEnvPrefix("CIVIC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read from config file if exists
	v.SetConfigName(appName)
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/civic")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// LoadWithValidation loads configuration and validates it, for fail-fast main().
func LoadWithValidation(appName string) (*Config, error) {
	cfg, err := Load(appName)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("client.base_url", "http://localhost:8000")
	v.SetDefault("client.api_prefix", "/api")
	v.SetDefault("client.request_timeout", 30*time.Second)
	v.SetDefault("client.auth_provider", "google")
	v.SetDefault("client.environment", EnvDevelopment)

	v.SetDefault("geo.policy", GeoPolicyStrict)
	v.SetDefault("geo.timeout", 20*time.Second)
	v.SetDefault("geo.maximum_age", 30*time.Second)
	v.SetDefault("geo.high_accuracy", true)

	v.SetDefault("session.path", "civic-session.db")

	v.SetDefault("device.frame_path", "")
	v.SetDefault("device.latitude", 0.0)
	v.SetDefault("device.longitude", 0.0)
}
