package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicai/civic-client/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("civic-client")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.Client.BaseURL)
	assert.Equal(t, "/api", cfg.Client.APIPrefix)
	assert.Equal(t, config.GeoPolicyStrict, cfg.Geo.Policy)
	assert.Equal(t, 20*time.Second, cfg.Geo.Timeout)
	assert.Equal(t, 30*time.Second, cfg.Geo.MaximumAge)
	assert.True(t, cfg.Geo.HighAccuracy)
	assert.Equal(t, config.EnvDevelopment, cfg.Client.Environment)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CIVIC_CLIENT_BASE_URL", "https://civic.example.org")
	t.Setenv("CIVIC_GEO_POLICY", "lenient")

	cfg, err := config.Load("civic-client")
	require.NoError(t, err)
	assert.Equal(t, "https://civic.example.org", cfg.Client.BaseURL)
	assert.Equal(t, config.GeoPolicyLenient, cfg.Geo.Policy)
}

func TestValidate(t *testing.T) {
	base := func() *config.Config {
		return &config.Config{
			Client: config.ClientConfig{
				BaseURL:     "http://localhost:8000",
				Environment: config.EnvDevelopment,
			},
			Geo: config.GeoConfig{
				Policy:  config.GeoPolicyStrict,
				Timeout: 20 * time.Second,
			},
		}
	}

	t.Run("valid development config", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("unknown geo policy", func(t *testing.T) {
		cfg := base()
		cfg.Geo.Policy = "optimistic"
		assert.Error(t, cfg.Validate())
	})

	t.Run("non-positive geo timeout", func(t *testing.T) {
		cfg := base()
		cfg.Geo.Timeout = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("localhost rejected in production", func(t *testing.T) {
		cfg := base()
		cfg.Client.Environment = config.EnvProduction
		assert.Error(t, cfg.Validate())
	})

	t.Run("real backend allowed in production", func(t *testing.T) {
		cfg := base()
		cfg.Client.Environment = config.EnvProduction
		cfg.Client.BaseURL = "https://civic.example.org"
		assert.NoError(t, cfg.Validate())
	})
}
