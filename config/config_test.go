package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv(EnvDatabaseURL, "")
	t.Setenv(EnvDatabaseName, "")
	t.Setenv("PORT", "")
	t.Setenv("HOST", "")
	t.Setenv("DB_TIMEOUT_SECONDS", "")
	t.Setenv("TRUSTED_PROXIES", "")

	cfg := LoadConfig()

	assert.Empty(t, cfg.TrustedProxies)
	assert.Equal(t, "8000", cfg.ServerPort)
	assert.Equal(t, "0.0.0.0:8000", cfg.Addr())
	assert.Equal(t, 10*time.Second, cfg.DBTimeout)
	assert.False(t, cfg.DatabaseConfigured())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv(EnvDatabaseURL, "mongodb://localhost:27017")
	t.Setenv(EnvDatabaseName, "comics")
	t.Setenv("PORT", "9090")
	t.Setenv("RATE_LIMIT_BURST", "not-a-number")
	t.Setenv("TRUSTED_PROXIES", " 10.0.0.0/8, ,192.168.1.1 ")

	cfg := LoadConfig()

	assert.Equal(t, []string{"10.0.0.0/8", "192.168.1.1"}, cfg.TrustedProxies)
	assert.True(t, cfg.DatabaseConfigured())
	assert.Equal(t, "0.0.0.0:9090", cfg.Addr())
	assert.Equal(t, 40, cfg.RateLimitBurst)
}

func TestDatabaseConfiguredNeedsBoth(t *testing.T) {
	cfg := &Config{DatabaseURL: "mongodb://localhost:27017"}
	assert.False(t, cfg.DatabaseConfigured())
	cfg.DatabaseName = "comics"
	assert.True(t, cfg.DatabaseConfigured())
}
