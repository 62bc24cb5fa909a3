package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := LoadConfig()

	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/coe")
	t.Setenv("API_KEYS", " k1, ,k2 ")
	t.Setenv("LOGIN_RATE_LIMIT", "not-a-number")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, []string{"k1", "k2"}, cfg.APIKeys)
	assert.Equal(t, 5, cfg.LoginRateLimit)
	assert.Equal(t, time.Minute, cfg.LoginWindow)
	assert.Equal(t, 3, cfg.WebhookMaxRetries)
	assert.InDelta(t, -23.5505, cfg.DefaultLat, 1e-9)
}

func TestLoadDashboardConfig(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://localhost:8080/")
	t.Setenv("POLL_INTERVAL", "500ms")
	t.Setenv("MAP_SCALE", "1500")

	cfg, err := LoadDashboardConfig()

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.APIBaseURL)
	assert.Equal(t, 500*time.Millisecond, cfg.PollInterval)
	assert.InDelta(t, 1500, cfg.MapScale, 1e-9)
	assert.Equal(t, "V-99 (Sim)", cfg.SimVehicleID)
	assert.Equal(t, "coe_user", cfg.SessionKey)
}

func TestLoadDashboardConfig_RejectsZeroInterval(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://localhost:8080")
	t.Setenv("POLL_INTERVAL", "0s")

	_, err := LoadDashboardConfig()

	assert.ErrorContains(t, err, "POLL_INTERVAL")
}
