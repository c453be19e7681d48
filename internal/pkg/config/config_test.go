package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfig_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	cfg := InitConfig("does-not-exist.env")

	assert.Equal(t, "tebengan-rides", cfg.App.Name)
	assert.Equal(t, 9992, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, 30, cfg.Rides.AvailabilityCacheTTL)
	assert.Equal(t, 8, cfg.Rides.MaxSeatsPerRide)
	assert.Equal(t, 256, cfg.Rides.NotificationQueueSize)
	assert.Equal(t, cfg.App.Name, cfg.NewRelic.AppName)
}

func TestInitConfig_FromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "staging")
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("NATS_URL", "nats://nats:4222")
	t.Setenv("RIDES_AVAILABILITY_CACHE_TTL", "0")
	t.Setenv("RIDES_MAX_SEATS_PER_RIDE", "6")
	t.Setenv("NEW_RELIC_ENABLED", "true")

	cfg := InitConfig("")

	assert.Equal(t, "staging", cfg.App.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "nats://nats:4222", cfg.NATS.URL)
	assert.Equal(t, 0, cfg.Rides.AvailabilityCacheTTL)
	assert.Equal(t, 6, cfg.Rides.MaxSeatsPerRide)
	assert.True(t, cfg.NewRelic.Enabled)
}

func TestInitConfig_LoadsEnvFileLocally(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rides.env")
	require.NoError(t, os.WriteFile(path, []byte("JWT_ISSUER=tebengan-test\nREDIS_PORT=6380\n"), 0o600))
	t.Setenv("APP_ENV", "local")
	// godotenv never overrides variables that are already present
	for _, key := range []string{"JWT_ISSUER", "REDIS_PORT"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg := InitConfig(path)

	assert.Equal(t, "tebengan-test", cfg.JWT.Issuer)
	assert.Equal(t, 6380, cfg.Redis.Port)
}

func TestGetEnvHelpers_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("TEBENGAN_INT", "not-a-number")
	t.Setenv("TEBENGAN_BOOL", "maybe")

	assert.Equal(t, 7, GetEnvAsInt("TEBENGAN_INT", 7))
	assert.True(t, GetEnvAsBool("TEBENGAN_BOOL", true))
	assert.Equal(t, "fallback", GetEnv("TEBENGAN_UNSET", "fallback"))
}
