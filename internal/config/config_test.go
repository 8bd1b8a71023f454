package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-32-bytes-should-be-long")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "8000", cfg.Server.Port)
	require.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenTTL)
	require.Equal(t, 30*24*time.Hour, cfg.JWT.RefreshTokenTTL)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-32-bytes-should-be-long")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("JWT_ACCESS_TOKEN_TTL", "5")
	t.Setenv("RATE_LIMIT_ENABLED", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "9000", cfg.Server.Port)
	require.Equal(t, 5*time.Minute, cfg.JWT.AccessTokenTTL)
	require.True(t, cfg.RateLimit.Enabled)
}

func TestLoadConfig_MissingSecret(t *testing.T) {
	old := os.Getenv("JWT_SECRET")
	os.Unsetenv("JWT_SECRET")
	defer os.Setenv("JWT_SECRET", old)

	_, err := LoadConfig()
	require.Error(t, err)
}
