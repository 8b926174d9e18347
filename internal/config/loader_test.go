package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfigFile(t, "server:\n  port: 9090\n"))

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "entry_queue", cfg.AMQP.Queue)
	assert.Equal(t, "entry_queue_dlx", cfg.AMQP.DeadLetterQueue)
	assert.Equal(t, 30, cfg.AMQP.Prefetch)
	assert.Equal(t, 3, cfg.AMQP.MaxRetries)
	assert.Equal(t, 6, cfg.OTP.Digits)
	assert.Equal(t, 5, cfg.OTP.ExpiryMinutes)
	assert.Equal(t, 86400, cfg.Session.TTLSeconds)
	assert.Equal(t, "sentiment", cfg.Worker.SentimentAnalyzer)
	assert.False(t, cfg.Security.RotateRefreshTokens)
	// Derived from the default 7-day refresh expiry.
	assert.Equal(t, 7*24*60, cfg.JWT.RefreshExpiryMinutes)
}

func TestLoadConfigRefreshExpiryDays(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfigFile(t, "{}\n"))
	t.Setenv("REFRESH_TOKEN_EXPIRY_DAYS", "1")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 24*60, cfg.JWT.RefreshExpiryMinutes)
}

func TestLoadConfigExplicitRefreshMinutesWins(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfigFile(t, "jwt:\n  refresh_expiry_minutes: 90\n"))
	t.Setenv("REFRESH_TOKEN_EXPIRY_DAYS", "1")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 90, cfg.JWT.RefreshExpiryMinutes)
}

func TestLoadConfigLegacyEnvNames(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfigFile(t, "{}\n"))
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("ACCOUNT_LOCK_MAX_COUNT", "7")
	t.Setenv("SENTIMENT_ANALYSIS", "remote")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, 7, cfg.Security.AccountLockMaxCount)
	assert.Equal(t, "remote", cfg.Worker.SentimentAnalyzer)
}
