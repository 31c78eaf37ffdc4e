package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("SLACK_TOKEN", "xoxb-test")
	t.Setenv("CHANNEL_ID", "C123456")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "xoxb-test", cfg.SlackToken)
	assert.Equal(t, "C123456", cfg.ChannelID)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 30, cfg.LookbackDays)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, "America/New_York", cfg.Timezone)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_MissingToken(t *testing.T) {
	t.Setenv("SLACK_TOKEN", "")
	t.Setenv("CHANNEL_ID", "C123456")

	_, err := Load()
	assert.ErrorContains(t, err, "SLACK_TOKEN")
}

func TestLoad_MissingChannel(t *testing.T) {
	t.Setenv("SLACK_TOKEN", "xoxb-test")
	t.Setenv("CHANNEL_ID", "")

	_, err := Load()
	assert.ErrorContains(t, err, "CHANNEL_ID")
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9999")
	t.Setenv("LOOKBACK_DAYS", "14")
	t.Setenv("CACHE_TTL", "15m")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, 14, cfg.LookbackDays)
	assert.Equal(t, 15*time.Minute, cfg.CacheTTL)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_InvalidLookback(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LOOKBACK_DAYS", "-5")

	_, err := Load()
	assert.ErrorContains(t, err, "LOOKBACK_DAYS")
}

func TestLocation(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TIMEZONE", "America/New_York")

	cfg, err := Load()
	require.NoError(t, err)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", loc.String())
}

func TestLocation_Invalid(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TIMEZONE", "Not/AZone")

	cfg, err := Load()
	require.NoError(t, err)

	_, err = cfg.Location()
	assert.Error(t, err)
}
