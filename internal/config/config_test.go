package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"API_KEY", "GEMINI_API_KEY", "REDIS_URL", "AI_MODEL", "MAX_CONCURRENCY", "TIMEZONE"} {
		t.Setenv(key, "")
	}
	cfg := FromEnv()

	assert.Equal(t, "gemini-2.5-flash", cfg.AIModel)
	assert.Equal(t, 2, cfg.MaxConcurrency)
	assert.Equal(t, 90*time.Second, cfg.AIRequestTimeout())
	assert.Equal(t, "Europe/Moscow", cfg.Timezone)
	assert.Empty(t, cfg.AIApiKey)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "gk")
	t.Setenv("MAX_CONCURRENCY", "4")
	t.Setenv("CACHE_TTL", "2h")
	t.Setenv("AI_TIMEOUT", "not-a-number")
	t.Setenv("TELEGRAM_CHANNEL_ID", "-100123")

	cfg := FromEnv()
	assert.Equal(t, "gk", cfg.AIApiKey)
	assert.Equal(t, 4, cfg.MaxConcurrency)
	assert.Equal(t, 2*time.Hour, cfg.CacheTTL)
	assert.Equal(t, 90, cfg.AITimeout)
	assert.Equal(t, int64(-100123), cfg.TelegramChannelID)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port:           "8080",
			MaxConcurrency: 1,
			AITimeout:      30,
			RegionLockTTL:  time.Minute,
			Timezone:       "UTC",
		}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{name: "zero concurrency", mutate: func(c *Config) { c.MaxConcurrency = 0 }, want: "MAX_CONCURRENCY"},
		{name: "zero ai timeout", mutate: func(c *Config) { c.AITimeout = 0 }, want: "AI_TIMEOUT"},
		{name: "lock ttl below ai timeout", mutate: func(c *Config) { c.RegionLockTTL = 20 * time.Second }, want: "REGION_LOCK_TTL"},
		{name: "lock ttl equal to ai timeout", mutate: func(c *Config) { c.RegionLockTTL = 30 * time.Second }, want: "must exceed AI_TIMEOUT"},
		{name: "bad timezone", mutate: func(c *Config) { c.Timezone = "Mars/Olympus" }, want: "TIMEZONE"},
		{name: "bot without channel", mutate: func(c *Config) { c.TelegramBotToken = "t" }, want: "TELEGRAM_CHANNEL_ID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
