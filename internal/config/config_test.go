package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, ":3000", cfg.HTTPAddr)
	assert.Equal(t, 10*time.Second, cfg.ExchangeTimeout)
	assert.Equal(t, 30*time.Second, cfg.ScanInterval)
	assert.Equal(t, 200*time.Millisecond, cfg.PacingFloor)
	assert.Equal(t, 2*time.Second, cfg.PacingBudget)
	assert.Equal(t, 15*time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, 100, cfg.RateLimitBurst)
	assert.Equal(t, int64(10240), cfg.BodyLimitBytes)
	assert.Equal(t, "UAH", cfg.DefaultFiat)
	assert.Empty(t, cfg.TelegramBotToken)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"PROXY_LIST":    "http://a:1,http://b:2",
		"SCAN_INTERVAL": "45s",
		"DB_DRIVER":     "postgres",
	}))
	require.NoError(t, err)

	assert.Equal(t, "http://a:1,http://b:2", cfg.ProxyList)
	assert.Equal(t, 45*time.Second, cfg.ScanInterval)
	assert.Equal(t, "postgres", cfg.DBDriver)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{"SCAN_INTERVAL": "soon"}))
	assert.Error(t, err)
}
