package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	viper.Reset()
	for _, key := range []string{"PORT", "STORE_DRIVER", "QUEUE_MAX_RETRIES", "QUEUE_MAX_AGE", "NOTIFY_DISPATCH_TIMEOUT", "CONNECTIVITY_PROBE_INTERVAL", "RATE_LIMIT"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StoreDriverPgsql, cfg.StoreDriver)
	assert.Equal(t, 3, cfg.QueueMaxRetries)
	assert.Equal(t, 30*24*time.Hour, cfg.QueueMaxAge)
	assert.Equal(t, 8*time.Second, cfg.NotifyDispatchTimeout)
	assert.Equal(t, 15*time.Second, cfg.ConnectivityProbeInterval)
	assert.Equal(t, "100-M", cfg.RateLimit)
}

func TestLoadConfigFromEnv(t *testing.T) {
	viper.Reset()
	t.Setenv("STORE_DRIVER", "MEMORY")
	t.Setenv("QUEUE_MAX_RETRIES", "5")
	t.Setenv("SCHEDULER_INTERVAL", "10m")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, StoreDriverMemory, cfg.StoreDriver)
	assert.Equal(t, 5, cfg.QueueMaxRetries)
	assert.Equal(t, 10*time.Minute, cfg.SchedulerInterval)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowOrigins)
}

func TestInvalidDurationFallsBack(t *testing.T) {
	viper.Reset()
	t.Setenv("QUEUE_GC_INTERVAL", "soon")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, time.Hour, cfg.QueueGCInterval)
}
