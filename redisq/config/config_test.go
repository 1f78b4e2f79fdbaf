package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosom/localrank/redisq/config"
)

func Test_NewRedisConfig_Defaults(t *testing.T) {
	cfg, err := config.NewRedisConfig()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 6379, cfg.Port)
	assert.Equal(t, 0, cfg.DB)
	assert.Equal(t, 10, cfg.Workers)
	assert.Equal(t, config.DefaultQueuePriorities, cfg.QueuePriorities)
}

func Test_NewRedisConfig_FromEnv(t *testing.T) {
	t.Setenv("REDIS_HOST", "redis.internal")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("REDIS_WORKERS", "4")

	cfg, err := config.NewRedisConfig()
	require.NoError(t, err)

	assert.Equal(t, "redis.internal", cfg.Host)
	assert.Equal(t, 6380, cfg.Port)
	assert.Equal(t, 2, cfg.DB)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "redis.internal:6380", cfg.GetRedisAddr())
}

func Test_NewRedisConfig_FromURL(t *testing.T) {
	t.Setenv("REDIS_URL", "redis://:secret@queue.internal:6390/3")

	cfg, err := config.NewRedisConfig()
	require.NoError(t, err)

	assert.Equal(t, "queue.internal", cfg.Host)
	assert.Equal(t, 6390, cfg.Port)
	assert.Equal(t, "secret", cfg.Password)
	assert.Equal(t, 3, cfg.DB)
}

func Test_NewRedisConfig_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"port out of range", "REDIS_PORT", "99999"},
		{"port not a number", "REDIS_PORT", "abc"},
		{"db out of range", "REDIS_DB", "42"},
		{"workers out of range", "REDIS_WORKERS", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := config.NewRedisConfig()
			require.Error(t, err)
		})
	}
}

func Test_GetRedisAddr_IPv6(t *testing.T) {
	cfg := &config.RedisConfig{Host: "::1", Port: 6379}

	assert.Equal(t, "[::1]:6379", cfg.GetRedisAddr())
}
