package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "STORAGE_DRIVER", "GEMINI_API_KEY", "API_KEY", "GEMINI_TEMPERATURE",
		"CORS_ORIGINS", "READ_TIMEOUT", "RATE_LIMIT_BURST",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Empty(t, cfg.LLM.APIKey)
	assert.Equal(t, "gemini-2.5-flash", cfg.LLM.Model)
	assert.InDelta(t, 0.5, cfg.LLM.Temperature, 1e-6)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 5, cfg.Server.RateLimitBurst)
	assert.NotEmpty(t, cfg.Server.CORSOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_DRIVER", "Redis")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "fallback-key")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("GEMINI_TEMPERATURE", "0.9")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, StorageRedis, cfg.Storage.Driver)
	assert.Equal(t, "fallback-key", cfg.LLM.APIKey)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.InDelta(t, 0.9, cfg.LLM.Temperature, 1e-6)
}

func TestLoad_ZeroTemperatureIsKept(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("GEMINI_TEMPERATURE", "0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Zero(t, cfg.LLM.Temperature)
}

func TestLoad_PrimaryKeyWins(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "primary")
	t.Setenv("API_KEY", "fallback")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "primary", cfg.LLM.APIKey)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "sqlite")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("temperature out of range", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "")
		t.Setenv("GEMINI_TEMPERATURE", "3")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("unparsable numbers fall back to defaults", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "")
		t.Setenv("GEMINI_TEMPERATURE", "")
		t.Setenv("REDIS_DB", "not-a-number")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 0, cfg.Redis.DB)
	})
}
