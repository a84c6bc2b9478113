package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HISTORY_BACKEND", "")
	t.Setenv("PATH_CACHE_TTL", "")
	t.Setenv("HISTORY_MAX_ITEMS", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.HistoryBackend)
	assert.Equal(t, 50, cfg.HistoryMaxItems)
	assert.Equal(t, 24*time.Hour, cfg.PathCacheTTL)
	assert.Equal(t, "traffic_search_history_", cfg.HistoryKeyPrefix)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("unknown backend", func(t *testing.T) {
		t.Setenv("HISTORY_BACKEND", "cassandra")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("postgres without url", func(t *testing.T) {
		t.Setenv("HISTORY_BACKEND", "postgres")
		t.Setenv("DATABASE_URL", "")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("non-numeric cap", func(t *testing.T) {
		t.Setenv("HISTORY_BACKEND", "memory")
		t.Setenv("HISTORY_MAX_ITEMS", "lots")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("zero ttl", func(t *testing.T) {
		t.Setenv("HISTORY_BACKEND", "memory")
		t.Setenv("HISTORY_MAX_ITEMS", "")
		t.Setenv("PATH_CACHE_TTL", "0s")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("bad ttl", func(t *testing.T) {
		t.Setenv("HISTORY_BACKEND", "memory")
		t.Setenv("HISTORY_MAX_ITEMS", "")
		t.Setenv("PATH_CACHE_TTL", "soon")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestLoadCORSOrigins(t *testing.T) {
	t.Setenv("HISTORY_BACKEND", "memory")
	t.Setenv("HISTORY_MAX_ITEMS", "")
	t.Setenv("PATH_CACHE_TTL", "")
	t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}
