package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"REMOTE_BASE_URL", "DB_PATH", "STORAGE_DRIVER", "SERVER_PORT",
		"LOG_LEVEL", "REMOTE_SAVE_TIMEOUT", "REMOTE_HISTORY_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3001", cfg.RemoteBaseURL)
	assert.Equal(t, "pokemon_battle.db", cfg.DBPath)
	assert.Equal(t, StorageDriverSQLite, cfg.StorageDriver)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 3*time.Second, cfg.RemoteSaveTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.RemoteHistoryTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("REMOTE_BASE_URL", "http://mock:4000/")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("REMOTE_SAVE_TIMEOUT", "1s")
	t.Setenv("REMOTE_HISTORY_TIMEOUT", "250ms")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://mock:4000/", cfg.RemoteBaseURL)
	assert.Equal(t, StorageDriverMemory, cfg.StorageDriver)
	assert.Equal(t, time.Second, cfg.RemoteSaveTimeout)
	assert.Equal(t, 250*time.Millisecond, cfg.RemoteHistoryTimeout)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string][2]string{
		"bad duration":      {"REMOTE_SAVE_TIMEOUT", "soon"},
		"negative duration": {"REMOTE_HISTORY_TIMEOUT", "-1s"},
		"relative url":      {"REMOTE_BASE_URL", "localhost"},
		"unknown driver":    {"STORAGE_DRIVER", "indexeddb"},
	}
	for name, kv := range tests {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(kv[0], kv[1])

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
