package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/Eyy-EyyRon/pokemon-battle-app-sub001/internal/constants"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

const (
	StorageDriverSQLite = "sqlite"
	StorageDriverMemory = "memory"
)

type Config struct {
	RemoteBaseURL        string
	DBPath               string
	StorageDriver        string
	ServerPort           string
	LogLevel             string
	RemoteSaveTimeout    time.Duration
	RemoteHistoryTimeout time.Duration

	// set when a .env file was found and applied
	EnvFileLoaded bool
}

func Load() (*Config, error) {
	envLoaded := godotenv.Load() == nil

	cfg := &Config{
		RemoteBaseURL: getEnv("REMOTE_BASE_URL", constants.DefaultRemoteBaseURL),
		DBPath:        getEnv("DB_PATH", "pokemon_battle.db"),
		StorageDriver: getEnv("STORAGE_DRIVER", StorageDriverSQLite),
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		EnvFileLoaded: envLoaded,
	}

	var err error
	if cfg.RemoteSaveTimeout, err = getDuration("REMOTE_SAVE_TIMEOUT", constants.RemoteSaveTimeout); err != nil {
		return nil, err
	}
	if cfg.RemoteHistoryTimeout, err = getDuration("REMOTE_HISTORY_TIMEOUT", constants.RemoteHistoryTimeout); err != nil {
		return nil, err
	}

	u, err := url.Parse(cfg.RemoteBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("REMOTE_BASE_URL %q is not an absolute URL", cfg.RemoteBaseURL)
	}

	switch cfg.StorageDriver {
	case StorageDriverSQLite, StorageDriverMemory:
	default:
		return nil, fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", StorageDriverSQLite, StorageDriverMemory, cfg.StorageDriver)
	}

	return cfg, nil
}

// Log reports the effective configuration once the logger exists.
func Log(cfg *Config, logger zerolog.Logger) {
	if !cfg.EnvFileLoaded {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	logger.Info().
		Str("remote_base_url", cfg.RemoteBaseURL).
		Str("storage_driver", cfg.StorageDriver).
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Dur("remote_save_timeout", cfg.RemoteSaveTimeout).
		Dur("remote_history_timeout", cfg.RemoteHistoryTimeout).
		Msg("configuration loaded")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, d)
	}
	return d, nil
}

var Module = fx.Options(
	fx.Provide(Load),
	fx.Invoke(Log),
)
