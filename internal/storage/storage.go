package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Eyy-EyyRon/pokemon-battle-app-sub001/internal/config"
	"github.com/Eyy-EyyRon/pokemon-battle-app-sub001/internal/database"
	"github.com/Eyy-EyyRon/pokemon-battle-app-sub001/internal/db"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// Storage is a string key-value store holding JSON-serialized collections.
type Storage interface {
	// Get reports found=false for a key that was never set.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
}

// SQLiteStorage persists values in the local_storage table.
type SQLiteStorage struct {
	queries *db.Queries
	logger  zerolog.Logger
}

func NewSQLiteStorage(sqlDB *sql.DB, logger zerolog.Logger) *SQLiteStorage {
	return &SQLiteStorage{
		queries: db.New(sqlDB),
		logger:  logger,
	}
}

func (s *SQLiteStorage) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.queries.GetValue(ctx, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %q: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLiteStorage) Set(ctx context.Context, key, value string) error {
	err := s.queries.SetValue(ctx, db.SetValueParams{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	s.logger.Debug().Str("key", key).Int("bytes", len(value)).Msg("local value written")
	return nil
}

// MemoryStorage keeps values for the lifetime of the process.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (m *MemoryStorage) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	return value, ok, nil
}

func (m *MemoryStorage) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

type Params struct {
	fx.In

	Config    *config.Config
	Logger    zerolog.Logger
	Lifecycle fx.Lifecycle
}

// New builds the configured local fallback store and closes the database
// on shutdown.
func New(p Params) (Storage, error) {
	if p.Config.StorageDriver == config.StorageDriverMemory {
		p.Logger.Warn().Msg("using in-memory local store, data will not survive restarts")
		return NewMemoryStorage(), nil
	}

	sqlDB, err := database.New(p.Config, p.Logger)
	if err != nil {
		return nil, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if err := sqlDB.Close(); err != nil {
				p.Logger.Warn().Err(err).Msg("error closing local store")
				return err
			}
			return nil
		},
	})

	return NewSQLiteStorage(sqlDB, p.Logger), nil
}
