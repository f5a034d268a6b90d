package repository

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/Eyy-EyyRon/pokemon-battle-app-sub001/internal/constants"
	"github.com/Eyy-EyyRon/pokemon-battle-app-sub001/internal/domain"
	"github.com/Eyy-EyyRon/pokemon-battle-app-sub001/internal/storage"

	"github.com/rs/zerolog"
)

// BattleRepository is the local copy of the battle history, stored as a
// single JSON array that is rewritten on every change.
type BattleRepository struct {
	store  storage.Storage
	logger zerolog.Logger
	now    func() time.Time
	mu     sync.Mutex
}

func NewBattleRepository(store storage.Storage, logger zerolog.Logger) *BattleRepository {
	return &BattleRepository{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// List returns the stored collection in storage order.
func (r *BattleRepository) List(ctx context.Context) ([]domain.BattleResult, error) {
	raw, found, err := r.store.Get(ctx, constants.BattlesStorageKey)
	if err != nil {
		return nil, err
	}
	if !found || raw == "" {
		return []domain.BattleResult{}, nil
	}
	return domain.DecodeBattleResults([]byte(raw))
}

// Append assigns a time-derived id to result and adds it to the end of the
// collection.
func (r *BattleRepository) Append(ctx context.Context, result domain.BattleResult) (domain.BattleResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	results, err := r.List(ctx)
	if err != nil {
		return domain.BattleResult{}, err
	}

	result.ID = domain.ID(strconv.FormatInt(r.now().UnixMilli(), 10))
	results = append(results, result)

	if err := r.write(ctx, results); err != nil {
		return domain.BattleResult{}, err
	}
	r.logger.Debug().Str("id", string(result.ID)).Int("count", len(results)).Msg("battle appended locally")
	return result, nil
}

// ReplaceAll overwrites the local collection wholesale.
func (r *BattleRepository) ReplaceAll(ctx context.Context, results []domain.BattleResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.write(ctx, results)
}

func (r *BattleRepository) write(ctx context.Context, results []domain.BattleResult) error {
	data, err := domain.EncodeBattleResults(results)
	if err != nil {
		return fmt.Errorf("failed to encode battles: %w", err)
	}
	return r.store.Set(ctx, constants.BattlesStorageKey, string(data))
}
