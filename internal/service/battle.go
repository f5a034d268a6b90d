package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/Eyy-EyyRon/pokemon-battle-app-sub001/internal/api"
	"github.com/Eyy-EyyRon/pokemon-battle-app-sub001/internal/config"
	"github.com/Eyy-EyyRon/pokemon-battle-app-sub001/internal/domain"
	"github.com/Eyy-EyyRon/pokemon-battle-app-sub001/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const historyFlightKey = "history"

// BattleService prefers the remote store and degrades to the local copy.
// The two copies are never merged: a successful remote read replaces the
// local collection, so the last source that answered wins.
type BattleService struct {
	remote         *api.RemoteClient
	local          *repository.BattleRepository
	logger         zerolog.Logger
	saveTimeout    time.Duration
	historyTimeout time.Duration
	history        singleflight.Group
}

func NewBattleService(cfg *config.Config, remote *api.RemoteClient, local *repository.BattleRepository, logger zerolog.Logger) *BattleService {
	return &BattleService{
		remote:         remote,
		local:          local,
		logger:         logger,
		saveTimeout:    cfg.RemoteSaveTimeout,
		historyTimeout: cfg.RemoteHistoryTimeout,
	}
}

// SaveBattleResult writes result remotely or, if that fails, appends it to
// the local collection. Exactly one of the two stores receives it. An error
// is returned only for an invalid result or when the local write fails too.
func (s *BattleService) SaveBattleResult(ctx context.Context, result domain.BattleResult) (domain.BattleResult, error) {
	if err := result.Validate(); err != nil {
		return domain.BattleResult{}, err
	}
	result.ID = ""

	remoteCtx, cancel := context.WithTimeout(ctx, s.saveTimeout)
	err := s.remote.CreateBattle(remoteCtx, result)
	cancel()
	if err == nil {
		s.logger.Info().
			Str("winner_id", string(result.WinnerID)).
			Str("loser_id", string(result.LoserID)).
			Msg("battle saved to remote store")
		return result, nil
	}

	s.logger.Warn().Err(err).Msg("remote save failed, falling back to local store")

	saved, err := s.local.Append(ctx, result)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to save battle to local store")
		return domain.BattleResult{}, fmt.Errorf("failed to save battle result: %w", err)
	}

	s.logger.Info().Str("id", string(saved.ID)).Msg("battle saved to local store")
	return saved, nil
}

// GetBattleHistory returns all battles newest first. It never fails; with
// neither store available the result is empty. Concurrent callers share one
// lookup.
func (s *BattleService) GetBattleHistory(ctx context.Context) []domain.BattleResult {
	v, _, _ := s.history.Do(historyFlightKey, func() (interface{}, error) {
		return s.loadHistory(ctx), nil
	})

	results, ok := v.([]domain.BattleResult)
	if !ok || results == nil {
		return []domain.BattleResult{}
	}
	return slices.Clone(results)
}

func (s *BattleService) loadHistory(ctx context.Context) []domain.BattleResult {
	remoteCtx, cancel := context.WithTimeout(ctx, s.historyTimeout)
	results, err := s.remote.ListBattles(remoteCtx)
	cancel()
	if err == nil {
		if err := s.local.ReplaceAll(ctx, results); err != nil {
			s.logger.Error().Err(err).Msg("failed to refresh local battle history")
		}
		s.logger.Debug().Int("count", len(results)).Msg("battle history loaded from remote store")
		return results
	}

	s.logger.Warn().Err(err).Msg("remote history unavailable, reading local store")

	results, err = s.local.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to read local battle history")
		return []domain.BattleResult{}
	}
	domain.SortByDateDesc(results)
	return results
}
