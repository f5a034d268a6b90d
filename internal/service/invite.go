package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Eyy-EyyRon/pokemon-battle-app-sub001/internal/constants"
	"github.com/Eyy-EyyRon/pokemon-battle-app-sub001/internal/domain"
	"github.com/Eyy-EyyRon/pokemon-battle-app-sub001/internal/repository"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

// InviteService runs the host/guest handshake: the host generates a code,
// the guest validates it, and the battle moves it through active to
// completed. Storage failures never escape; callers only see booleans.
type InviteService struct {
	repo   *repository.InviteRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewInviteService(repo *repository.InviteRepository, logger zerolog.Logger) *InviteService {
	return &InviteService{repo: repo, logger: logger, now: time.Now}
}

// Generate draws a fresh code and registers it as waiting. The code is
// returned even when the registry write fails. Collisions are not checked.
func (s *InviteService) Generate(ctx context.Context) (string, error) {
	code, err := gonanoid.Generate(constants.InviteCodeAlphabet, constants.InviteCodeLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate invite code: %w", err)
	}

	invite := domain.InviteCode{
		Code:      code,
		CreatedAt: domain.NewTimestamp(s.now()),
		Status:    domain.InviteStatusWaiting,
	}
	if err := s.repo.Put(ctx, invite); err != nil {
		s.logger.Error().Err(err).Str("code", code).Msg("failed to store invite code")
		return code, nil
	}

	s.logger.Info().Str("code", code).Msg("invite code generated")
	return code, nil
}

// Validate reports whether code exists and is still waiting for a guest.
// It does not change the status. Callers normalize to upper case first.
func (s *InviteService) Validate(ctx context.Context, code string) bool {
	invite, err := s.repo.Get(ctx, code)
	if errors.Is(err, repository.ErrInviteNotFound) {
		s.logger.Debug().Str("code", code).Msg("invite code not found")
		return false
	}
	if err != nil {
		s.logger.Error().Err(err).Str("code", code).Msg("failed to read invite registry")
		return false
	}
	return invite.Status == domain.InviteStatusWaiting
}

// UpdateStatus overwrites the status of an existing code. Any transition
// between the three states is allowed.
func (s *InviteService) UpdateStatus(ctx context.Context, code string, status domain.InviteStatus) bool {
	if !status.Valid() {
		s.logger.Warn().Str("code", code).Str("status", string(status)).Msg("rejecting unknown invite status")
		return false
	}

	updated, err := s.repo.UpdateStatus(ctx, code, status)
	if err != nil {
		s.logger.Error().Err(err).Str("code", code).Msg("failed to update invite status")
		return false
	}
	if !updated {
		s.logger.Debug().Str("code", code).Msg("invite code not found, nothing updated")
	}
	return updated
}
