package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Eyy-EyyRon/pokemon-battle-app-sub001/internal/constants"
	"github.com/Eyy-EyyRon/pokemon-battle-app-sub001/internal/domain"
	"github.com/Eyy-EyyRon/pokemon-battle-app-sub001/internal/storage"

	"github.com/rs/zerolog"
)

var ErrInviteNotFound = errors.New("invite code not found")

// InviteRepository keeps the whole registry as one JSON blob. Every write
// is a read-modify-write of that blob; the mutex only serializes writers
// inside this process.
type InviteRepository struct {
	store  storage.Storage
	logger zerolog.Logger
	mu     sync.Mutex
}

func NewInviteRepository(store storage.Storage, logger zerolog.Logger) *InviteRepository {
	return &InviteRepository{
		store:  store,
		logger: logger,
	}
}

func (r *InviteRepository) load(ctx context.Context) (domain.InviteRegistry, error) {
	raw, found, err := r.store.Get(ctx, constants.InviteCodesStorageKey)
	if err != nil {
		return nil, err
	}
	if !found || raw == "" {
		return domain.InviteRegistry{}, nil
	}
	return domain.DecodeInviteRegistry([]byte(raw))
}

func (r *InviteRepository) save(ctx context.Context, registry domain.InviteRegistry) error {
	data, err := domain.EncodeInviteRegistry(registry)
	if err != nil {
		return fmt.Errorf("failed to encode invite registry: %w", err)
	}
	return r.store.Set(ctx, constants.InviteCodesStorageKey, string(data))
}

func (r *InviteRepository) Get(ctx context.Context, code string) (*domain.InviteCode, error) {
	registry, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	invite, ok := registry[code]
	if !ok {
		return nil, ErrInviteNotFound
	}
	return &invite, nil
}

// Put stores invite, replacing any record under the same code.
func (r *InviteRepository) Put(ctx context.Context, invite domain.InviteCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	registry, err := r.load(ctx)
	if err != nil {
		return err
	}
	registry[invite.Code] = invite
	return r.save(ctx, registry)
}

// UpdateStatus overwrites the status of an existing code. It reports false
// without writing when the code is unknown.
func (r *InviteRepository) UpdateStatus(ctx context.Context, code string, status domain.InviteStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	registry, err := r.load(ctx)
	if err != nil {
		return false, err
	}
	invite, ok := registry[code]
	if !ok {
		return false, nil
	}

	previous := invite.Status
	invite.Status = status
	registry[code] = invite
	if err := r.save(ctx, registry); err != nil {
		return false, err
	}

	r.logger.Debug().
		Str("code", code).
		Str("from", string(previous)).
		Str("to", string(status)).
		Msg("invite status updated")
	return true, nil
}
