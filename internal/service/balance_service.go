package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mainet/internal/domain"
	"mainet/internal/economy"
	"mainet/internal/lock"
	"mainet/internal/repository"

	"github.com/google/uuid"
)

// Mutation runs inside the user's lock and DB transaction, after the
// progression has been reconciled to now. Returning an error rolls back
// everything, including the reconcile.
type Mutation func(tx repository.Tx, p *domain.Progression, now time.Time) error

// BalanceService serializes every change to a user's progression:
// per-user lock, then a transaction holding the row lock, then reconcile,
// then the mutation, then persist.
type BalanceService struct {
	store      repository.Store
	locker     lock.Locker
	maxOffline time.Duration
	now        func() time.Time
}

func NewBalanceService(store repository.Store, locker lock.Locker, maxOffline time.Duration) *BalanceService {
	if locker == nil {
		locker = lock.NewLocal()
	}
	return &BalanceService{
		store:      store,
		locker:     locker,
		maxOffline: maxOffline,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Mutate applies fn to the reconciled progression and persists the result.
// fn may be nil, which makes this a plain reconcile-and-save.
func (s *BalanceService) Mutate(ctx context.Context, userID uuid.UUID, fn Mutation) (*domain.Progression, economy.Settlement, error) {
	unlock, err := s.locker.Lock(ctx, lock.UserKey(userID))
	if err != nil {
		return nil, economy.Settlement{}, fmt.Errorf("lock user %s: %w", userID, err)
	}
	defer unlock()

	var (
		out        *domain.Progression
		settlement economy.Settlement
	)
	err = s.store.WithinTx(ctx, func(tx repository.Tx) error {
		now := s.now()
		p, err := tx.LockProgression(ctx, userID, now)
		if err != nil {
			return err
		}
		hashrate, err := tx.RigHashrate(ctx, userID)
		if err != nil {
			return err
		}

		settlement = economy.Reconcile(p, now, s.maxOffline, hashrate)
		if fn != nil {
			if err := fn(tx, p, now); err != nil {
				return err
			}
		}
		if err := tx.UpdateProgression(ctx, p); err != nil {
			return err
		}
		out = p
		return nil
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, economy.Settlement{}, ErrUserNotFound
	}
	if err != nil {
		return nil, economy.Settlement{}, err
	}
	return out, settlement, nil
}

// Now is the service clock
func (s *BalanceService) Now() time.Time { return s.now() }
