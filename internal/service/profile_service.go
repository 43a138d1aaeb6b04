package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mainet/internal/domain"
	"mainet/internal/repository"

	"github.com/google/uuid"
)

const recentTransactionsOnProfile = 10

// Profile is the combined account view
type Profile struct {
	User               *domain.User          `json:"user"`
	GameState          *GameState            `json:"game_state"`
	MiningRigs         []*domain.MiningRig   `json:"mining_rigs"`
	RecentTransactions []*domain.Transaction `json:"recent_transactions"`
}

// ProfileService reads and edits account details
type ProfileService struct {
	store repository.Store
	game  *GameService
}

func NewProfileService(store repository.Store, game *GameService) *ProfileService {
	return &ProfileService{store: store, game: game}
}

// Get returns the account with its reconciled game state, rigs and last transactions.
func (s *ProfileService) Get(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	u, err := s.store.UserByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	state, err := s.game.State(ctx, userID)
	if err != nil {
		return nil, err
	}
	rigs, err := s.store.ListRigs(ctx, userID)
	if err != nil {
		return nil, err
	}
	txs, err := s.store.ListTransactions(ctx, userID, recentTransactionsOnProfile, 0)
	if err != nil {
		return nil, err
	}
	if rigs == nil {
		rigs = []*domain.MiningRig{}
	}
	if txs == nil {
		txs = []*domain.Transaction{}
	}

	return &Profile{User: u, GameState: state, MiningRigs: rigs, RecentTransactions: txs}, nil
}

// Update edits username, full name, bio and avatar. Username must stay unique.
func (s *ProfileService) Update(ctx context.Context, userID uuid.UUID, upd domain.ProfileUpdate) (*domain.User, error) {
	if upd.Empty() {
		return nil, fmt.Errorf("%w: nothing to update", ErrValidation)
	}
	if upd.Username != nil {
		name := strings.TrimSpace(*upd.Username)
		if !validUsername(name) {
			return nil, fmt.Errorf("%w: invalid username", ErrValidation)
		}
		upd.Username = &name

		taken, err := s.store.UsernameTaken(ctx, name, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrUsernameTaken
		}
	}
	if upd.Bio != nil && len(*upd.Bio) > 500 {
		return nil, fmt.Errorf("%w: bio too long", ErrValidation)
	}

	u, err := s.store.UpdateProfile(ctx, userID, upd)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, ErrUserNotFound
	case errors.Is(err, repository.ErrDuplicate):
		return nil, ErrUsernameTaken
	case err != nil:
		return nil, err
	}
	return u, nil
}

// Transactions pages through the user's ledger, newest first
func (s *ProfileService) Transactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Transaction, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	txs, err := s.store.ListTransactions(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	if txs == nil {
		txs = []*domain.Transaction{}
	}
	return txs, nil
}
