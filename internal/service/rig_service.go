package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mainet/internal/domain"
	"mainet/internal/economy"
	"mainet/internal/metrics"
	"mainet/internal/repository"

	"github.com/google/uuid"
)

// RigPurchase is returned after buying a rig
type RigPurchase struct {
	Rig   *domain.MiningRig `json:"rig"`
	State *GameState        `json:"game_state"`
}

// RigService sells and lists mining rigs
type RigService struct {
	store    repository.Store
	balances *BalanceService
	audit    *AuditService
	notifier Notifier
}

func NewRigService(store repository.Store, balances *BalanceService, audit *AuditService, notifier Notifier) *RigService {
	return &RigService{
		store:    store,
		balances: balances,
		audit:    audit,
		notifier: notifierOrNop(notifier),
	}
}

// Catalog returns the purchasable rigs, cheapest first
func (s *RigService) Catalog() []economy.RigSpec {
	return economy.Rigs
}

// List returns the user's rigs, newest first
func (s *RigService) List(ctx context.Context, userID uuid.UUID) ([]*domain.MiningRig, error) {
	rigs, err := s.store.ListRigs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if rigs == nil {
		rigs = []*domain.MiningRig{}
	}
	return rigs, nil
}

// Buy debits the catalog price and adds an active rig.
func (s *RigService) Buy(ctx context.Context, userID uuid.UUID, name string, rigType domain.RigType) (*RigPurchase, error) {
	spec, ok := economy.LookupRig(domain.RigType(strings.ToLower(string(rigType))))
	if !ok {
		return nil, ErrInvalidRigType
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = string(spec.Type)
	}
	if len(name) > 64 {
		return nil, fmt.Errorf("%w: rig_name too long", ErrValidation)
	}

	rig := &domain.MiningRig{
		ID:               uuid.New(),
		UserID:           userID,
		RigName:          name,
		RigType:          spec.Type,
		MiningPower:      spec.Power,
		EfficiencyRating: spec.Efficiency,
		Rarity:           spec.Rarity,
		PurchasePrice:    spec.Cost,
		IsActive:         true,
	}

	p, settlement, err := s.balances.Mutate(ctx, userID, func(tx repository.Tx, p *domain.Progression, now time.Time) error {
		before := p.CurrentBalance
		if err := economy.Debit(p, spec.Cost, now); err != nil {
			return err
		}
		rig.CreatedAt = now
		if err := tx.InsertRig(ctx, rig); err != nil {
			return err
		}
		entry := domain.NewTransaction(userID, domain.TxTypePurchase, before, spec.Cost.Neg(),
			"Purchased "+name, map[string]any{"rig_id": rig.ID, "rig_type": spec.Type})
		entry.CreatedAt = now
		return tx.InsertTransaction(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	// the new rig only accrues from the next reconcile on
	settlement.Hashrate = settlement.Hashrate.Add(rig.Hashrate())

	metrics.RigsPurchased.WithLabelValues(string(spec.Type)).Inc()
	s.audit.LogRigPurchase(ctx, userID, rig)

	gs := newGameState(p, settlement)
	s.notifier.Notify(userID, EventGameStateUpdated, gs)
	return &RigPurchase{Rig: rig, State: gs}, nil
}
