package service

import (
	"context"
	"strconv"
	"time"

	"mainet/internal/domain"
	"mainet/internal/economy"
	"mainet/internal/metrics"
	"mainet/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UpgradeOffer is one catalog entry as seen by a particular user
type UpgradeOffer struct {
	economy.UpgradeDef
	Level     int             `json:"current_level"`
	NextPrice decimal.Decimal `json:"next_price"`
	Maxed     bool            `json:"maxed"`
}

// PurchaseResult is returned after a successful upgrade purchase
type PurchaseResult struct {
	UpgradeType domain.UpgradeType `json:"upgrade_type"`
	NewLevel    int                `json:"new_level"`
	Price       decimal.Decimal    `json:"price"`
	NextPrice   decimal.Decimal    `json:"next_price"`
	Maxed       bool               `json:"maxed"`
	State       *GameState         `json:"game_state"`
}

// UpgradeService sells levels on the upgrade tracks
type UpgradeService struct {
	store    repository.Store
	balances *BalanceService
	audit    *AuditService
	notifier Notifier
}

func NewUpgradeService(store repository.Store, balances *BalanceService, audit *AuditService, notifier Notifier) *UpgradeService {
	return &UpgradeService{
		store:    store,
		balances: balances,
		audit:    audit,
		notifier: notifierOrNop(notifier),
	}
}

func offer(def economy.UpgradeDef, level int) UpgradeOffer {
	return UpgradeOffer{
		UpgradeDef: def,
		Level:      level,
		NextPrice:  economy.UpgradePrice(def, level),
		Maxed:      level >= def.MaxLevel,
	}
}

// Catalog lists every track. With a nil user all levels are 0.
func (s *UpgradeService) Catalog(ctx context.Context, userID *uuid.UUID) ([]UpgradeOffer, error) {
	levels := map[domain.UpgradeType]int{}
	if userID != nil {
		owned, err := s.store.ListUpgrades(ctx, *userID)
		if err != nil {
			return nil, err
		}
		for _, l := range owned {
			levels[l.UpgradeType] = l.Level
		}
	}

	res := make([]UpgradeOffer, 0, len(domain.UpgradeTypes))
	for _, t := range domain.UpgradeTypes {
		res = append(res, offer(economy.Upgrades[t], levels[t]))
	}
	return res, nil
}

// MyUpgrades returns the tracks the user has bought at least once
func (s *UpgradeService) MyUpgrades(ctx context.Context, userID uuid.UUID) ([]domain.UpgradeLevel, error) {
	levels, err := s.store.ListUpgrades(ctx, userID)
	if err != nil {
		return nil, err
	}
	if levels == nil {
		levels = []domain.UpgradeLevel{}
	}
	return levels, nil
}

// Buy purchases the next level of the named track.
func (s *UpgradeService) Buy(ctx context.Context, userID uuid.UUID, label string) (*PurchaseResult, error) {
	typ, ok := domain.ParseUpgradeType(label)
	if !ok {
		return nil, ErrInvalidUpgradeType
	}
	def := economy.Upgrades[typ]

	var (
		price    decimal.Decimal
		newLevel int
	)
	p, settlement, err := s.balances.Mutate(ctx, userID, func(tx repository.Tx, p *domain.Progression, now time.Time) error {
		lvl, err := tx.UpgradeLevel(ctx, userID, typ)
		if err != nil {
			return err
		}

		before := p.CurrentBalance
		price, err = economy.ApplyUpgrade(p, def, lvl.Level, now)
		if err != nil {
			return err
		}

		lvl.Level++
		lvl.TotalCost = lvl.TotalCost.Add(price)
		lvl.UpdatedAt = now
		if err := tx.SaveUpgradeLevel(ctx, &lvl); err != nil {
			return err
		}
		newLevel = lvl.Level

		entry := domain.NewTransaction(userID, domain.TxTypeUpgrade, before, price.Neg(),
			"Upgrade "+def.Name+" to level "+strconv.Itoa(newLevel),
			map[string]any{"upgrade_type": typ, "level": newLevel})
		entry.CreatedAt = now
		return tx.InsertTransaction(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	metrics.UpgradesPurchased.WithLabelValues(string(typ)).Inc()
	s.audit.LogUpgrade(ctx, userID, typ, newLevel, price)

	next := offer(def, newLevel)
	res := &PurchaseResult{
		UpgradeType: typ,
		NewLevel:    newLevel,
		Price:       price,
		NextPrice:   next.NextPrice,
		Maxed:       next.Maxed,
		State:       newGameState(p, settlement),
	}
	s.notifier.Notify(userID, EventUpgradePurchased, res)
	return res, nil
}
