package service

import (
	"context"
	"time"

	"mainet/internal/domain"
	"mainet/internal/economy"
	"mainet/internal/metrics"
	"mainet/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GameState is the reconciled progression plus derived rates
type GameState struct {
	*domain.Progression
	RigHashrate    decimal.Decimal  `json:"rig_hashrate"`
	MiningRate     decimal.Decimal  `json:"effective_mining_rate"` // per minute
	OfflineRewards *decimal.Decimal `json:"offline_rewards,omitempty"`
}

func newGameState(p *domain.Progression, s economy.Settlement) *GameState {
	gs := &GameState{
		Progression: p,
		RigHashrate: s.Hashrate,
		MiningRate:  economy.EffectiveMiningRate(p.AutoMiningRate, s.Hashrate),
	}
	if s.Mined.IsPositive() {
		mined := s.Mined
		gs.OfflineRewards = &mined
	}
	return gs
}

// SettingsUpdate carries the cosmetic fields a client may save
type SettingsUpdate struct {
	Achievements []string       `json:"achievements"`
	GameSettings map[string]any `json:"game_settings"`
}

// TransferResult reports a move from current_balance to main_balance
type TransferResult struct {
	Amount         decimal.Decimal `json:"transferred_amount"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	MainBalance    decimal.Decimal `json:"main_balance"`
}

// GameService handles clicks, idle accrual and balance transfers
type GameService struct {
	balances *BalanceService
	audit    *AuditService
	notifier Notifier
}

// NewGameService creates a new game service
func NewGameService(balances *BalanceService, audit *AuditService, notifier Notifier) *GameService {
	return &GameService{
		balances: balances,
		audit:    audit,
		notifier: notifierOrNop(notifier),
	}
}

// State reconciles and returns the user's game state, creating it on first use.
func (s *GameService) State(ctx context.Context, userID uuid.UUID) (*GameState, error) {
	p, settlement, err := s.balances.Mutate(ctx, userID, nil)
	if err != nil {
		return nil, err
	}
	return newGameState(p, settlement), nil
}

// Click spends energy for a batch of clicks and credits the yield.
func (s *GameService) Click(ctx context.Context, userID uuid.UUID, clicks int64) (economy.ClickResult, error) {
	if clicks <= 0 {
		return economy.ClickResult{}, ErrInvalidClicks
	}

	var res economy.ClickResult
	p, settlement, err := s.balances.Mutate(ctx, userID, func(_ repository.Tx, p *domain.Progression, now time.Time) error {
		var err error
		res, err = economy.ApplyClick(p, clicks, now)
		return err
	})
	if err != nil {
		return economy.ClickResult{}, err
	}

	metrics.Clicks.Add(float64(clicks))
	s.notifier.Notify(userID, EventGameStateUpdated, newGameState(p, settlement))
	return res, nil
}

// SaveSettings stores achievements and game settings. Economy fields are
// owned by the server and cannot be written by clients.
func (s *GameService) SaveSettings(ctx context.Context, userID uuid.UUID, upd SettingsUpdate) (*GameState, error) {
	p, settlement, err := s.balances.Mutate(ctx, userID, func(_ repository.Tx, p *domain.Progression, now time.Time) error {
		if upd.Achievements != nil {
			p.Achievements = dedupe(upd.Achievements)
		}
		for k, v := range upd.GameSettings {
			p.GameSettings[k] = v
		}
		p.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	gs := newGameState(p, settlement)
	s.notifier.Notify(userID, EventGameStateUpdated, gs)
	return gs, nil
}

// Transfer moves the whole game balance into main_balance.
func (s *GameService) Transfer(ctx context.Context, userID uuid.UUID) (*TransferResult, error) {
	var amount decimal.Decimal
	p, settlement, err := s.balances.Mutate(ctx, userID, func(tx repository.Tx, p *domain.Progression, now time.Time) error {
		before := p.CurrentBalance
		moved, err := economy.TransferToMain(p, now)
		if err != nil {
			return err
		}
		amount = moved

		entry := domain.NewTransaction(userID, domain.TxTypeTransferOut, before, moved.Neg(),
			"Transfer to main balance", map[string]any{"main_balance": p.MainBalance.String()})
		entry.CreatedAt = now
		return tx.InsertTransaction(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.audit.LogTransfer(ctx, userID, amount)
	s.notifier.Notify(userID, EventGameStateUpdated, newGameState(p, settlement))
	return &TransferResult{
		Amount:         amount,
		CurrentBalance: p.CurrentBalance,
		MainBalance:    p.MainBalance,
	}, nil
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok || s == "" {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
