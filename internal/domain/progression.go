package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Progression is the per-user idle game state. Energy and balance are
// continuously accruing quantities that are only materialised on reconcile.
type Progression struct {
	UserID          uuid.UUID       `db:"user_id" json:"user_id"`
	Energy          int64           `db:"energy" json:"energy"`
	MaxEnergy       int64           `db:"max_energy" json:"max_energy"`
	EnergyRegenRate decimal.Decimal `db:"energy_regen_rate" json:"energy_regen_rate"` // units per minute
	EnergyProgress  decimal.Decimal `db:"energy_progress" json:"-"`                   // fractional regen carried between reconciles
	ClickPower      int64           `db:"click_power" json:"click_power"`
	AutoMiningRate  decimal.Decimal `db:"auto_mining_rate" json:"auto_mining_rate"` // currency per minute
	TotalClicks     int64           `db:"total_clicks" json:"total_clicks"`
	CurrentBalance  decimal.Decimal `db:"current_balance" json:"current_balance"`
	MainBalance     decimal.Decimal `db:"main_balance" json:"main_balance"`
	BonusBalance    decimal.Decimal `db:"bonus_balance" json:"bonus_balance"`
	Achievements    []string        `db:"achievements" json:"achievements"`
	GameSettings    map[string]any  `db:"game_settings" json:"game_settings"`
	LastUpdateAt    time.Time       `db:"last_update_at" json:"last_update_at"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

// Starting values for a freshly created progression
const (
	DefaultEnergy     = 100
	DefaultMaxEnergy  = 100
	DefaultClickPower = 1
)

var (
	DefaultEnergyRegenRate = decimal.NewFromInt(1)
	DefaultStartingBalance = decimal.NewFromInt(1000)
)

// NewProgression returns the default state for a user seen for the first time.
func NewProgression(userID uuid.UUID, now time.Time) *Progression {
	return &Progression{
		UserID:          userID,
		Energy:          DefaultEnergy,
		MaxEnergy:       DefaultMaxEnergy,
		EnergyRegenRate: DefaultEnergyRegenRate,
		EnergyProgress:  decimal.Zero,
		ClickPower:      DefaultClickPower,
		AutoMiningRate:  decimal.Zero,
		CurrentBalance:  DefaultStartingBalance,
		MainBalance:     decimal.Zero,
		BonusBalance:    decimal.Zero,
		Achievements:    []string{},
		GameSettings: map[string]any{
			"sound_enabled":         true,
			"notifications_enabled": true,
			"auto_collect_rewards":  false,
		},
		LastUpdateAt: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Clone returns a deep copy so callers can mutate without aliasing.
func (p *Progression) Clone() *Progression {
	c := *p
	c.Achievements = append([]string(nil), p.Achievements...)
	c.GameSettings = make(map[string]any, len(p.GameSettings))
	for k, v := range p.GameSettings {
		c.GameSettings[k] = v
	}
	return &c
}
