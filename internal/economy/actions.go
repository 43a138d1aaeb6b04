package economy

import (
	"errors"
	"time"

	"mainet/internal/domain"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidClicks       = errors.New("clicks must be positive")
	ErrInsufficientEnergy  = errors.New("insufficient energy")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrMaxLevelReached     = errors.New("max level reached")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrNothingToTransfer   = errors.New("nothing to transfer")
)

// ClickResult is returned from a successful click batch
type ClickResult struct {
	Earned          decimal.Decimal `json:"tokens_earned"`
	EnergyRemaining int64           `json:"energy_remaining"`
	TotalClicks     int64           `json:"total_clicks"`
	Balance         decimal.Decimal `json:"current_balance"`
}

// ApplyClick spends one energy per click and credits the click yield.
// p is left untouched on error.
func ApplyClick(p *domain.Progression, clicks int64, now time.Time) (ClickResult, error) {
	if clicks <= 0 {
		return ClickResult{}, ErrInvalidClicks
	}
	if p.Energy < clicks {
		return ClickResult{}, ErrInsufficientEnergy
	}

	earned := ClickYield(clicks, p.ClickPower)
	p.Energy -= clicks
	p.TotalClicks += clicks
	p.CurrentBalance = p.CurrentBalance.Add(earned)
	Touch(p, now)

	return ClickResult{
		Earned:          earned,
		EnergyRemaining: p.Energy,
		TotalClicks:     p.TotalClicks,
		Balance:         p.CurrentBalance,
	}, nil
}

// effects maps each upgrade track to the state change of one purchased level
var effects = map[domain.UpgradeType]func(p *domain.Progression, v decimal.Decimal){
	domain.UpgradeEnergyRegen: func(p *domain.Progression, v decimal.Decimal) {
		p.EnergyRegenRate = p.EnergyRegenRate.Add(v)
		p.MaxEnergy += EnergyRegenMaxEnergyBonus
	},
	domain.UpgradeClickPower: func(p *domain.Progression, v decimal.Decimal) {
		p.ClickPower += v.IntPart()
	},
	domain.UpgradeAutoMining: func(p *domain.Progression, v decimal.Decimal) {
		p.AutoMiningRate = p.AutoMiningRate.Add(v)
	},
	domain.UpgradeMaxEnergy: func(p *domain.Progression, v decimal.Decimal) {
		p.MaxEnergy += v.IntPart()
		p.Energy += v.IntPart()
		if p.Energy > p.MaxEnergy {
			p.Energy = p.MaxEnergy
		}
	},
}

// ApplyUpgrade buys the next level of def for a user currently at level.
// It checks the level cap and balance before mutating anything, then debits
// the price and applies the effect once. The caller persists level+1.
func ApplyUpgrade(p *domain.Progression, def UpgradeDef, level int, now time.Time) (decimal.Decimal, error) {
	if level >= def.MaxLevel {
		return decimal.Zero, ErrMaxLevelReached
	}
	apply, ok := effects[def.Type]
	if !ok {
		return decimal.Zero, ErrInvalidAmount
	}

	price := UpgradePrice(def, level)
	if p.CurrentBalance.LessThan(price) {
		return decimal.Zero, ErrInsufficientBalance
	}

	p.CurrentBalance = p.CurrentBalance.Sub(price)
	apply(p, def.EffectValue)
	Touch(p, now)
	return price, nil
}

// Debit removes amount from current_balance if it is covered.
func Debit(p *domain.Progression, amount decimal.Decimal, now time.Time) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if p.CurrentBalance.LessThan(amount) {
		return ErrInsufficientBalance
	}
	p.CurrentBalance = p.CurrentBalance.Sub(amount)
	Touch(p, now)
	return nil
}

// CreditDeposit credits a verified deposit and its bonus.
func CreditDeposit(p *domain.Progression, amount, bonus decimal.Decimal, now time.Time) error {
	if !amount.IsPositive() || bonus.IsNegative() {
		return ErrInvalidAmount
	}
	p.CurrentBalance = p.CurrentBalance.Add(amount).Add(bonus)
	p.BonusBalance = p.BonusBalance.Add(bonus)
	Touch(p, now)
	return nil
}

// TransferToMain moves the whole game balance into main_balance and returns
// the amount moved.
func TransferToMain(p *domain.Progression, now time.Time) (decimal.Decimal, error) {
	amount := p.CurrentBalance
	if !amount.IsPositive() {
		return decimal.Zero, ErrNothingToTransfer
	}
	p.CurrentBalance = decimal.Zero
	p.MainBalance = p.MainBalance.Add(amount)
	Touch(p, now)
	return amount, nil
}
