// Package economy holds the pure arithmetic of the idle game: click yield,
// energy regeneration, passive mining, upgrade pricing and deposit bonuses.
// Nothing here touches storage or the clock.
package economy

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	// BaseClickYield is the currency earned per click per point of click power
	BaseClickYield = decimal.RequireFromString("0.1")

	// DepositBonusRate is the bonus granted on verified external deposits (17%)
	DepositBonusRate = decimal.RequireFromString("0.17")

	// RigYieldPerHour is the currency mined per unit of rig hashrate per hour
	RigYieldPerHour = decimal.RequireFromString("0.1")

	sixty = decimal.NewFromInt(60)
)

// DefaultMaxOfflineElapsed bounds how much idle time a single reconcile pays out
const DefaultMaxOfflineElapsed = 24 * time.Hour

// Minutes converts a duration into fractional minutes.
func Minutes(d time.Duration) decimal.Decimal {
	return decimal.NewFromInt(d.Milliseconds()).Div(decimal.NewFromInt(60_000))
}

// ClickYield returns clicks * clickPower * BaseClickYield.
func ClickYield(clicks, clickPower int64) decimal.Decimal {
	return decimal.NewFromInt(clicks).Mul(decimal.NewFromInt(clickPower)).Mul(BaseClickYield)
}

// RegenEnergy returns min(maxEnergy, energy + floor(minutes*rate)).
func RegenEnergy(energy, maxEnergy int64, minutes, rate decimal.Decimal) int64 {
	if energy >= maxEnergy {
		return energy
	}
	gain := minutes.Mul(rate).Floor().IntPart()
	if gain <= 0 {
		return energy
	}
	if energy+gain > maxEnergy {
		return maxEnergy
	}
	return energy + gain
}

// AutoMined returns the passive income for the given minutes at ratePerMinute.
func AutoMined(minutes, ratePerMinute decimal.Decimal) decimal.Decimal {
	return minutes.Mul(ratePerMinute)
}

// RigMiningRate converts total rig hashrate into a per-minute mining rate.
func RigMiningRate(hashrate decimal.Decimal) decimal.Decimal {
	return hashrate.Mul(RigYieldPerHour).Div(sixty)
}

// RigMined returns what rigs with the given hashrate mine over minutes.
func RigMined(minutes, hashrate decimal.Decimal) decimal.Decimal {
	if !hashrate.IsPositive() {
		return decimal.Zero
	}
	return hashrate.Mul(RigYieldPerHour).Mul(minutes).Div(sixty)
}

// EffectiveMiningRate is the per-minute passive income from upgrades and rigs combined.
func EffectiveMiningRate(autoMiningRate, rigHashrate decimal.Decimal) decimal.Decimal {
	return autoMiningRate.Add(RigMiningRate(rigHashrate))
}

// UpgradePrice returns base * multiplier^level, rounded to cents.
func UpgradePrice(def UpgradeDef, level int) decimal.Decimal {
	if level < 0 {
		level = 0
	}
	return def.BasePrice.Mul(def.Multiplier.Pow(decimal.NewFromInt(int64(level)))).Round(2)
}

// DepositBonus returns round(amount * 0.17, 2).
func DepositBonus(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(DepositBonusRate).Round(2)
}
