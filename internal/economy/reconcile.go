package economy

import (
	"time"

	"mainet/internal/domain"

	"github.com/shopspring/decimal"
)

// Settlement describes what one reconcile pass credited
type Settlement struct {
	Elapsed      time.Duration
	EnergyGained int64
	Mined        decimal.Decimal
	Hashrate     decimal.Decimal // active rig hashrate used for this pass

	progressMoved bool
}

// Accrued reports whether anything was credited, including fractional regen.
func (s Settlement) Accrued() bool {
	return s.EnergyGained > 0 || s.Mined.IsPositive() || s.progressMoved
}

// Reconcile brings p up to now. Elapsed time is clamped to maxElapsed
// (0 disables the clamp). Fractional regen is carried in EnergyProgress so
// the anchor can advance without losing sub-unit progress; it is discarded
// while energy sits at the cap. The anchor only moves when something accrued.
func Reconcile(p *domain.Progression, now time.Time, maxElapsed time.Duration, rigHashrate decimal.Decimal) Settlement {
	if !now.After(p.LastUpdateAt) {
		return Settlement{Mined: decimal.Zero, Hashrate: rigHashrate}
	}

	elapsed := now.Sub(p.LastUpdateAt)
	if maxElapsed > 0 && elapsed > maxElapsed {
		elapsed = maxElapsed
	}
	minutes := Minutes(elapsed)

	s := Settlement{Elapsed: elapsed, Mined: decimal.Zero, Hashrate: rigHashrate}

	if p.Energy < p.MaxEnergy {
		progress := minutes.Mul(p.EnergyRegenRate).Add(p.EnergyProgress)
		whole := progress.Floor()
		gained := whole.IntPart()
		if p.Energy+gained >= p.MaxEnergy {
			gained = p.MaxEnergy - p.Energy
			progress = decimal.Zero
		} else {
			progress = progress.Sub(whole)
		}
		s.EnergyGained = gained
		s.progressMoved = !progress.Equal(p.EnergyProgress)
		p.Energy += gained
		p.EnergyProgress = progress
	} else if !p.EnergyProgress.IsZero() {
		p.EnergyProgress = decimal.Zero
		s.progressMoved = true
	}

	mined := AutoMined(minutes, p.AutoMiningRate).Add(RigMined(minutes, rigHashrate))
	if mined.IsPositive() {
		p.CurrentBalance = p.CurrentBalance.Add(mined)
		s.Mined = mined
	}

	if s.Accrued() {
		p.LastUpdateAt = now
	}
	return s
}

// Touch moves the anchor to now after a mutation, so later rate changes are
// never applied retroactively. It never moves the anchor backwards.
func Touch(p *domain.Progression, now time.Time) {
	if now.After(p.LastUpdateAt) {
		p.LastUpdateAt = now
	}
	p.UpdatedAt = now
}
