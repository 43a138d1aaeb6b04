package economy

import (
	"errors"
	"testing"
	"time"

	"mainet/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newState() *domain.Progression {
	return domain.NewProgression(uuid.New(), t0)
}

func TestClickYield(t *testing.T) {
	cases := []struct {
		clicks, power int64
		want          string
	}{
		{1, 1, "0.1"},
		{100, 1, "10"},
		{5, 3, "1.5"},
		{0, 7, "0"},
	}
	for _, tc := range cases {
		if got := ClickYield(tc.clicks, tc.power); !got.Equal(dec(tc.want)) {
			t.Fatalf("ClickYield(%d,%d) = %s; want %s", tc.clicks, tc.power, got, tc.want)
		}
	}
}

func TestApplyClick_DrainsEnergyThenFails(t *testing.T) {
	p := newState()
	startBalance := p.CurrentBalance

	for i := 0; i < 100; i++ {
		if _, err := ApplyClick(p, 1, t0); err != nil {
			t.Fatalf("click %d: %v", i+1, err)
		}
	}
	if p.Energy != 0 {
		t.Fatalf("energy = %d; want 0", p.Energy)
	}
	if got := p.CurrentBalance.Sub(startBalance); !got.Equal(dec("10")) {
		t.Fatalf("earned = %s; want 10", got)
	}
	if p.TotalClicks != 100 {
		t.Fatalf("total clicks = %d; want 100", p.TotalClicks)
	}

	before := p.Clone()
	if _, err := ApplyClick(p, 1, t0); !errors.Is(err, ErrInsufficientEnergy) {
		t.Fatalf("101st click err = %v; want ErrInsufficientEnergy", err)
	}
	if p.Energy != before.Energy || !p.CurrentBalance.Equal(before.CurrentBalance) || p.TotalClicks != before.TotalClicks {
		t.Fatalf("state changed on failed click")
	}
}

func TestApplyClick_RejectsNonPositive(t *testing.T) {
	p := newState()
	for _, n := range []int64{0, -3} {
		if _, err := ApplyClick(p, n, t0); !errors.Is(err, ErrInvalidClicks) {
			t.Fatalf("ApplyClick(%d) err = %v", n, err)
		}
	}
}

func TestApplyClick_Result(t *testing.T) {
	p := newState()
	p.ClickPower = 4
	res, err := ApplyClick(p, 10, t0.Add(time.Second))
	if err != nil {
		t.Fatal(err)
	}
	if !res.Earned.Equal(dec("4")) || res.EnergyRemaining != 90 || res.TotalClicks != 10 {
		t.Fatalf("unexpected result %+v", res)
	}
	if !p.LastUpdateAt.Equal(t0.Add(time.Second)) {
		t.Fatalf("anchor not touched: %v", p.LastUpdateAt)
	}
}

func TestRegenEnergy(t *testing.T) {
	cases := []struct {
		energy, max int64
		minutes     string
		rate        string
		want        int64
	}{
		{50, 100, "10", "1", 60},
		{50, 100, "2.5", "1", 52},
		{99, 100, "10", "1", 100},
		{100, 100, "10", "1", 100},
		{0, 100, "0.5", "1.5", 0},
		{0, 100, "1", "1.5", 1},
	}
	for _, tc := range cases {
		got := RegenEnergy(tc.energy, tc.max, dec(tc.minutes), dec(tc.rate))
		if got != tc.want {
			t.Fatalf("RegenEnergy(%d,%d,%s,%s) = %d; want %d", tc.energy, tc.max, tc.minutes, tc.rate, got, tc.want)
		}
	}
}

func TestReconcile_EnergyMatchesFormula(t *testing.T) {
	cases := []struct {
		elapsed time.Duration
		rate    string
		energy  int64
	}{
		{30 * time.Second, "1", 10},
		{90 * time.Second, "1", 10},
		{10 * time.Minute, "1.5", 0},
		{3 * time.Hour, "1", 0},
		{45 * time.Minute, "0.5", 95},
	}
	for _, tc := range cases {
		p := newState()
		p.Energy = tc.energy
		p.EnergyRegenRate = dec(tc.rate)

		Reconcile(p, t0.Add(tc.elapsed), DefaultMaxOfflineElapsed, decimal.Zero)

		want := RegenEnergy(tc.energy, p.MaxEnergy, Minutes(tc.elapsed), dec(tc.rate))
		if p.Energy != want {
			t.Fatalf("elapsed=%s rate=%s: energy = %d; want %d", tc.elapsed, tc.rate, p.Energy, want)
		}
		if p.Energy < tc.energy {
			t.Fatalf("energy decreased")
		}
	}
}

func TestReconcile_CarriesFractionalRegen(t *testing.T) {
	p := newState()
	p.Energy = 10

	Reconcile(p, t0.Add(30*time.Second), 0, decimal.Zero)
	if p.Energy != 10 {
		t.Fatalf("energy after 30s = %d; want 10", p.Energy)
	}
	Reconcile(p, t0.Add(60*time.Second), 0, decimal.Zero)
	if p.Energy != 11 {
		t.Fatalf("energy after two half-minutes = %d; want 11", p.Energy)
	}
	if !p.EnergyProgress.IsZero() {
		t.Fatalf("progress = %s; want 0", p.EnergyProgress)
	}
}

func TestReconcile_AutoMiningAndRigs(t *testing.T) {
	p := newState()
	p.AutoMiningRate = dec("0.2")
	start := p.CurrentBalance

	s := Reconcile(p, t0.Add(time.Hour), DefaultMaxOfflineElapsed, dec("0.5"))

	// 60 min * 0.2 + 0.5 hashrate * 0.1 per hour
	want := dec("12.05")
	if !s.Mined.Equal(want) {
		t.Fatalf("mined = %s; want %s", s.Mined, want)
	}
	if !p.CurrentBalance.Equal(start.Add(want)) {
		t.Fatalf("balance = %s", p.CurrentBalance)
	}
	if !p.LastUpdateAt.Equal(t0.Add(time.Hour)) {
		t.Fatalf("anchor = %v", p.LastUpdateAt)
	}
}

func TestReconcile_ClampsElapsed(t *testing.T) {
	p := newState()
	p.AutoMiningRate = dec("1")
	now := t0.Add(72 * time.Hour)

	s := Reconcile(p, now, 24*time.Hour, decimal.Zero)

	if s.Elapsed != 24*time.Hour {
		t.Fatalf("elapsed = %s; want 24h", s.Elapsed)
	}
	if !s.Mined.Equal(dec("1440")) {
		t.Fatalf("mined = %s; want 1440", s.Mined)
	}
	if !p.LastUpdateAt.Equal(now) {
		t.Fatalf("anchor should move to now")
	}
}

func TestReconcile_ZeroAccrualKeepsAnchor(t *testing.T) {
	p := newState() // full energy, no auto mining

	s := Reconcile(p, t0.Add(10*time.Minute), DefaultMaxOfflineElapsed, decimal.Zero)

	if s.Accrued() {
		t.Fatalf("expected no accrual, got %+v", s)
	}
	if !p.LastUpdateAt.Equal(t0) {
		t.Fatalf("anchor moved to %v", p.LastUpdateAt)
	}
}

func TestReconcile_NeverMovesBackwards(t *testing.T) {
	p := newState()
	p.Energy = 0
	p.AutoMiningRate = dec("5")

	s := Reconcile(p, t0.Add(-time.Hour), DefaultMaxOfflineElapsed, decimal.Zero)
	if s.Accrued() || p.Energy != 0 || !p.LastUpdateAt.Equal(t0) {
		t.Fatalf("reconcile into the past changed state: %+v", p)
	}

	s = Reconcile(p, t0, DefaultMaxOfflineElapsed, decimal.Zero)
	if s.Accrued() {
		t.Fatalf("zero elapsed should not accrue")
	}
}

func TestUpgradePrice(t *testing.T) {
	cases := []struct {
		typ   domain.UpgradeType
		level int
		want  string
	}{
		{domain.UpgradeEnergyRegen, 0, "100"},
		{domain.UpgradeEnergyRegen, 1, "150"},
		{domain.UpgradeEnergyRegen, 2, "225"},
		{domain.UpgradeClickPower, 3, "400"},
		{domain.UpgradeAutoMining, 2, "612.5"},
		{domain.UpgradeMaxEnergy, 1, "240"},
	}
	for _, tc := range cases {
		if got := UpgradePrice(Upgrades[tc.typ], tc.level); !got.Equal(dec(tc.want)) {
			t.Fatalf("price(%s, %d) = %s; want %s", tc.typ, tc.level, got, tc.want)
		}
	}
}

func TestApplyUpgrade_Effects(t *testing.T) {
	cases := []struct {
		typ   domain.UpgradeType
		check func(t *testing.T, p *domain.Progression)
	}{
		{domain.UpgradeEnergyRegen, func(t *testing.T, p *domain.Progression) {
			if !p.EnergyRegenRate.Equal(dec("1.5")) || p.MaxEnergy != 110 {
				t.Fatalf("regen=%s max=%d", p.EnergyRegenRate, p.MaxEnergy)
			}
		}},
		{domain.UpgradeClickPower, func(t *testing.T, p *domain.Progression) {
			if p.ClickPower != 2 {
				t.Fatalf("click power = %d", p.ClickPower)
			}
		}},
		{domain.UpgradeAutoMining, func(t *testing.T, p *domain.Progression) {
			if !p.AutoMiningRate.Equal(dec("0.1")) {
				t.Fatalf("auto mining = %s", p.AutoMiningRate)
			}
		}},
		{domain.UpgradeMaxEnergy, func(t *testing.T, p *domain.Progression) {
			if p.MaxEnergy != 125 || p.Energy != 85 {
				t.Fatalf("max=%d energy=%d", p.MaxEnergy, p.Energy)
			}
		}},
	}
	for _, tc := range cases {
		p := newState()
		p.Energy = 60
		def := Upgrades[tc.typ]

		price, err := ApplyUpgrade(p, def, 0, t0)
		if err != nil {
			t.Fatalf("%s: %v", tc.typ, err)
		}
		if !price.Equal(def.BasePrice) {
			t.Fatalf("%s: price = %s", tc.typ, price)
		}
		if !p.CurrentBalance.Equal(domain.DefaultStartingBalance.Sub(price)) {
			t.Fatalf("%s: balance = %s", tc.typ, p.CurrentBalance)
		}
		tc.check(t, p)
	}
}

func TestApplyUpgrade_MaxEnergyCapsAtNewMax(t *testing.T) {
	p := newState() // energy 100/100
	if _, err := ApplyUpgrade(p, Upgrades[domain.UpgradeMaxEnergy], 0, t0); err != nil {
		t.Fatal(err)
	}
	if p.Energy != 125 || p.MaxEnergy != 125 {
		t.Fatalf("energy=%d max=%d", p.Energy, p.MaxEnergy)
	}
}

func TestApplyUpgrade_Failures(t *testing.T) {
	def := Upgrades[domain.UpgradeClickPower]

	p := newState()
	before := p.Clone()
	if _, err := ApplyUpgrade(p, def, def.MaxLevel, t0); !errors.Is(err, ErrMaxLevelReached) {
		t.Fatalf("err = %v; want ErrMaxLevelReached", err)
	}
	if !p.CurrentBalance.Equal(before.CurrentBalance) || p.ClickPower != before.ClickPower {
		t.Fatalf("state changed at max level")
	}

	p.CurrentBalance = dec("49.99")
	if _, err := ApplyUpgrade(p, def, 0, t0); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("err = %v; want ErrInsufficientBalance", err)
	}
	if !p.CurrentBalance.Equal(dec("49.99")) || p.ClickPower != 1 {
		t.Fatalf("state changed on insufficient balance")
	}
}

func TestDepositBonus(t *testing.T) {
	cases := map[string]string{
		"100":   "17",
		"200":   "34",
		"75":    "12.75",
		"10.55": "1.79",
		"5":     "0.85",
	}
	for amount, want := range cases {
		if got := DepositBonus(dec(amount)); !got.Equal(dec(want)) {
			t.Fatalf("DepositBonus(%s) = %s; want %s", amount, got, want)
		}
	}
}

func TestCreditDeposit(t *testing.T) {
	p := newState()
	if err := CreditDeposit(p, dec("100"), dec("17"), t0); err != nil {
		t.Fatal(err)
	}
	if !p.CurrentBalance.Equal(dec("1117")) || !p.BonusBalance.Equal(dec("17")) {
		t.Fatalf("balance=%s bonus=%s", p.CurrentBalance, p.BonusBalance)
	}
	if err := CreditDeposit(p, decimal.Zero, decimal.Zero, t0); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("err = %v", err)
	}
}

func TestTransferToMain(t *testing.T) {
	p := newState()
	amount, err := TransferToMain(p, t0)
	if err != nil {
		t.Fatal(err)
	}
	if !amount.Equal(dec("1000")) || !p.CurrentBalance.IsZero() || !p.MainBalance.Equal(dec("1000")) {
		t.Fatalf("amount=%s current=%s main=%s", amount, p.CurrentBalance, p.MainBalance)
	}
	if _, err := TransferToMain(p, t0); !errors.Is(err, ErrNothingToTransfer) {
		t.Fatalf("err = %v", err)
	}
}

func TestLookupRig(t *testing.T) {
	r, ok := LookupRig(domain.RigRTX3080)
	if !ok || !r.Cost.Equal(dec("1500")) || r.Rarity != "rare" {
		t.Fatalf("unexpected rig %+v", r)
	}
	if _, ok := LookupRig("toaster"); ok {
		t.Fatalf("unknown rig should not resolve")
	}
}
