package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"mainet/internal/domain"
	"mainet/internal/lock"
	"mainet/internal/payment"
	"mainet/internal/repository/memstore"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type note struct {
	userID uuid.UUID
	event  string
}

type recordingNotifier struct {
	mu    sync.Mutex
	notes []note
}

func (n *recordingNotifier) Notify(userID uuid.UUID, event string, _ any) {
	n.mu.Lock()
	n.notes = append(n.notes, note{userID, event})
	n.mu.Unlock()
}

func (n *recordingNotifier) count(event string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, x := range n.notes {
		if x.event == event {
			c++
		}
	}
	return c
}

type fixture struct {
	store    *memstore.Store
	clock    *fakeClock
	notes    *recordingNotifier
	tokens   *TokenService
	auth     *AuthService
	balances *BalanceService
	game     *GameService
	upgrades *UpgradeService
	rigs     *RigService
	verify   *VerificationService
	admin    *AdminService
	profile  *ProfileService
}

func newFixture(t *testing.T, verifier PaymentVerifier) *fixture {
	t.Helper()
	if verifier == nil {
		verifier = payment.New(payment.Options{})
	}

	f := &fixture{
		store: memstore.New(),
		clock: &fakeClock{now: time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)},
		notes: &recordingNotifier{},
	}
	audit := NewAuditService(f.store)
	f.tokens = NewTokenService("test-secret", NewMemoryDenylist())
	f.auth = NewAuthService(f.store, f.tokens, audit, func(email string) bool { return email == "admin@mainet.io" })
	f.auth.cost = bcrypt.MinCost

	f.balances = NewBalanceService(f.store, lock.NewLocal(), 24*time.Hour)
	f.balances.now = f.clock.Now

	f.game = NewGameService(f.balances, audit, f.notes)
	f.upgrades = NewUpgradeService(f.store, f.balances, audit, f.notes)
	f.rigs = NewRigService(f.store, f.balances, audit, f.notes)
	f.verify = NewVerificationService(f.store, f.balances, verifier, audit, f.notes)
	f.admin = NewAdminService(f.verify, audit)
	f.profile = NewProfileService(f.store, f.game)
	return f
}

func (f *fixture) register(t *testing.T, name string) uuid.UUID {
	t.Helper()
	res, err := f.auth.Register(context.Background(), RegisterInput{
		Email:    name + "@mainet.io",
		Password: "hunter22",
		Username: name,
	})
	if err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	return res.User.ID
}

func (f *fixture) state(t *testing.T, userID uuid.UUID) *GameState {
	t.Helper()
	gs, err := f.game.State(context.Background(), userID)
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	return gs
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, what string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Fatalf("%s = %s; want %s", what, got, want)
	}
}

// scriptedVerifier replays a fixed sequence of provider answers
type scriptedVerifier struct {
	mu      sync.Mutex
	results []payment.Result
	errs    []error
	calls   int
}

func (v *scriptedVerifier) Verify(_ context.Context, _ domain.PaymentMethod, _ string, amount decimal.Decimal) (payment.Result, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	i := v.calls
	v.calls++
	if i < len(v.errs) && v.errs[i] != nil {
		return payment.Result{}, v.errs[i]
	}
	if i < len(v.results) {
		return v.results[i], nil
	}
	return payment.Result{Status: domain.VerificationVerified, Amount: amount}, nil
}
