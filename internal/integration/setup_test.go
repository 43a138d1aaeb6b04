package integration

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"mainet/internal/lock"
	"mainet/internal/payment"
	"mainet/internal/repository"
	"mainet/internal/service"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

func applyMigrations(t *testing.T, db *pgxpool.Pool) {
	t.Helper()
	migDir := filepath.Join("..", "migrations")
	files, err := filepath.Glob(filepath.Join(migDir, "*.sql"))
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	sort.Strings(files)
	for _, f := range files {
		b, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read file: %v", err)
		}
		if _, err := db.Exec(context.Background(), string(b)); err != nil {
			t.Fatalf("apply migration %s: %v", f, err)
		}
	}
}

// postgresStore connects to DATABASE_URL with the schema applied, or skips.
func postgresStore(t *testing.T) *repository.Postgres {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)

	applyMigrations(t, db)
	return repository.NewPostgres(db)
}

type services struct {
	tokens        *service.TokenService
	auth          *service.AuthService
	game          *service.GameService
	upgrades      *service.UpgradeService
	rigs          *service.RigService
	verifications *service.VerificationService
	admin         *service.AdminService
	profiles      *service.ProfileService
}

func newServices(store repository.Store, notifier service.Notifier) *services {
	audit := service.NewAuditService(store)
	tokens := service.NewTokenService("integration-secret", service.NewMemoryDenylist())
	balances := service.NewBalanceService(store, lock.NewLocal(), 24*time.Hour)
	game := service.NewGameService(balances, audit, notifier)
	verifications := service.NewVerificationService(store, balances, payment.New(payment.Options{}), audit, notifier)
	return &services{
		tokens:        tokens,
		auth:          service.NewAuthService(store, tokens, audit, nil),
		game:          game,
		upgrades:      service.NewUpgradeService(store, balances, audit, notifier),
		rigs:          service.NewRigService(store, balances, audit, notifier),
		verifications: verifications,
		admin:         service.NewAdminService(verifications, audit),
		profiles:      service.NewProfileService(store, game),
	}
}

// uniqueEmail keeps reruns against the same database independent
func uniqueEmail(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8] + "@mainet.io"
}

type nopNotifier struct{}

func (nopNotifier) Notify(uuid.UUID, string, any) {}
