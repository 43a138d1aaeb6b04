package repository

import (
	"context"
	"errors"
	"time"

	"mainet/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

// Store is the persistence contract used by the services. Reads that do not
// feed a balance mutation go through it directly; everything that changes a
// progression runs inside WithinTx.
type Store interface {
	WithinTx(ctx context.Context, fn func(tx Tx) error) error

	CreateUser(ctx context.Context, u *domain.User) error
	UserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UserByEmail(ctx context.Context, email string) (*domain.User, error)
	UsernameTaken(ctx context.Context, username string, except uuid.UUID) (bool, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, upd domain.ProfileUpdate) (*domain.User, error)

	ListUpgrades(ctx context.Context, userID uuid.UUID) ([]domain.UpgradeLevel, error)
	ListRigs(ctx context.Context, userID uuid.UUID) ([]*domain.MiningRig, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Transaction, error)
	ListVerifications(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Verification, error)
	VerificationStats(ctx context.Context) (domain.VerificationStats, error)

	InsertAudit(ctx context.Context, log *domain.AuditLog) error
	Ping(ctx context.Context) error
}

// Tx is a unit of work holding the row lock on one user's progression.
type Tx interface {
	// LockProgression loads the progression row for update, creating the
	// default row first when the user has none yet.
	LockProgression(ctx context.Context, userID uuid.UUID, now time.Time) (*domain.Progression, error)
	UpdateProgression(ctx context.Context, p *domain.Progression) error

	RigHashrate(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
	InsertRig(ctx context.Context, r *domain.MiningRig) error

	// UpgradeLevel returns level 0 for a track the user never bought.
	UpgradeLevel(ctx context.Context, userID uuid.UUID, t domain.UpgradeType) (domain.UpgradeLevel, error)
	SaveUpgradeLevel(ctx context.Context, lvl *domain.UpgradeLevel) error

	InsertTransaction(ctx context.Context, t *domain.Transaction) error

	FindVerification(ctx context.Context, userID uuid.UUID, transactionID string) (*domain.Verification, error)
	SaveVerification(ctx context.Context, v *domain.Verification) error
}

// Postgres implements Store on a pgx pool.
type Postgres struct {
	db *pgxpool.Pool
}

func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&pgTx{tx: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Postgres) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// pgTx implements Tx on an open pgx transaction
type pgTx struct {
	tx pgx.Tx
}

func translate(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrDuplicate
		case "23503":
			return ErrNotFound
		}
	}
	return err
}
