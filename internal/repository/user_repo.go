package repository

import (
	"context"
	"strings"

	"mainet/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, email, username, COALESCE(full_name, ''), COALESCE(bio, ''),
	COALESCE(avatar_url, ''), password_hash, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Username,
		&u.FullName,
		&u.Bio,
		&u.AvatarURL,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// CreateUser inserts the user together with its default progression row.
func (s *Postgres) CreateUser(ctx context.Context, u *domain.User) error {
	return s.WithinTx(ctx, func(t Tx) error {
		tx := t.(*pgTx).tx
		err := tx.QueryRow(ctx,
			`INSERT INTO users (id, email, username, full_name, password_hash)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING created_at, updated_at`,
			u.ID, strings.ToLower(u.Email), u.Username, u.FullName, u.PasswordHash,
		).Scan(&u.CreatedAt, &u.UpdatedAt)
		if err != nil {
			return translate(err)
		}
		_, err = t.LockProgression(ctx, u.ID, u.CreatedAt)
		return err
	})
}

func (s *Postgres) UserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return scanUser(s.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (s *Postgres) UserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(s.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, strings.ToLower(email)))
}

// UsernameTaken reports whether another user already has username.
func (s *Postgres) UsernameTaken(ctx context.Context, username string, except uuid.UUID) (bool, error) {
	var taken bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE lower(username) = lower($1) AND id <> $2)`,
		username, except,
	).Scan(&taken)
	return taken, err
}

// UpdateProfile applies the non-nil fields of upd and returns the updated user
func (s *Postgres) UpdateProfile(ctx context.Context, id uuid.UUID, upd domain.ProfileUpdate) (*domain.User, error) {
	return scanUser(s.db.QueryRow(ctx,
		`UPDATE users
		 SET username   = COALESCE($2, username),
		     full_name  = COALESCE($3, full_name),
		     bio        = COALESCE($4, bio),
		     avatar_url = COALESCE($5, avatar_url),
		     updated_at = now()
		 WHERE id = $1
		 RETURNING `+userColumns,
		id, upd.Username, upd.FullName, upd.Bio, upd.AvatarURL,
	))
}
