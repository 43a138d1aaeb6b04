package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	Username     string    `db:"username" json:"username"`
	FullName     string    `db:"full_name" json:"full_name,omitempty"`
	Bio          string    `db:"bio" json:"bio,omitempty"`
	AvatarURL    string    `db:"avatar_url" json:"avatar_url,omitempty"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// ProfileUpdate holds optional profile fields; nil means "leave unchanged".
type ProfileUpdate struct {
	Username  *string `json:"username"`
	FullName  *string `json:"full_name"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar_url"`
}

// Empty reports whether the update carries no changes.
func (u ProfileUpdate) Empty() bool {
	return u.Username == nil && u.FullName == nil && u.Bio == nil && u.AvatarURL == nil
}

// Roles carried in access tokens
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
