package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"mainet/internal/domain"
	"mainet/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 6
	maxUsernameLength = 32
)

// RegisterInput is the sign-up payload
type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

// AuthResult is returned by register, login and refresh
type AuthResult struct {
	TokenPair
	User *domain.User `json:"user"`
}

// AuthService handles registration and credentials
type AuthService struct {
	store   repository.Store
	tokens  *TokenService
	audit   *AuditService
	isAdmin func(email string) bool
	cost    int
}

func NewAuthService(store repository.Store, tokens *TokenService, audit *AuditService, isAdmin func(string) bool) *AuthService {
	if isAdmin == nil {
		isAdmin = func(string) bool { return false }
	}
	return &AuthService{
		store:   store,
		tokens:  tokens,
		audit:   audit,
		isAdmin: isAdmin,
		cost:    bcrypt.DefaultCost,
	}
}

func (s *AuthService) role(u *domain.User) string {
	if s.isAdmin(u.Email) {
		return domain.RoleAdmin
	}
	return domain.RoleUser
}

func (s *AuthService) issue(u *domain.User) (*AuthResult, error) {
	pair, err := s.tokens.Issue(u.ID, s.role(u))
	if err != nil {
		return nil, err
	}
	return &AuthResult{TokenPair: pair, User: u}, nil
}

func validUsername(name string) bool {
	if name == "" || len(name) > maxUsernameLength {
		return false
	}
	for _, r := range name {
		if !(r == '_' || r == '-' || r == '.' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}

// Register creates the account and its default game state.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, fmt.Errorf("%w: invalid email", ErrValidation)
	}
	if len(in.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	}
	username := strings.TrimSpace(in.Username)
	if username == "" {
		username = strings.SplitN(email, "@", 2)[0]
	}
	if !validUsername(username) {
		return nil, fmt.Errorf("%w: invalid username", ErrValidation)
	}

	if _, err := s.store.UserByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	taken, err := s.store.UsernameTaken(ctx, username, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		Username:     username,
		FullName:     strings.TrimSpace(in.FullName),
		PasswordHash: string(hash),
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.audit.Log(ctx, u.ID, domain.AuditActionRegister, domain.AuditCategoryAuth, nil)
	return s.issue(u)
}

// Login checks the password and issues tokens.
func (s *AuthService) Login(ctx context.Context, email, password, ip, userAgent string) (*AuthResult, error) {
	u, err := s.store.UserByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	s.audit.LogLogin(ctx, u.ID, ip, userAgent)
	return s.issue(u)
}

// Refresh exchanges a refresh token for a new pair. The old refresh token is revoked.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	id, err := s.tokens.ParseRefresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	u, err := s.store.UserByID(ctx, id.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Revoke(ctx, id); err != nil {
		return nil, err
	}
	return s.issue(u)
}

// Logout revokes the presented access token.
func (s *AuthService) Logout(ctx context.Context, id Identity) error {
	if err := s.tokens.Revoke(ctx, id); err != nil {
		return err
	}
	s.audit.Log(ctx, id.UserID, domain.AuditActionLogout, domain.AuditCategoryAuth, nil)
	return nil
}
