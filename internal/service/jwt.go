package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mainet/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"

	DefaultAccessTTL  = 24 * time.Hour
	DefaultRefreshTTL = 30 * 24 * time.Hour
)

// Claims are carried by both access and refresh tokens
type Claims struct {
	Role string `json:"role"`
	Type string `json:"typ"`
	jwt.RegisteredClaims
}

// Identity is the authenticated caller extracted from a valid token
type Identity struct {
	UserID    uuid.UUID
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

func (i Identity) IsAdmin() bool { return i.Role == domain.RoleAdmin }

// TokenPair is returned on login, register and refresh
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// TokenService issues and validates HS256 tokens
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	revoked    Denylist
	now        func() time.Time
}

func NewTokenService(secret string, revoked Denylist) *TokenService {
	if revoked == nil {
		revoked = NewMemoryDenylist()
	}
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  DefaultAccessTTL,
		refreshTTL: DefaultRefreshTTL,
		revoked:    revoked,
		now:        time.Now,
	}
}

func (s *TokenService) sign(userID uuid.UUID, role, typ string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		Role: role,
		Type: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Issue creates a fresh access/refresh pair
func (s *TokenService) Issue(userID uuid.UUID, role string) (TokenPair, error) {
	access, err := s.sign(userID, role, tokenTypeAccess, s.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.sign(userID, role, tokenTypeRefresh, s.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

func (s *TokenService) parse(ctx context.Context, tokenString, wantType string) (Identity, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}
	if claims.Type != wantType {
		return Identity{}, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return Identity{}, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return Identity{}, ErrInvalidToken
	}

	return Identity{
		UserID:    userID,
		Role:      claims.Role,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// ParseAccess validates an access token
func (s *TokenService) ParseAccess(ctx context.Context, tokenString string) (Identity, error) {
	return s.parse(ctx, tokenString, tokenTypeAccess)
}

// ParseRefresh validates a refresh token
func (s *TokenService) ParseRefresh(ctx context.Context, tokenString string) (Identity, error) {
	return s.parse(ctx, tokenString, tokenTypeRefresh)
}

// Revoke denies the token until its natural expiry
func (s *TokenService) Revoke(ctx context.Context, id Identity) error {
	return s.revoked.Revoke(ctx, id.TokenID, id.ExpiresAt)
}
