package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"mainet/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func TestRegister(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	res, err := f.auth.Register(ctx, RegisterInput{Email: " Neo@Matrix.io ", Password: "redpill"})
	if err != nil {
		t.Fatal(err)
	}
	if res.User.Email != "neo@matrix.io" || res.User.Username != "neo" {
		t.Fatalf("user = %+v", res.User)
	}
	if res.AccessToken == "" || res.RefreshToken == "" || res.TokenType != "bearer" {
		t.Fatalf("tokens = %+v", res.TokenPair)
	}
	assertDec(t, "starting balance", f.state(t, res.User.ID).CurrentBalance, "1000")

	cases := []struct {
		name string
		in   RegisterInput
		want error
	}{
		{"duplicate email", RegisterInput{Email: "NEO@matrix.io", Password: "secret1", Username: "other"}, ErrEmailTaken},
		{"duplicate username", RegisterInput{Email: "trinity@matrix.io", Password: "secret1", Username: "NEO"}, ErrUsernameTaken},
		{"bad email", RegisterInput{Email: "not-an-email", Password: "secret1"}, ErrValidation},
		{"display name email", RegisterInput{Email: "Neo <x@matrix.io>", Password: "secret1"}, ErrValidation},
		{"short password", RegisterInput{Email: "morpheus@matrix.io", Password: "12345"}, ErrValidation},
		{"bad username", RegisterInput{Email: "smith@matrix.io", Password: "secret1", Username: "agent smith"}, ErrValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.auth.Register(ctx, tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("err = %v; want %v", err, tc.want)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	f := newFixture(t, nil)
	uid := f.register(t, "player")
	ctx := context.Background()

	if _, err := f.auth.Login(ctx, "player@mainet.io", "wrong-password", "", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password err = %v", err)
	}
	if _, err := f.auth.Login(ctx, "ghost@mainet.io", "hunter22", "", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email err = %v", err)
	}

	res, err := f.auth.Login(ctx, "PLAYER@mainet.io", "hunter22", "10.0.0.1", "test-agent")
	if err != nil {
		t.Fatal(err)
	}
	id, err := f.tokens.ParseAccess(ctx, res.AccessToken)
	if err != nil {
		t.Fatal(err)
	}
	if id.UserID != uid || id.Role != domain.RoleUser || id.IsAdmin() {
		t.Fatalf("identity = %+v", id)
	}

	var logins int
	for _, l := range f.store.AuditLogs() {
		if l.Action == domain.AuditActionLogin && l.IP == "10.0.0.1" {
			logins++
		}
	}
	if logins != 1 {
		t.Fatalf("login audit entries = %d", logins)
	}
}

func TestAdminRoleFromEmail(t *testing.T) {
	f := newFixture(t, nil)
	res, err := f.auth.Register(context.Background(), RegisterInput{Email: "admin@mainet.io", Password: "hunter22"})
	if err != nil {
		t.Fatal(err)
	}
	id, err := f.tokens.ParseAccess(context.Background(), res.AccessToken)
	if err != nil {
		t.Fatal(err)
	}
	if !id.IsAdmin() {
		t.Fatalf("role = %q", id.Role)
	}
}

func TestRefreshAndLogout(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	res, err := f.auth.Register(ctx, RegisterInput{Email: "rotator@mainet.io", Password: "hunter22"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := f.tokens.ParseRefresh(ctx, res.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("access token accepted as refresh: %v", err)
	}
	if _, err := f.tokens.ParseAccess(ctx, res.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("refresh token accepted as access: %v", err)
	}

	next, err := f.auth.Refresh(ctx, res.RefreshToken)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.auth.Refresh(ctx, res.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("reused refresh token err = %v", err)
	}

	id, err := f.tokens.ParseAccess(ctx, next.AccessToken)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.auth.Logout(ctx, id); err != nil {
		t.Fatal(err)
	}
	if _, err := f.tokens.ParseAccess(ctx, next.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("revoked token err = %v", err)
	}
}

func TestParseAccess_Rejects(t *testing.T) {
	tokens := NewTokenService("test-secret", nil)
	ctx := context.Background()
	uid := uuid.New()

	other := NewTokenService("another-secret", nil)
	foreign, _ := other.Issue(uid, domain.RoleUser)
	if _, err := tokens.ParseAccess(ctx, foreign.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("foreign signature err = %v", err)
	}

	expired := NewTokenService("test-secret", nil)
	expired.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	old, _ := expired.Issue(uid, domain.RoleUser)
	if _, err := tokens.ParseAccess(ctx, old.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired token err = %v", err)
	}

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		Type:             tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{Subject: uid.String(), ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if _, err := tokens.ParseAccess(ctx, unsigned); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("unsigned token err = %v", err)
	}

	if _, err := tokens.ParseAccess(ctx, "garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("garbage err = %v", err)
	}
}

func TestMemoryDenylist_Sweep(t *testing.T) {
	d := NewMemoryDenylist()
	ctx := context.Background()
	now := time.Now()

	_ = d.Revoke(ctx, "old", now.Add(-time.Minute))
	_ = d.Revoke(ctx, "live", now.Add(time.Hour))

	if n := d.Sweep(now); n != 1 {
		t.Fatalf("swept = %d", n)
	}
	if ok, _ := d.IsRevoked(ctx, "live"); !ok {
		t.Fatal("live id should stay revoked")
	}
	if ok, _ := d.IsRevoked(ctx, "old"); ok {
		t.Fatal("expired id should be gone")
	}
}

func TestProfileUpdate(t *testing.T) {
	f := newFixture(t, nil)
	uid := f.register(t, "first")
	f.register(t, "second")
	ctx := context.Background()

	taken := "SECOND"
	if _, err := f.profile.Update(ctx, uid, domain.ProfileUpdate{Username: &taken}); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("err = %v", err)
	}

	name, bio := "renamed", "mining since block 0"
	u, err := f.profile.Update(ctx, uid, domain.ProfileUpdate{Username: &name, Bio: &bio})
	if err != nil {
		t.Fatal(err)
	}
	if u.Username != "renamed" || u.Bio != bio {
		t.Fatalf("user = %+v", u)
	}

	p, err := f.profile.Get(ctx, uid)
	if err != nil {
		t.Fatal(err)
	}
	if p.User.Username != "renamed" || p.GameState == nil {
		t.Fatalf("profile = %+v", p)
	}
}
