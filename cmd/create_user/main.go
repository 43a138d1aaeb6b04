package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"mainet/internal/config"
	"mainet/internal/db"
	"mainet/internal/logger"
	"mainet/internal/repository"
	"mainet/internal/service"
)

// create_user registers an account (or logs into an existing one) and prints
// a token pair for manual API testing.
func main() {
	email := flag.String("email", "tester@mainet.io", "account email")
	password := flag.String("password", "tester123", "account password")
	username := flag.String("username", "", "username, derived from the email when empty")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.LogLevel, false)
	if cfg.DatabaseURL == "" {
		logger.Fatal("DATABASE_URL not set")
	}

	pool := db.Connect(cfg.DatabaseURL)
	defer pool.Close()

	store := repository.NewPostgres(pool)
	tokens := service.NewTokenService(cfg.JWTSecret, service.NewMemoryDenylist())
	auth := service.NewAuthService(store, tokens, service.NewAuditService(store), cfg.IsAdmin)
	ctx := context.Background()

	res, err := auth.Register(ctx, service.RegisterInput{Email: *email, Password: *password, Username: *username})
	if errors.Is(err, service.ErrEmailTaken) {
		logger.Info("user already exists, logging in", "email", *email)
		res, err = auth.Login(ctx, *email, *password, "127.0.0.1", "create_user")
	}
	if err != nil {
		logger.Fatal("create user failed", "error", err)
	}

	logger.Info("user ready", "id", res.User.ID, "username", res.User.Username)
	fmt.Printf("access_token=%s\nrefresh_token=%s\n", res.AccessToken, res.RefreshToken)
}
