package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mainet/internal/cache"
	"mainet/internal/config"
	"mainet/internal/db"
	httpServer "mainet/internal/http"
	"mainet/internal/http/handlers"
	"mainet/internal/http/middleware"
	"mainet/internal/lock"
	"mainet/internal/logger"
	"mainet/internal/payment"
	"mainet/internal/repository"
	"mainet/internal/repository/memstore"
	"mainet/internal/scheduler"
	"mainet/internal/service"
	"mainet/internal/ws"

	"github.com/gin-gonic/gin"
)

var version = "dev"

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	checks := map[string]handlers.Pinger{}

	var store repository.Store
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, using in-memory store (dev mode)")
		store = memstore.New()
	} else {
		dbPool := db.Connect(cfg.DatabaseURL)
		defer dbPool.Close()
		store = repository.NewPostgres(dbPool)
	}
	checks["database"] = store

	rdb := cache.Connect(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if rdb != nil {
		defer rdb.Close()
		middleware.UseRedis(rdb)
		checks["redis"] = handlers.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}

	denylist := service.NewDenylist(rdb)
	tokens := service.NewTokenService(cfg.JWTSecret, denylist)

	verifiers := payment.New(payment.Options{
		Live:            cfg.PaymentVerifyMode == config.PaymentModeLive,
		Timeout:         cfg.PaymentTimeout,
		PayeerAccount:   cfg.PayeerAccount,
		PayeerAPIID:     cfg.PayeerAPIID,
		PayeerAPISecret: cfg.PayeerAPISecret,
		FaucetPayAPIKey: cfg.FaucetPayAPIKey,
		FaucetPayEmail:  cfg.FaucetPayEmail,
	})
	logger.Info("payment verification", "mode", cfg.PaymentVerifyMode)

	hub := ws.NewHub()
	audit := service.NewAuditService(store)
	balances := service.NewBalanceService(store, lock.New(rdb), cfg.MaxOfflineElapsed)
	game := service.NewGameService(balances, audit, hub)
	verifications := service.NewVerificationService(store, balances, verifiers, audit, hub)
	admin := service.NewAdminService(verifications, audit)

	h := &handlers.Handler{
		Auth:          service.NewAuthService(store, tokens, audit, cfg.IsAdmin),
		Game:          game,
		Upgrades:      service.NewUpgradeService(store, balances, audit, hub),
		Rigs:          service.NewRigService(store, balances, audit, hub),
		Verifications: verifications,
		Admin:         admin,
		Profiles:      service.NewProfileService(store, game),
	}

	jobs := []scheduler.Job{
		{Name: "ws-sweep", Every: time.Minute, Run: func(context.Context) error {
			if n := hub.Sweep(); n > 0 {
				logger.Debug("dropped dead websocket clients", "count", n)
			}
			return nil
		}},
		{Name: "verification-stats", Every: 5 * time.Minute, Run: func(ctx context.Context) error {
			_, err := admin.VerificationStats(ctx)
			return err
		}},
	}
	if mem, ok := denylist.(*service.MemoryDenylist); ok {
		jobs = append(jobs, scheduler.Job{Name: "denylist-sweep", Every: time.Minute, Run: func(context.Context) error {
			mem.Sweep(time.Now())
			return nil
		}})
	}
	sched, err := scheduler.Start(jobs...)
	if err != nil {
		logger.Fatal("failed to start scheduler", "error", err)
	}

	if !cfg.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	httpServer.RegisterRoutes(r, httpServer.Deps{
		Config:  cfg,
		Handler: h,
		Health:  handlers.NewHealthHandler(version, checks),
		Tokens:  tokens,
		Hub:     hub,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := sched.Shutdown(); err != nil {
		logger.Warn("scheduler shutdown", "error", err)
	}
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
