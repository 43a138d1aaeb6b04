package http

import (
	"time"

	"mainet/internal/config"
	"mainet/internal/http/handlers"
	"mainet/internal/http/middleware"
	"mainet/internal/service"
	"mainet/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the wired components the routes are built from
type Deps struct {
	Config  *config.Config
	Handler *handlers.Handler
	Health  *handlers.HealthHandler
	Tokens  *service.TokenService
	Hub     *ws.Hub
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config

	r.Use(middleware.RequestContext(), middleware.Metrics(), middleware.CORS(cfg.AllowedOrigin))

	// Health checks (no rate limiting)
	r.GET("/health", d.Health.Health)
	r.GET("/healthz", d.Health.Liveness)
	r.GET("/readyz", d.Health.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Push channel
	r.GET("/ws/:user_id", ws.HandleWS(d.Hub, d.Tokens, cfg.AllowedOrigin))

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit("api", cfg.APIRateLimit, time.Minute))
	registerAPIRoutes(v1, d)

	// Legacy /api routes for older clients
	api := r.Group("/api")
	api.Use(middleware.RedisRateLimit("api", cfg.APIRateLimit, time.Minute))
	api.GET("/health", d.Health.Health)
	registerAPIRoutes(api, d)
}

func registerAPIRoutes(api *gin.RouterGroup, d Deps) {
	h := d.Handler
	cfg := d.Config
	auth := middleware.JWT(d.Tokens)
	gameRL := middleware.GameRateLimit(cfg.GameRateLimit, time.Duration(cfg.GameRateWindow)*time.Second)

	// Auth
	authRL := middleware.RedisRateLimit("auth", cfg.AuthRateLimit, time.Minute)
	api.POST("/auth/register", authRL, h.Register)
	api.POST("/auth/login", authRL, h.Login)
	api.POST("/auth/refresh", authRL, h.Refresh)
	api.POST("/auth/logout", auth, h.Logout)

	// Profile and ledger
	api.GET("/profile", auth, h.GetProfile)
	api.PUT("/profile", auth, h.UpdateProfile)
	api.GET("/transactions", auth, h.Transactions)

	// Game
	game := api.Group("/game", auth)
	{
		game.GET("/state", h.GameState)
		game.GET("/status", h.GameState)
		game.POST("/state", h.SaveGameState)
		game.POST("/click", gameRL, h.Click)
		game.POST("/transfer", h.Transfer)
	}

	// Upgrades
	api.GET("/upgrades", middleware.OptionalJWT(d.Tokens), h.ListUpgrades)
	api.GET("/upgrades/my", auth, h.MyUpgrades)
	api.POST("/upgrades/:type/buy", auth, h.BuyUpgrade)

	// Mining rigs
	api.GET("/mining-rigs/catalog", h.RigCatalog)
	api.GET("/mining-rigs", auth, h.MyRigs)
	api.POST("/mining-rigs", auth, h.BuyRig)

	// External transaction verification
	api.POST("/verify-transaction", auth, h.VerifyTransaction)
	api.GET("/verification-history", auth, h.VerificationHistory)

	admin := api.Group("/admin", auth, middleware.AdminOnly())
	{
		admin.GET("/verification-stats", h.VerificationStats)
		admin.POST("/bulk-verify", h.BulkVerify)
	}
}
