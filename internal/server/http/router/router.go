package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/escrowdesk/internal/config"
	"github.com/polkiloo/escrowdesk/internal/metrics"
	"github.com/polkiloo/escrowdesk/internal/server/http/handlers"
	"github.com/polkiloo/escrowdesk/internal/server/http/middleware"
)

type Params struct {
	fx.In

	Facade  handlers.EscrowFacade
	Config  *config.Config
	Metrics *metrics.Registry
	Logger  *slog.Logger
}

// Setup configures gin router with handlers and middleware.
func Setup(p Params) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(p.Logger))
	engine.Use(middleware.RequestMetrics(p.Metrics))
	engine.Use(middleware.DecompressRequest(middleware.DefaultMaxBody))
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	sessionHandler := handlers.NewSessionHandler(p.Facade)
	orderHandler := handlers.NewOrderHandler(p.Facade, p.Config.ExplorerURL)
	balanceHandler := handlers.NewBalanceHandler(p.Facade)

	engine.GET("/metrics", gin.WrapH(p.Metrics.Handler()))

	api := engine.Group("/api")
	api.GET("/network", sessionHandler.Network)
	api.POST("/session", sessionHandler.Connect)

	limiter := middleware.NewAccountRateLimiter(p.Config.ActionRatePerMinute, p.Config.ActionRateBurst)

	session := api.Group("")
	session.Use(middleware.AuthRequired(p.Facade))
	session.GET("/balance", balanceHandler.Summary)
	session.GET("/orders", orderHandler.List)
	session.GET("/orders/:id", orderHandler.Get)
	session.POST("/orders", limiter.Middleware(), orderHandler.Create)
	session.POST("/orders/:id/actions/:action", limiter.Middleware(), orderHandler.Act)

	return engine
}
