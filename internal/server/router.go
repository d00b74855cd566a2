// Package server assembles the HTTP surface of the notifier.
package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eternisai/firebase-notifier/internal/bridge"
	"github.com/eternisai/firebase-notifier/internal/config"
	"github.com/eternisai/firebase-notifier/internal/generator"
	"github.com/eternisai/firebase-notifier/internal/logger"
	"github.com/eternisai/firebase-notifier/internal/metrics"
	"github.com/eternisai/firebase-notifier/internal/page"
	"github.com/eternisai/firebase-notifier/internal/push"
	"github.com/eternisai/firebase-notifier/internal/session"
	"github.com/eternisai/firebase-notifier/internal/web"
	"github.com/eternisai/firebase-notifier/internal/worker"
)

// Deps are the services the router exposes.
type Deps struct {
	Config    *config.Config
	Logger    *logger.Logger
	Hub       *bridge.Hub
	Generator *generator.Action
	Sender    *push.Sender
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(deps Deps) *gin.Engine {
	cfg := deps.Config
	policy := newCORS(cfg.AllowedOrigins())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.RequestLoggingMiddleware(deps.Logger))
	router.Use(metrics.Middleware())
	router.Use(corsMiddleware(policy))

	h := &handlers{
		hub:    deps.Hub,
		sender: deps.Sender,
		logger: deps.Logger.WithComponent("server"),
	}

	pageDeps := page.Deps{
		SessionConfig: session.NewConfig(cfg.Firebase),
		Generator:     deps.Generator,
		Template:      cfg.Notifier.Template,
		Logger:        deps.Logger,
	}
	if deps.Sender.Enabled() {
		pageDeps.Pusher = deps.Sender
	}

	router.GET("/", web.NewHandler(cfg.Firebase, cfg.Notifier.Tones, deps.Logger).Index)
	router.StaticFS("/static", web.Static())
	router.GET(session.WorkerPath, worker.NewHandler(cfg.Firebase, deps.Logger).Serve)
	router.GET("/ws", bridge.NewHandler(deps.Hub, pageDeps, checkOrigin(policy), deps.Logger).Connect)

	router.GET("/health", h.health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.POST("/generate", generator.NewHandler(deps.Generator).Generate)
		api.POST("/preview", h.preview)
		api.POST("/push", push.NewHandler(deps.Sender).Send)
	}

	router.NoRoute(h.notFound)

	return router
}
