package main

import (
	"context"
	stdlog "log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eternisai/firebase-notifier/internal/bridge"
	"github.com/eternisai/firebase-notifier/internal/config"
	"github.com/eternisai/firebase-notifier/internal/generator"
	"github.com/eternisai/firebase-notifier/internal/logger"
	"github.com/eternisai/firebase-notifier/internal/metrics"
	"github.com/eternisai/firebase-notifier/internal/push"
	"github.com/eternisai/firebase-notifier/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("Failed to load config: %v", err)
	}

	log := logger.New(logger.FromConfig(cfg.LogLevel, cfg.LogFormat))

	log.Info("setting gin mode", slog.String("mode", cfg.GinMode))
	gin.SetMode(cfg.GinMode)

	metrics.Init()

	ctx := context.Background()

	provider, err := generator.NewProvider(ctx, cfg.AI)
	if err != nil {
		log.Warn("AI provider unavailable, message generation will fail",
			slog.String("provider", cfg.AI.Provider),
			slog.String("error", err.Error()))
		provider = generator.Unavailable(cfg.AI.Provider, err)
	}

	action, err := generator.NewAction(provider, cfg.Notifier.Prompt, log)
	if err != nil {
		log.Error("failed to initialize message generator", slog.String("error", err.Error()))
		os.Exit(1)
	}

	sender := newSender(ctx, cfg, log)

	hub := bridge.NewHub(log)
	if err := hub.StartRefresh(cfg.LogRefreshSchedule); err != nil {
		log.Error("failed to schedule log refresh", slog.String("error", err.Error()))
		os.Exit(1)
	}

	router := server.NewRouter(server.Deps{
		Config:    cfg,
		Logger:    log,
		Hub:       hub,
		Generator: action,
		Sender:    sender,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("notifier listening",
			slog.String("addr", srv.Addr),
			slog.String("ai_provider", provider.Name()),
			slog.Bool("push_enabled", sender.Enabled()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("failed to start server", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ServerShutdownTimeoutSeconds)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	// Websocket connections are hijacked and not covered by srv.Shutdown.
	hub.Shutdown(shutdownCtx)

	log.Info("server exited")
}

// newSender returns a push sender, disabled when credentials are missing or push is turned off.
func newSender(ctx context.Context, cfg *config.Config, log *logger.Logger) *push.Sender {
	if !cfg.PushNotificationsEnabled || cfg.FirebaseCredJSON == "" {
		return push.NewSender(nil, log)
	}

	client, err := push.NewMessagingClient(ctx, cfg.Firebase.ProjectID, cfg.FirebaseCredJSON)
	if err != nil {
		log.Warn("failed to initialize FCM client, server-side push disabled", slog.String("error", err.Error()))
		return push.NewSender(nil, log)
	}

	return push.NewSender(client, log,
		push.WithLink(cfg.PublicURL),
		push.WithDebugCurl(cfg.FirebaseCredJSON, cfg.Firebase.ProjectID))
}
