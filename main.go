package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"solar-store/auth"
	"solar-store/checkout"
	"solar-store/config"
	"solar-store/handlers"
	"solar-store/metrics"
	"solar-store/middleware"
	"solar-store/routes"
	"solar-store/session"
	"solar-store/uploads"
	"solar-store/web"
)

const oauthStateTTL = 10 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	log := config.NewLogger(cfg.Log)
	slog.SetDefault(log)

	// Set Gin mode
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg.DB)
	if err != nil {
		log.Error("init database", "error", err)
		os.Exit(1)
	}

	created, err := auth.EnsureAdmin(context.Background(), db, cfg.Admin.Username, cfg.Admin.Password)
	if err != nil {
		log.Error("bootstrap admin", "error", err)
		os.Exit(1)
	}
	if created {
		log.Warn("admin account created; change its password", "username", cfg.Admin.Username)
	}

	templates, err := web.LoadTemplates()
	if err != nil {
		log.Error("load templates", "error", err)
		os.Exit(1)
	}
	store, err := uploads.NewStore(cfg.Shop.UploadDir)
	if err != nil {
		log.Error("prepare uploads", "error", err)
		os.Exit(1)
	}

	collector := metrics.NewCollector()
	metricsHandler, err := metrics.Handler(collector)
	if err != nil {
		log.Error("register metrics", "error", err)
		os.Exit(1)
	}

	sessions := session.NewManager(session.NewCookieStore(cfg.Session.SessionKey, cfg.Session.CookieSecure, cfg.Session.CookieDomain))
	h := &handlers.Handler{
		DB:       db,
		Sessions: sessions,
		Carts:    sessions.Carts(),
		Checkout: checkout.NewService(db, cfg.Shop.DeliveryCost()),
		Uploads:  store,
		States:   auth.NewStateSigner(cfg.Session.StateKey, oauthStateTTL),
		Metrics:  collector,
		Logger:   log,
	}
	if cfg.Google.Enabled() {
		h.Google = auth.NewGoogle(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.RedirectURL)
	} else {
		log.Info("GOOGLE_CLIENT_ID not set; Google login disabled")
	}

	router := routes.NewRouter(h, templates, metricsHandler, cfg.Shop.UploadDir)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      middleware.CSRF(cfg.Session.CSRFKey, cfg.Session.CookieSecure, log)(router),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("starting HTTP server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown", "error", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Info("server stopped")
}
