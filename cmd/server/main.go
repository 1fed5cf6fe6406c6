package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"cmrpai/docs"
	"cmrpai/internal/auth"
	"cmrpai/internal/cache"
	"cmrpai/internal/config"
	"cmrpai/internal/db"
	"cmrpai/internal/handler"
	"cmrpai/internal/logger"
	"cmrpai/internal/repository"
	"cmrpai/internal/router"
	"cmrpai/internal/service"
)

// @title CMR PAI API
// @version 1.0
// @description Read-only JSON API of the CMR PAI care-program records. Requests need the session cookie issued by /login.
// @host localhost:8080
// @BasePath /api
// @schemes http
func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat, "cmrpai")
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	gormDB, err := db.Open(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal("database init", zap.Error(err))
	}

	if cfg.ResetDB {
		log.Warn("RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			log.Warn("drop tables", zap.Error(err))
		}
	}

	if err := db.Migrate(gormDB); err != nil {
		log.Fatal("auto-migrate", zap.Error(err))
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	if cacheClient.Enabled() {
		if err := cacheClient.Ping(context.Background()); err != nil {
			log.Warn("redis unavailable, continuing without cache", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
	} else {
		log.Info("REDIS_ADDR not set, cache and session revocation disabled")
	}

	if cfg.SecretKey == "changeme" {
		log.Warn("SECRET_KEY not set, using the insecure default")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	nnaRepo := repository.NewNNARepository(gormDB)
	attentionRepo := repository.NewAttentionRepository(gormDB)

	// Initialize auth components
	sessions := auth.NewSessionService(cfg.SecretKey, cfg.SessionTTL)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, sessions, tokenStore, log)
	nnaService := service.NewNNAService(nnaRepo, attentionRepo, cacheClient)
	dashboardService := service.NewDashboardService(nnaRepo, attentionRepo, cacheClient, time.Now)

	created, err := authService.BootstrapAdmin(context.Background(), cfg.AdminUser, cfg.AdminPass)
	if err != nil {
		log.Fatal("bootstrap admin", zap.Error(err))
	}
	if created {
		log.Info("admin user created", zap.String("username", cfg.AdminUser))
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	if err := router.Register(e, log, authService, router.Handlers{
		Auth:      handler.NewAuthHandler(authService, cfg.CookieSecure),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		NNA:       handler.NewNNAHandler(nnaService),
	}); err != nil {
		log.Fatal("register routes", zap.Error(err))
	}

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	addr := ":" + cfg.ServerPort
	go func() {
		log.Info("server listening", zap.String("addr", addr), zap.String("swagger", "/swagger/index.html"))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server start", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown", zap.Error(err))
	}
}
