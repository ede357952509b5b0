package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	httpctx "github.com/dtroode/codeauth-server/internal/api/http/context"
	"github.com/dtroode/codeauth-server/internal/api/http/router"
	httpServer "github.com/dtroode/codeauth-server/internal/api/http/server"
	"github.com/dtroode/codeauth-server/internal/cache/redis"
	"github.com/dtroode/codeauth-server/internal/config"
	"github.com/dtroode/codeauth-server/internal/delivery"
	"github.com/dtroode/codeauth-server/internal/logger"
	"github.com/dtroode/codeauth-server/internal/model"
	"github.com/dtroode/codeauth-server/internal/repository/postgres"
	"github.com/dtroode/codeauth-server/internal/server"
	"github.com/dtroode/codeauth-server/internal/service"
	"github.com/dtroode/codeauth-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	cache, err := redis.NewCacheFromURL(ctx, cfg.Redis.URL)
	if err != nil {
		logger.Fatal("failed to initialize cache", "error", err)
	}
	defer cache.Close()

	tokenManager, err := token.NewJWT(cfg.JWT.Secret, cfg.JWT.Algorithm, token.WithRefreshSecret(cfg.JWT.RefreshSecret))
	if err != nil {
		logger.Fatal("failed to initialize token manager", "error", err)
	}

	dispatcher := delivery.NewDispatcher(delivery.NewLogSender(logger), delivery.Config{
		Workers:     cfg.Delivery.Workers,
		QueueSize:   cfg.Delivery.QueueSize,
		MaxAttempts: cfg.Delivery.MaxAttempts,
		RetryDelay:  cfg.Delivery.RetryDelay,
	}, logger)
	dispatcher.Start(context.WithoutCancel(ctx))

	userRepo := postgres.NewUserRepository(db)
	transactor := postgres.NewTransactor(db)

	authService := service.NewAuth(
		service.NewCodeService(cache, cfg.Code.Length, cfg.Code.TTL, logger),
		service.NewIdentityService(userRepo, transactor, logger),
		service.NewTokenService(tokenManager, cfg.JWT.TTL, logger),
		dispatcher,
		logger,
	)

	r := router.New(authService, httpctx.NewManager(), map[string]model.Pinger{
		"postgres": db,
		"redis":    cache,
	}, logger)
	srv := httpServer.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))
	sl := server.NewSecurityLayer(cfg.HTTP)

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address(), "https", cfg.HTTP.EnableHTTPS)
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(srv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}
	wg.Wait()

	if err := dispatcher.Stop(shutdownCtx); err != nil {
		logger.Error("error during delivery shutdown", "error", err)
	}

	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
