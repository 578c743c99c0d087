package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"oragh/backend/config"
	"oragh/backend/internal/api/handler"
	"oragh/backend/internal/api/router"
	"oragh/backend/internal/repository"
	"oragh/backend/internal/service"
	"oragh/backend/pkg/database"
	"oragh/backend/pkg/jwt"
	applogger "oragh/backend/pkg/logger"
	"oragh/backend/pkg/mailer"
	"oragh/backend/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "path to the config file")
	flag.Parse()

	// 1. Configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Logger
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.String("mail_driver", cfg.Mail.Driver),
	)

	// 3. Database and migrations
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("get sql.DB failed", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}

	// 4. Redis is optional: without it logout and rate limiting are not enforced.
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis unavailable, token blacklist and rate limiting disabled", zap.Error(err))
		rdb = nil
	}
	var blacklist service.TokenBlacklist
	if rdb != nil {
		blacklist = rdb
	}

	// 5. Mail transport
	sender, err := mailer.New(&cfg.Mail, logger)
	if err != nil {
		logger.Fatal("mailer init failed", zap.Error(err))
	}

	// 6. Repository -> Service -> Handler
	jwtMgr := jwt.NewManager(&cfg.Auth)
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, blacklist, sender, logger)

	if err := handler.RegisterValidators(); err != nil {
		logger.Fatal("register validators failed", zap.Error(err))
	}
	h := handler.NewHandler(svc)

	engine := router.Setup(cfg, h, jwtMgr, rdb, logger)

	// 7. HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}

	if err := sender.Close(); err != nil {
		logger.Warn("mailer close failed", zap.Error(err))
	}
	if err := sqlDB.Close(); err != nil {
		logger.Warn("database close failed", zap.Error(err))
	}
	if rdb != nil {
		_ = rdb.Close()
	}

	logger.Info("stopped")
}
