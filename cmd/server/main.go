package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/config"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/api/handler"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/api/router"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/repository"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/service"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/database"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/jwt"
	applogger "github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/logger"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/mailer"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/redis"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/storage"
)

func main() {
	configPath := flag.String("config", "", "path to the config file")
	flag.Parse()

	// 1. config
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. logger
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting portal",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.String("storage", cfg.Storage.Provider),
		zap.String("mail", cfg.Mail.Provider),
	)

	// 3. database and migrations
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

	// 4. redis is optional: without it tokens are not blacklisted and login
	// is not rate limited
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis unavailable, running without token blacklist", zap.Error(err))
		rdb = nil
	}

	// 5. collaborators
	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		logger.Fatal("blob store init failed", zap.Error(err))
	}
	m, err := mailer.New(&cfg.Mail, logger)
	if err != nil {
		logger.Fatal("mailer init failed", zap.Error(err))
	}
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 6. repository → service → handler
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, rdb, store, m, logger)
	loc := service.ReminderPolicy(cfg.Reminder, logger).Location
	h := handler.NewHandler(svc, cfg, loc)

	engine := router.Setup(cfg, h, jwtMgr, rdb, logger)

	// 7. HTTP server with graceful shutdown; uploads need a longer write window
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}

	sqlDB.Close()
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("server stopped")
}
