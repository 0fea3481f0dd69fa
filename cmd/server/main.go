package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chatstack/chat-api/internal/api"
	"github.com/chatstack/chat-api/internal/core/service"
	"github.com/chatstack/chat-api/internal/infrastructure/bootstrap"
	mongodb "github.com/chatstack/chat-api/internal/infrastructure/db/mongo"
	redisdb "github.com/chatstack/chat-api/internal/infrastructure/db/redis"
	"github.com/chatstack/chat-api/internal/infrastructure/queue"
	"github.com/chatstack/chat-api/internal/pkg/config"
	"github.com/chatstack/chat-api/pkg/logger"
)

// @title        Chat API
// @version      1.0
// @description  Minimal chat backend with stateless token authentication.
// @BasePath     /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fallback := logger.New(logger.Options{})
		fallback.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.New(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	// --- Persistence ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	userRepo := mongodb.NewUserRepository(db)
	messageRepo := mongodb.NewMessageRepository(db)
	auditRepo := mongodb.NewAuditRepository(db)

	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure user indexes")
	}
	if err := messageRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure message indexes")
	}

	// --- Bootstrap: anonymous + initial admin, idempotent ---
	if err := bootstrap.Run(ctx, userRepo, bootstrap.Config{
		AdminUsername: cfg.Bootstrap.AdminUsername,
		AdminPassword: cfg.Bootstrap.AdminPassword,
	}, log); err != nil {
		log.Fatal().Err(err).Msg("bootstrap failed")
	}

	// --- Audit write-behind ---
	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, auditRepo, log)
	dispatcher.Start(ctx)

	// --- Core services ---
	statsCache := redisdb.NewStatsCache(rdb, cfg.StatsCacheTTL, log)
	tokenService := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(userRepo, tokenService, dispatcher, log)
	chatService := service.NewChatService(userRepo, messageRepo, statsCache, dispatcher, log)
	userService := service.NewUserService(userRepo, messageRepo, mongodb.NewTxRunner(mongoClient), statsCache, dispatcher, log)

	e := api.NewRouter(api.Services{
		Tokens: tokenService,
		Auth:   authService,
		Chat:   chatService,
		Users:  userService,
		Audit:  auditRepo,
	}, db, rdb, log)

	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("server listening")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http shutdown failed")
	}
}
