package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"resumeKit/internal/api"
	"resumeKit/internal/auth"
	"resumeKit/internal/config"
	"resumeKit/internal/database"
	"resumeKit/internal/extract"
	"resumeKit/internal/generation"
	"resumeKit/internal/prefs"
	"resumeKit/internal/storage"
)

func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(slog.String("service", "api"))
	slog.SetDefault(logger)

	log.Printf("api bootstrapped with db host=%s port=%d db=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}
	log.Printf("database ready")

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr()})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("close redis client failed", slog.Any("error", err))
		}
	}()
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("ping redis: %v", err)
	}

	prefsStore, err := prefs.Open(cfg.Prefs, db, redisClient)
	if err != nil {
		log.Fatalf("open preference store: %v", err)
	}

	storageClient, err := storage.NewClient(cfg.MinIO)
	if err != nil {
		log.Fatalf("init storage client: %v", err)
	}

	privateKey, err := config.PEM(cfg.Auth.PrivateKey)
	if err != nil {
		log.Fatalf("load jwt private key: %v", err)
	}
	publicKey, err := config.PEM(cfg.Auth.PublicKey)
	if err != nil {
		log.Fatalf("load jwt public key: %v", err)
	}
	authService, err := auth.NewAuthService(privateKey, publicKey, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
	if err != nil {
		log.Fatalf("init auth service: %v", err)
	}

	queue := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.Redis.Addr()})
	defer queue.Close()

	scanner := extract.NewScanner(cfg.Uploads.ClamdAddr)
	if !scanner.Enabled() {
		logger.Warn("upload virus scanning disabled")
	}

	router := api.NewRouter(logger)
	api.RegisterRoutes(router, cfg, api.Dependencies{
		DB:          db,
		Redis:       redisClient,
		Queue:       queue,
		Storage:     storageClient,
		Prefs:       prefsStore,
		AuthService: authService,
		Writer:      generation.NewClient(cfg.Generation, logger),
		Scanner:     scanner,
		Logger:      logger,
	})

	address := fmt.Sprintf(":%d", cfg.API.Port)
	logger.Info("api listening", slog.String("addr", address), slog.String("prefs_backend", cfg.Prefs.Backend))
	if err := router.Run(address); err != nil {
		log.Fatalf("failed to start api server: %v", err)
	}
}
