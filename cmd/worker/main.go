package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"resumeKit/internal/config"
	"resumeKit/internal/database"
	"resumeKit/internal/metrics"
	"resumeKit/internal/pdf"
	"resumeKit/internal/prefs"
	"resumeKit/internal/render"
	"resumeKit/internal/storage"
	"resumeKit/internal/tasks"
	"resumeKit/internal/worker"
)

func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil)).With(slog.String("service", "worker"))
	slog.SetDefault(logger)

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	log.Println("database connection ready for worker")

	storageClient, err := storage.NewClient(cfg.MinIO)
	if err != nil {
		log.Fatalf("init storage client: %v", err)
	}
	log.Printf("storage client ready, bucket=%s", cfg.MinIO.Bucket)

	redisAddr := cfg.Redis.Addr()
	redisClient := redis.NewClient(&redis.Options{Addr: redisAddr})
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

	capturer := pdf.NewCapturer("#"+render.ReadyMarkerID, cfg.Worker.RenderTimeout, logger)
	renderer := worker.RendererFunc(capturer.Render)
	if cfg.Worker.ExportMode == config.ExportModePrint {
		renderer = capturer.PrintPDF
	}

	server := asynq.NewServer(asynq.RedisClientOpt{Addr: redisAddr}, asynq.Config{
		Concurrency: cfg.Worker.Concurrency,
	})

	pdfHandler := worker.NewPDFTaskHandler(db, prefsStore, renderer, storageClient, redisClient, logger, cfg.Worker.ExportMode)

	mux := asynq.NewServeMux()
	mux.Use(metrics.AsynqMetricsMiddleware())
	mux.Handle(tasks.TypePDFExport, pdfHandler)

	if addr := cfg.Worker.MetricsAddr; addr != "" {
		go func() {
			metricsMux := http.NewServeMux()
			metricsMux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(addr, metricsMux); err != nil {
				logger.Error("metrics server stopped", slog.Any("error", err))
			}
		}()
	}

	logger.Info("worker service started",
		slog.String("redis_addr", redisAddr),
		slog.String("export_mode", cfg.Worker.ExportMode),
		slog.Int("concurrency", cfg.Worker.Concurrency),
	)
	if err := server.Run(mux); err != nil {
		logger.Error("worker server stopped", slog.Any("error", err))
	}
}
