package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"coderefine/internal/application"
	appanalysis "coderefine/internal/application/analysis"
	"coderefine/internal/config"
	domai "coderefine/internal/domain/ai"
	domain "coderefine/internal/domain/analysis"
	"coderefine/internal/infra/ai/gemini"
	openaic "coderefine/internal/infra/ai/openai"
	mysqlp "coderefine/internal/infra/db/mysql"
	postgresp "coderefine/internal/infra/db/postgres"
	"coderefine/internal/infra/httpserver"
	minioStore "coderefine/internal/infra/storage"
	"coderefine/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	log, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	// model backend; no key means permanent demo mode for the process lifetime
	var aiClient domai.Client
	switch cfg.AI.Provider {
	case "openai":
		if cfg.AI.OpenAIAPIKey != "" {
			aiClient = openaic.NewClient(cfg.AI.OpenAIAPIKey, cfg.AI.Model)
		}
	default:
		if cfg.AI.GeminiAPIKey != "" {
			aiClient = gemini.NewClient(gemini.Config{
				APIKey:          cfg.AI.GeminiAPIKey,
				Model:           cfg.AI.Model,
				Timeout:         time.Duration(cfg.AI.TimeoutSeconds) * time.Second,
				MaxOutputTokens: cfg.AI.MaxOutputTokens,
			})
		}
	}
	if aiClient == nil {
		log.Warn("no API key configured, running in demo mode",
			zap.String("provider", cfg.AI.Provider))
	} else {
		log.Info("model backend configured", zap.String("provider", aiClient.Name()))
	}

	// optional history repository
	var repo domain.Repository
	var db *sql.DB
	checkers := map[string]middleware.HealthChecker{}
	if cfg.Database.Enabled {
		switch cfg.Database.Driver {
		case "postgres":
			db, err = postgresp.Connect(ctx, cfg.PostgresDSN())
			if err != nil {
				log.Fatal("postgres connect error", zap.Error(err))
			}
			repo = postgresp.NewAnalysisRepository(db)
		default:
			db, err = mysqlp.Connect(ctx, cfg.MySQLDSN())
			if err != nil {
				log.Fatal("mysql connect error", zap.Error(err))
			}
			repo = mysqlp.NewAnalysisRepository(db)
		}
		defer db.Close()
		checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
	}

	// optional archive store
	var archive domain.ArchiveStore
	if cfg.Minio.Enabled {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			log.Fatal("minio init error", zap.Error(err))
		}
		archive = store
	}

	svc := &appanalysis.Service{
		AI:      aiClient,
		Repo:    repo,
		Archive: archive,
		Clock:   application.SystemClock{},
		Timeout: time.Duration(cfg.AI.TimeoutSeconds) * time.Second,
		Log:     log,
	}

	handler := httpserver.NewRouter(svc, log, httpserver.Options{
		HealthCheckers:     checkers,
		StaticDir:          cfg.Server.StaticDir,
		RateLimitCapacity:  cfg.RateLimit.Capacity,
		RateLimitPerSecond: cfg.RateLimit.PerSecond,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Info("shutting down server")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Error("shutdown error", zap.Error(err))
	}
}
