package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/jackc/pgx/v5/stdlib"

	"autodialer/internal/ai"
	"autodialer/internal/articles"
	"autodialer/internal/auth"
	"autodialer/internal/calls"
	"autodialer/internal/config"
	"autodialer/internal/maintenance"
	"autodialer/internal/telephony"
	"autodialer/pkg/logger"
	"autodialer/pkg/utils"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	authManager, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	db, err := utils.OpenPostgres(rootCtx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
	if err != nil {
		log.Error("postgres init failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
	if err != nil {
		log.Error("redis init failed", "err", err)
		os.Exit(1)
	}
	defer rdb.Close()

	aiClient, err := ai.NewGeminiClient(rootCtx, cfg.Gemini)
	if err != nil {
		log.Error("gemini init failed", "err", err)
		os.Exit(1)
	}
	if !aiClient.Configured() {
		log.Warn("GEMINI_API_KEY not set; AI features will report not configured")
	}

	dialer := telephony.NewClient(cfg.Twilio)
	if !dialer.Configured() {
		log.Warn("twilio credentials not set; calls will fail with a configuration error")
	}

	callSvc := calls.NewService(calls.NewPostgresRepo(db), dialer, aiClient)
	articleSvc := articles.NewService(articles.NewPostgresRepo(db), ai.NewBatchGenerator(aiClient))

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	registerRoutes(r, deps{
		auth:        authManager,
		calls:       calls.Handlers{Service: callSvc, Redis: rdb},
		articles:    articles.Handlers{Service: articleSvc},
		maintenance: maintenance.Handlers{Service: maintenance.NewService(db)},
		db:          db,
	})

	srv := newServer(cfg.HTTPAddr(), r)

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}
