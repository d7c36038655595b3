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

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/relieforg/reliefhub/internal/config"
	"github.com/relieforg/reliefhub/internal/db"
	"github.com/relieforg/reliefhub/internal/handler"
	"github.com/relieforg/reliefhub/internal/job"
	"github.com/relieforg/reliefhub/internal/mail"
	"github.com/relieforg/reliefhub/internal/metrics"
	"github.com/relieforg/reliefhub/internal/middleware"
	"github.com/relieforg/reliefhub/internal/repo"
	"github.com/relieforg/reliefhub/internal/schedule"
	"github.com/relieforg/reliefhub/internal/service"
	"github.com/relieforg/reliefhub/internal/session"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "reliefhub",
		Short: "reliefhub backend server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run reliefhub server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

			conn, err := db.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if err := db.ApplyMigrations(conn); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			return runServer(cfg, conn)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func newSessionStore(cfg config.SessionConfig) (session.Store, error) {
	idleTTL := time.Duration(cfg.IdleMinutes) * time.Minute
	switch cfg.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		return session.NewRedisStore(client, idleTTL), nil
	default:
		return session.NewMemoryStore(cfg.MemorySize, idleTTL), nil
	}
}

func runServer(cfg *config.Config, conn *sql.DB) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("session_backend", cfg.Session.Backend),
	)

	registry := prometheus.NewRegistry()
	collector := metrics.NewPromCollector(registry)

	userRepo := repo.NewUserRepo(conn)

	sessions, err := newSessionStore(cfg.Session)
	if err != nil {
		return err
	}

	sender := mail.NewSender(cfg.Mail)
	dispatcher := mail.NewDispatcher(
		sender,
		cfg.Mail.QueueSize,
		cfg.Mail.Workers,
		time.Duration(cfg.Mail.SendTimeoutS)*time.Second,
		collector,
	)
	defer dispatcher.Close()

	jwtTTL := time.Hour * time.Duration(cfg.JWTTTLHours)
	authService := service.NewAuthService(userRepo, sessions, dispatcher, collector, []byte(cfg.JWTSecret), jwtTTL)

	deps := handler.RouterDeps{
		Auth:      handler.NewAuthHandler(authService),
		Profile:   handler.NewProfileHandler(authService),
		Limiter:   middleware.NewRateLimiter(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst),
		JWTSecret: []byte(cfg.JWTSecret),
		JWTTTL:    jwtTTL,
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
			group.GET("/metrics", metrics.Handler(registry))
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(cfg.CORSOrigins),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}

	scheduler := schedule.NewCronScheduler()
	if err := scheduler.AddJob(job.NewChallengeCleanupJob(userRepo), "*/15 * * * *"); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler.Start(ctx)
	defer scheduler.Stop()

	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()
	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}
