package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/rew4n/smart-task-resource-manager/api/handler"
	"github.com/rew4n/smart-task-resource-manager/domain"
	"github.com/rew4n/smart-task-resource-manager/internal/config"
	"github.com/rew4n/smart-task-resource-manager/internal/infrastructure/buffer"
	"github.com/rew4n/smart-task-resource-manager/internal/infrastructure/monitor"
	pgInfra "github.com/rew4n/smart-task-resource-manager/internal/infrastructure/postgres"
	redisInfra "github.com/rew4n/smart-task-resource-manager/internal/infrastructure/redis"
	"github.com/rew4n/smart-task-resource-manager/internal/middleware"
	"github.com/rew4n/smart-task-resource-manager/internal/router"
	"github.com/rew4n/smart-task-resource-manager/internal/services"
	"github.com/rew4n/smart-task-resource-manager/internal/services/lifecycle"
	"github.com/rew4n/smart-task-resource-manager/internal/view"
	"github.com/rew4n/smart-task-resource-manager/pkg/httpcontext"
	"github.com/rew4n/smart-task-resource-manager/pkg/logger"
	"github.com/rew4n/smart-task-resource-manager/repository/postgres"
	redisRepo "github.com/rew4n/smart-task-resource-manager/repository/redis"
	authUC "github.com/rew4n/smart-task-resource-manager/usecase/auth"
	taskUC "github.com/rew4n/smart-task-resource-manager/usecase/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	bufferStore, err := buffer.Open(cfg.Buffer.Path, "task_buffer")
	if err != nil {
		zapLogger.Fatal("failed to open buffer store", zap.Error(err))
	}
	manager.Register("buffer", func(ctx context.Context) error {
		return bufferStore.Close()
	})

	mon := monitor.New(pool, redisClient, bufferStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	taskRepo := postgres.NewTaskRepository(pool)
	sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.Auth.SessionTTL)

	bufferProcessor := services.NewBufferProcessor(
		bufferStore,
		mon,
		taskRepo,
		zapLogger,
		services.ProcessorConfig{
			Interval:   cfg.Buffer.SyncInterval,
			BatchSize:  50,
			MaxRetries: cfg.Buffer.MaxRetry,
		},
	)
	bufferProcessor.Start()
	manager.Register("buffer_processor", func(ctx context.Context) error {
		bufferProcessor.Stop(ctx)
		return nil
	})

	credential := domain.Credential{
		Username: cfg.Auth.DemoUser,
		Password: cfg.Auth.DemoPassword,
	}
	authUseCase := authUC.New(credential, sessionRepo, cfg.Auth.JWTSecret, cfg.Auth.SessionTTL, zapLogger)
	taskUseCase := taskUC.New(taskRepo, services.NewBufferBridge(bufferProcessor), zapLogger)

	renderer, err := view.NewRenderer(cfg.Tasks.DueSoonDays)
	if err != nil {
		zapLogger.Fatal("template parsing failed", zap.Error(err))
	}

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:   apiHandler.NewAuthHandler(authUseCase, renderer, ctxAdapter, zapLogger),
		Web:    apiHandler.NewWebHandler(authUseCase, taskUseCase, renderer, ctxAdapter, zapLogger),
		Task:   apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	sessionAuth := middleware.NewSessionAuth(authUseCase, cfg.Auth.JWTSecret, cfg.Context.RequestTimeout, zapLogger)
	r := router.New(handlers, sessionAuth)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
