package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/bookmarks/config"
	"github.com/d60-Lab/bookmarks/internal/api"
	"github.com/d60-Lab/bookmarks/internal/api/handler"
	"github.com/d60-Lab/bookmarks/internal/api/middleware"
	"github.com/d60-Lab/bookmarks/internal/ranking"
	"github.com/d60-Lab/bookmarks/internal/repository"
	"github.com/d60-Lab/bookmarks/internal/service"
	"github.com/d60-Lab/bookmarks/pkg/auth"
	"github.com/d60-Lab/bookmarks/pkg/cache"
	"github.com/d60-Lab/bookmarks/pkg/database"
	"github.com/d60-Lab/bookmarks/pkg/logger"
	"github.com/d60-Lab/bookmarks/pkg/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	flushSentry, sentryOn, err := telemetry.InitSentry(cfg.Sentry)
	if err != nil {
		panic(err)
	}
	if err := logger.Init(logger.Options{Level: cfg.Log.Level, Development: cfg.Log.Development, Sentry: sentryOn}); err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	defer func() { _ = flushSentry(context.Background()) }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.InitTracing(ctx, cfg.Tracing)
	if err != nil {
		logger.Fatal("init tracing", zap.Error(err))
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Fatal("init database", zap.Error(err))
	}
	defer func() { _ = database.Close(db) }()

	rdb, err := cache.NewRedis(ctx, cfg)
	if err != nil {
		logger.Fatal("init redis", zap.Error(err))
	}
	defer func() { _ = rdb.Close() }()

	// repositories & services
	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	imageRepo := repository.NewImageRepository(db)
	actionRepo := repository.NewActionRepository(db)

	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL)
	rankStore := ranking.NewStore(rdb, ranking.Options{
		Key:         cfg.Ranking.Key,
		ViewsPrefix: cfg.Ranking.ViewsPrefix,
		Atomic:      cfg.Ranking.Atomic,
	})
	actionSvc := service.NewActionService(actionRepo, followRepo, userRepo, imageRepo, service.ActionOptions{
		Window:    cfg.Action.DedupWindow,
		FeedLimit: cfg.Action.FeedLimit,
	})
	h := handler.NewHandler(
		service.NewAccountService(userRepo, tokens, actionSvc),
		service.NewRelationshipService(followRepo, userRepo, actionSvc),
		service.NewImageService(imageRepo, rankStore, actionSvc),
		actionSvc,
		cfg.Ranking.TopN,
	)

	gin.SetMode(cfg.Server.Mode)
	opts := api.RouterOptions{ServiceName: cfg.Tracing.ServiceName, Tracing: cfg.Tracing.Enabled}
	if cfg.RateLimit.Enabled {
		opts.RateLimiter = middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}
	router := api.NewRouter(h, tokens, opts)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", zap.Error(err))
	}
}
