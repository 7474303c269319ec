// stubserver runs the local backend: the same routes, envelopes and status
// codes the production API answers with, backed by sqlite or postgres.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/doremi/internal/api"
	"github.com/d60-Lab/doremi/internal/api/handler"
	"github.com/d60-Lab/doremi/internal/config"
	"github.com/d60-Lab/doremi/internal/repository"
	"github.com/d60-Lab/doremi/internal/service"
	"github.com/d60-Lab/doremi/pkg/database"
	"github.com/d60-Lab/doremi/pkg/logger"
	"github.com/d60-Lab/doremi/pkg/tracing"
)

func main() {
	cfg, err := config.Load(os.Getenv("DOREMI_CONFIG"))
	if err != nil {
		panic(err)
	}
	log, err := logger.New(logger.Options{Debug: cfg.Debug, SentryDSN: cfg.SentryDSN})
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, "doremi-stub", cfg.OTLPEndpoint)
	if err != nil {
		log.Fatal("tracing init failed", zap.Error(err))
	}
	defer shutdownTracing(context.Background())

	db, err := database.Open(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal("database open failed", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	// Follower counts are cached in redis when one is reachable.
	var cache *redis.Client
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if rdb.Ping(pingCtx).Err() == nil {
			cache = rdb
		} else {
			log.Warn("redis unreachable, follower counts served from the database", zap.String("addr", cfg.RedisAddr))
		}
		cancel()
	}

	users := repository.NewUserRepository(db)
	posts := repository.NewPostRepository(db)
	comments := repository.NewCommentRepository(db)
	engagements := repository.NewEngagementRepository(db)
	follows := repository.NewFollowRepository(db)
	hashtags := repository.NewHashtagRepository(db)
	timeline := repository.NewTimelineRepository(db)

	h := handler.New(
		service.NewAuthService(users, cfg.JWTSecret, 24*time.Hour),
		service.NewPostService(db, posts, users, engagements, hashtags, timeline),
		service.NewCommentService(comments, posts, users),
		service.NewEngagementService(engagements, posts),
		service.NewRelationshipService(follows, cache, 30*time.Second),
		service.NewHashtagService(hashtags),
		log,
	)

	fanout := service.NewFanoutWorker(timeline, follows, log)
	stopFanout := fanout.Start()
	defer stopFanout()

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: api.NewRouter(h, log, api.Options{JWTSecret: cfg.JWTSecret, Debug: cfg.Debug}),
	}
	go func() {
		log.Info("stub server listening", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("shutdown incomplete", zap.Error(err))
	}
}
