package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/shyaka/todo-backend/internal/api"
	"github.com/shyaka/todo-backend/internal/api/handler"
	"github.com/shyaka/todo-backend/internal/core/service"
	"github.com/shyaka/todo-backend/internal/infrastructure/config"
	"github.com/shyaka/todo-backend/internal/infrastructure/db/mongo"
	redisdb "github.com/shyaka/todo-backend/internal/infrastructure/db/redis"
	"github.com/shyaka/todo-backend/pkg/logger"
)

// @title                       TODO Backend API
// @version                     1.0.0
// @description                 User signup and login with JWT bearer tokens, and per-user TODO items.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.
func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		l := logger.Init(logger.Options{Pretty: true})
		l.Fatal().Err(err).Msg("load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "todo-backend",
	})

	// run returns only after its deferred cleanups have released Mongo and Redis.
	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("server exited")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	for _, w := range cfg.InsecureDefaults() {
		log.Warn().Msg(w)
	}

	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return fmt.Errorf("connect to MongoDB: %w", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")

	users := mongo.NewUserRepository(db)
	tasks := mongo.NewTaskRepository(db)
	if err := mongo.EnsureIndexes(ctx, users, tasks); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	checks := map[string]handler.Check{
		"mongodb": func(ctx context.Context) error { return client.Ping(ctx, nil) },
	}
	deps := api.Deps{
		Users: users,
		Tasks: tasks,
		Auth: service.AuthOptions{
			JWTSecret:  cfg.JWTSecret,
			TokenTTL:   cfg.TokenTTL,
			BcryptCost: cfg.BcryptCost,
		},
		Logger:       log,
		AllowOrigins: cfg.CORSAllowedOrigins,
		Checks:       checks,
	}

	redisCfg := redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}
	if redisCfg.Enabled() {
		rdb, err := redisdb.Connect(ctx, redisCfg)
		if err != nil {
			return fmt.Errorf("connect to Redis: %w", err)
		}
		defer func() { _ = rdb.Close() }()

		deps.Idempotency = redisdb.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		log.Info().Str("addr", cfg.Redis.Addr).Msg("idempotency store enabled")
	} else {
		log.Info().Msg("REDIS_ADDR not set; Idempotency-Key headers are ignored")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		return fmt.Errorf("listen: %w", err)
	case <-quit:
	}
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
