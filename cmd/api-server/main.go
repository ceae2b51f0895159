// cmd/api-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"betabot/internal/common/config"
	"betabot/internal/common/credentials"
	"betabot/internal/common/database"
	"betabot/internal/common/logger"
	"betabot/internal/common/observability"
	"betabot/internal/generation"
	"betabot/internal/orchestrator"
	"betabot/internal/querylog"
	"betabot/internal/retrieval"
	"betabot/internal/server"
	"betabot/internal/warehouse"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting BetaBot API server...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	if credPath, err := credentials.Materialize(cfg.Credentials); err != nil {
		zapLog.Fatal("credential materialization failed", zap.Error(err))
	} else if credPath != "" {
		zapLog.Info("service account credentials materialized", zap.String("path", credPath))
	}

	obs := observability.New("api-server")
	defer obs.Shutdown()

	ctx := context.Background()
	collabs := server.Collaborators{}

	// --- Init Elasticsearch with retry ---
	var searcher orchestrator.Searcher
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Search)
		if err != nil {
			return err
		}
		return esClient.Ping()
	}, 5, 2*time.Second, zapLog, "Elasticsearch connection")

	if err != nil {
		zapLog.Warn("elasticsearch unavailable, answers fall back to built-in knowledge", zap.Error(err))
		searcher = retrieval.Unavailable{Err: err}
	} else {
		searcher = retrieval.NewClient(esClient, cfg.Search.Index, log)
		collabs.Search = true
		zapLog.Info("Elasticsearch connected successfully")
	}

	// --- Init PostgreSQL with retry ---
	var indicators orchestrator.Indicators
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Warehouse)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 5, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Warn("warehouse unavailable, answers omit economic context", zap.Error(err))
		indicators = warehouse.Unavailable{Err: err}
	} else {
		defer pg.Close()
		indicators = warehouse.NewIndicatorStore(pg.DB, log)
		collabs.Warehouse = true
		zapLog.Info("PostgreSQL connected successfully")
	}

	// --- Init Redis with retry ---
	var recorder orchestrator.Recorder
	var activity server.ActivityLog = querylog.NoOp{}
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 3, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Warn("redis unavailable, query log disabled", zap.Error(err))
		recorder = querylog.NoOp{}
	} else {
		defer rdb.Close()
		store := querylog.NewStore(rdb.Client, log)
		recorder = store
		activity = store
		collabs.QueryLog = true
		zapLog.Info("Redis connected successfully")
	}

	// --- Init Generation Client ---
	var gen orchestrator.Generator
	gemini, err := generation.NewGemini(ctx, cfg.GenAI, log)
	if err != nil {
		zapLog.Warn("generation client unavailable, answers degrade to the apology text", zap.Error(err))
		gen = generation.Unavailable{Model: cfg.GenAI.Model, Err: err}
	} else {
		gen = gemini
		collabs.Generation = true
		zapLog.Info("Generation client initialized", zap.String("model", cfg.GenAI.Model))
	}

	// --- Assemble Engine & HTTP Server ---
	engine := orchestrator.New(searcher, indicators, gen, recorder, obs, log)
	srv := server.New(engine, activity, collabs, log)

	httpSrv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      srv.Router(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Millisecond,
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.Int("port", cfg.Server.Port))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Millisecond)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error during HTTP shutdown", zap.Error(err))
	}

	zapLog.Info("API server stopped gracefully")
}
