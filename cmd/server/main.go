package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"codearena/internal/api"
	"codearena/internal/cache"
	"codearena/internal/config"
	"codearena/internal/events"
	"codearena/internal/logging"
	"codearena/internal/ratelimit"
	"codearena/internal/store"
	"codearena/internal/worker"
)

func main() {
	cfg := config.Load()

	log, err := logging.New(cfg.Environment, cfg.BetterStackUploadURL, cfg.BetterStackSourceToken)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	color.Cyan("codearena server starting (env=%s, port=%s)", cfg.Environment, cfg.Port)

	rdb := store.NewClient(cfg.RedisHost, cfg.RedisPort, cfg.RedisPassword)
	defer rdb.Close()

	queue := store.NewQueue(rdb)
	results := store.NewResultStore(rdb, time.Duration(cfg.ResultTTLSeconds)*time.Second)
	cacheStore := cache.New(rdb, time.Duration(cfg.CacheTTLSeconds)*time.Second)
	limiter := ratelimit.New(rdb, cfg.RateLimitMax, time.Duration(cfg.RateLimitWindow)*time.Second)

	if err := os.MkdirAll(cfg.SandboxJobs, 0o700); err != nil {
		log.Fatal("could not create sandbox jobs root", zap.Error(err))
	}

	workerLog := logging.NewWorkerLogger(cfg.Environment)

	sandbox := worker.NewSandbox(cfg.SandboxConfigDir, cfg.LauncherBin, cfg.SandboxJobs)
	pipeline := worker.NewPipeline(sandbox, cacheStore, workerLog)

	publisher := events.Connect(cfg.EventsNatsURL, log)
	defer publisher.Close()

	pool := worker.NewPool(queue, results, pipeline, publisher, cfg.WorkerConcurrency, workerLog)

	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)

	server := api.NewServer(cacheStore, limiter, queue, results, time.Duration(cfg.ResultTTLSeconds)*time.Second, log)
	router := server.Router()

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	color.Yellow("codearena server shutting down")
	log.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown error", zap.Error(err))
	}

	cancel()
	pool.Shutdown()
	log.Info("shutdown complete")
}
