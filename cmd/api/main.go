package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mortality-valuation/internal/api"
	"mortality-valuation/internal/config"
	"mortality-valuation/internal/data"
	"mortality-valuation/internal/metrics"
	"mortality-valuation/internal/store"
	"mortality-valuation/internal/store/sqlite"
	"mortality-valuation/pkg/logger"

	"github.com/gin-gonic/gin"
)

const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 15 * time.Second
	writeTimeout      = 2 * time.Minute
	idleTimeout       = time.Minute
	shutdownTimeout   = 10 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.LoadServer(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.Init(logger.Options{Format: cfg.LogFormat})
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	defaults := config.Default()
	if cfg.RunConfig != "" {
		defaults, err = config.Load(cfg.RunConfig)
		if err != nil {
			log.Error(ctx, "failed to load run config", logger.String("path", cfg.RunConfig), logger.Error(err))
			os.Exit(1)
		}
	}

	var runs store.Store = store.NewMemory()
	if cfg.DBPath != "" {
		db, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			log.Error(ctx, "failed to open run store", logger.String("db_path", cfg.DBPath), logger.Error(err))
			os.Exit(1)
		}
		runs = db
	}
	defer runs.Close()

	cache := data.NewCache(cfg.CacheTTL)
	go cache.Run(ctx, time.Minute)

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.Deps{
		Log:         log,
		Metrics:     metrics.NewManager(),
		Store:       runs,
		Loader:      &data.Loader{Cache: cache},
		DataPath:    cfg.DataPath,
		Defaults:    defaults,
		CORSOrigins: cfg.CORSOrigins,
	})

	if _, err := os.Stat(cfg.DataPath); err != nil {
		log.Warn(ctx, "life-table file not found; only the synthetic dataset is available",
			logger.String("data_path", cfg.DataPath))
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr), logger.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(context.Background(), "shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "server shutdown failed", logger.Error(err))
	}
	log.Info(shutdownCtx, "server stopped")
}
