package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/ikiranmezar/product-listing-app/internal/catalog"
	"github.com/ikiranmezar/product-listing-app/internal/config"
	"github.com/ikiranmezar/product-listing-app/internal/observability"
)

func main() {
	ctx := context.Background()

	flags := pflag.NewFlagSet("web", pflag.ExitOnError)
	addr := flags.String("addr", "", "HTTP listen address (overrides CATALOG_PORT/PORT)")
	tmplPath := flags.String("templates", "", "templates directory")
	pubPath := flags.String("public", "", "public assets directory")
	envFile := flags.String("env-file", "", "dotenv file to load before the environment")
	_ = flags.Parse(os.Args[1:])

	var opts []config.Option
	if *envFile != "" {
		opts = append(opts, config.WithEnvFile(*envFile))
	}
	cfg, err := config.Load(ctx, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *tmplPath != "" {
		cfg.Web.TemplatesDir = *tmplPath
	}
	if *pubPath != "" {
		cfg.Web.PublicDir = *pubPath
	}

	baseLogger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()
	logger := baseLogger.Named("web")

	client := catalog.NewClient(cfg.Catalog.APIURL,
		catalog.WithTimeout(cfg.Catalog.Timeout),
		catalog.WithRetry(cfg.Catalog.RetryAttempts, cfg.Catalog.RetryDelay),
		catalog.WithLogger(logger.Named("catalog")),
	)
	if client.Endpoint() == "" {
		logger.Warn("CATALOG_API_URL not set; serving the embedded fixture catalog")
	}

	a, err := newApp(cfg, logger, client)
	if err != nil {
		logger.Fatal("failed to initialise app", zap.Error(err))
	}

	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	var cleanupWG sync.WaitGroup
	var cleanupTicker *time.Ticker
	if cfg.Stage.SweepInterval > 0 {
		cleanupTicker = time.NewTicker(cfg.Stage.SweepInterval)
		cleanupWG.Add(1)
		go func() {
			defer cleanupWG.Done()
			sweepLogger := logger.Named("stages")
			for {
				select {
				case <-cleanupTicker.C:
					if removed := a.stages.Sweep(); removed > 0 {
						sweepLogger.Info("expired stages removed", zap.Int("count", removed), zap.Int("live", a.stages.Len()))
					}
				case <-cleanupCtx.Done():
					return
				}
			}
		}()
	}

	listen := cfg.Server.Addr()
	if *addr != "" {
		listen = *addr
	}
	server := &http.Server{
		Addr:              listen,
		Handler:           newRouter(a),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverLogger := logger.Named("http").With(zap.String("addr", server.Addr))
	go func() {
		serverLogger.Info("catalog web listening",
			zap.String("env", cfg.Environment),
			zap.Bool("dev", cfg.Web.DevMode),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-shutdown
	logger.Info("shutdown signal received; draining requests")

	if cleanupTicker != nil {
		cleanupTicker.Stop()
	}
	cleanupCancel()
	cleanupWG.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
