package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/imattdu/converter/config"
	"github.com/imattdu/converter/handler"
	"github.com/imattdu/converter/httpclient"
	"github.com/imattdu/converter/logx"
	"github.com/imattdu/converter/middleware"
	"github.com/imattdu/converter/retryx"
	"github.com/imattdu/converter/storage"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONVERTER_CONFIG"), "path to yaml config")
	flag.Parse()

	if err := run(*configPath); err != nil {
		log.Fatalln(err)
	}
}

func newLogger(cfg config.LogConfig) (logx.Logger, func() error, error) {
	if cfg.Driver == "zap" {
		lvl, _ := config.ParseLevel(cfg.Level)
		return logx.NewZapConsole(lvl)
	}
	return logx.New(cfg.LogxConfig())
}

func newSource(cfg config.StorageConfig, logger logx.Logger) (storage.Source, error) {
	if cfg.BaseURL != "" {
		return storage.NewRemoteSource(cfg.BaseURL, logger,
			httpclient.WithDefaultTimeout(cfg.Timeout),
			httpclient.WithReadWriteTimeout(cfg.Timeout),
		)
	}
	return storage.NewLocalSource(cfg.Dir), nil
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	source, err := newSource(cfg.Storage, logger)
	if err != nil {
		return err
	}
	executor := retryx.New(
		retryx.WithLogger(logger),
		retryx.WithBackoff(retryx.Exponential(cfg.Retry.BaseDelay)),
		retryx.WithMetrics(retryx.NewMetrics(reg)),
	)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(
		middleware.Trace(logger),
		middleware.Access(logger),
		middleware.ErrorResponse(middleware.ErrorResponseConfig{
			Classification:  middleware.DefaultClassification(),
			JSONContentType: cfg.App.JSONContentType,
			Logger:          logger,
			Metrics:         middleware.NewMetrics(reg),
		}),
	)
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	handler.NewFileHandler(source, executor, cfg.Retry.MaxRetries, logger).Register(engine)

	srv := &http.Server{Addr: cfg.Server.Addr, Handler: engine}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, logx.TagUndef, "server started", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	logger.Info(shutdownCtx, logx.TagUndef, "shutting down")
	return srv.Shutdown(shutdownCtx)
}
