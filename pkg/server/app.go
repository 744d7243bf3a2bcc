package server

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sudz7/n50-swing-algo/internal/handler/ws"
	"github.com/sudz7/n50-swing-algo/internal/usecase"
	"github.com/sudz7/n50-swing-algo/pkg/config"
	xhttp "github.com/sudz7/n50-swing-algo/pkg/http"
	"github.com/sudz7/n50-swing-algo/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	log        *logger.Logger
	coord      *usecase.Coordinator
	hub        *ws.Hub
	handler    xhttp.Handler
	closers    []io.Closer
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *logger.Logger,
	coord *usecase.Coordinator,
	hub *ws.Hub,
	handler xhttp.Handler,
) *App {
	return &App{
		cfg:     cfg,
		log:     log,
		coord:   coord,
		hub:     hub,
		handler: handler,
	}
}

// AddCloser registers a resource closed on shutdown, after the coordinator
// has stopped publishing.
func (a *App) AddCloser(c io.Closer) {
	a.closers = append(a.closers, c)
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	metricsPath := ""
	if a.cfg.Metrics.Enabled {
		metricsPath = a.cfg.Metrics.Path
	}
	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(metricsPath),
	)

	go a.hub.Run()

	a.coord.Start()
	// Warm the cache so the first dashboard load does not eat a 503.
	a.coord.TriggerRefresh()
	a.log.Info("refresh coordinator started",
		logger.Int("symbols", len(a.cfg.Market.Symbols)),
		logger.Duration("ttl", a.cfg.Market.CacheTTL),
	)

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", logger.Error(err))
		return err
	}
	a.log.Info("http server started", logger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(ctx); err != nil {
		a.log.Error("http shutdown error", logger.Error(err))
	}

	if err := a.coord.Stop(ctx); err != nil {
		a.log.Warn("coordinator stop error", logger.Error(err))
	}

	a.hub.Stop()

	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.log.Warn("close error", logger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
