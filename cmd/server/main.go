package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"ai-news-agent/internal/adapter/newshttp"
	"ai-news-agent/internal/di"
	"ai-news-agent/internal/infra/config"
	"ai-news-agent/internal/infra/logger"
)

func main() {
	// 1. Load Config
	cfg := config.Load()

	// 2. Initialize Logger
	log := logger.New("ai-news-agent")
	slog.SetDefault(log)

	// 3. Wire Components
	// The vector store is lazy; the first ingest or question triggers the
	// actual connection, so startup never blocks on the database.
	components := di.NewApplicationComponents(cfg, log)
	defer components.Pool.Close()

	// 4. Start Worker
	components.Worker.Start()
	defer func() {
		log.Info("stopping worker")
		components.Worker.Stop()
	}()

	// 5. Initialize Echo
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())

	// 6. Register Handlers
	handler := newshttp.NewHandler(components.IngestUsecase, components.AskUsecase, components.JobRepo, log)
	handler.RegisterRoutes(e)

	// 7. Health Checks
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/readyz", func(c echo.Context) error {
		if !components.Pool.Ready() {
			return c.JSON(http.StatusOK, map[string]string{"status": "ok", "vector_store": "not connected"})
		}
		if err := components.Pool.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "db down", "error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
	})

	// 8. Start Server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		log.Info("starting server", "addr", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal("shutting down the server")
		}
	}()

	// 9. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Fatal(err)
	}
}
