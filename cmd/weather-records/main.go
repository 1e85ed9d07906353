package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"weather-records/config"
	v1 "weather-records/internal/controllers/http/v1"
	"weather-records/internal/repositories"
	"weather-records/internal/services/records"
	"weather-records/internal/storage"
	"weather-records/pkg/httpserver"
	"weather-records/pkg/logger"
	"weather-records/pkg/observe"
)

// @title Weather Records API
// @version 1.0.0
// @description CRUD service for weather summaries: geocodes a location, averages
// @description daily temperature extremes over a date range and persists the result.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:5000
// @BasePath /
// @schemes http

// @tag.name Records
// @tag.description Weather record operations
func main() {
	ctx, cancel := context.WithCancel(context.Background())

	_ = godotenv.Load()

	cnf := config.NewConfig()

	writers := []io.Writer{os.Stdout}
	if cnf.SentryDSN != "" {
		writers = append(writers, observe.NewSentryHook(cnf.AppEnv, cnf.AppName, cnf.SentryDSN, cnf.AppEnv == "development"))
	}
	l := logger.NewZapLogger(cnf.AppName, writers...)

	store, err := storage.NewSQLiteRecordStore(cnf.DatabasePath)
	if err != nil {
		l.Fatal("cannot open record store", map[string]any{"err": err, "path": cnf.DatabasePath})
	}

	geo, weather := repositories.InitProviders(cnf, l)

	service := records.NewService(store, geo, weather, l)

	app := httpserver.InitFiberServer(cnf.AppName, cnf.CORSOrigins)

	v1.NewRouter(
		app,
		service,
		cnf.AppName,
		l,
	)

	go func() {
		if err := app.Listen(cnf.Addr()); err != nil {
			l.Fatal("cannot run the server", map[string]any{"err": err})
		}
	}()

	l.Info("application started successfully", map[string]any{"addr": cnf.Addr()})

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer func() {
		l.Warning("stopping application services")
		signal.Stop(sigCh)
		close(sigCh)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		_ = app.ShutdownWithContext(shutdownCtx)
		_ = store.Close()
		_ = l.Stop()
		cancel()
	}()

	select {
	case <-sigCh:
		fmt.Println("received shutdown signal")
	case <-ctx.Done():
		fmt.Println("context cancelled")
	}
}
