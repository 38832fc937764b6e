package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"fulfillment/api"
	"fulfillment/cmd"
	httpin "fulfillment/internal/adapters/in/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	configs, err := cmd.LoadConfig(".env")
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	obs, err := cmd.SetupObservability(ctx, configs)
	if err != nil {
		log.Fatalf("Error setting up telemetry: %v", err)
	}

	gormDB, err := gorm.Open(postgres.Open(configs.DatabaseDSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	app, err := cmd.NewCompositionRoot(configs, gormDB, obs.Instruments, obs.Logger)
	if err != nil {
		log.Fatalf("Error building application: %v", err)
	}

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}

	e := newWebServer(ctx, app, configs, obs)
	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			obs.Logger.Error("HTTP server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	obs.Logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		obs.Logger.Error("HTTP shutdown failed", "error", err)
	}
	jobManager.StopAll()
	if err := app.Close(); err != nil {
		obs.Logger.Error("Closing publisher failed", "error", err)
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		obs.Logger.Error("Telemetry shutdown failed", "error", err)
	}
}

func newWebServer(ctx context.Context, app *cmd.CompositionRoot, configs cmd.Config, obs *cmd.Observability) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(echo.WrapMiddleware(otelhttp.NewMiddleware(configs.OtelServiceName)))

	opts := httpin.RouteOptions{Metrics: obs.Metrics}
	if configs.OpenAPIValidation {
		doc, err := httpin.LoadSpec(ctx, api.OpenAPI)
		if err != nil {
			log.Fatalf("Error loading OpenAPI document: %v", err)
		}
		validator, err := httpin.RequestValidator(doc)
		if err != nil {
			log.Fatalf("Error building request validator: %v", err)
		}
		opts.Validator = validator
	}

	httpin.RegisterRoutes(e, app.CreateHTTPServer(), opts)
	return e
}
