package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/yugabyte/pgx/v5/pgxpool"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	metricsdk "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/trace"

	"populationservice/internal/config"
	"populationservice/internal/location"
	"populationservice/internal/shared"
)

type Application interface {
	Initialize(ctx context.Context) error
	Run()
	Shutdown(ctx context.Context) error
}

// PopulationApplication owns the process-scoped resources: the HTTP server,
// the OTEL providers and the repository connection, opened once at startup
// and shared by every request.
type PopulationApplication struct {
	Server          *http.Server
	Router          *mux.Router
	TracerProvider  *trace.TracerProvider
	MetricsProvider *metricsdk.MeterProvider
	LoggerProvider  *sdklog.LoggerProvider
	DB              *pgxpool.Pool
}

func (app *PopulationApplication) Initialize(ctx context.Context) error {
	if lp, err := shared.InitializeLoggingProvider(ctx); err != nil {
		return err
	} else {
		app.LoggerProvider = lp

		consoleHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{})
		slog.SetDefault(slog.New(shared.NewOTLPLogHandler(consoleHandler, lp)))
	}

	if config.OTELExporterEnabled {
		if tp, err := shared.InitTracerProvider(ctx); err != nil {
			return err
		} else {
			app.TracerProvider = tp
		}

		if mp, err := shared.InitializeMetricProvider(ctx); err != nil {
			return err
		} else {
			app.MetricsProvider = mp
		}
	}

	repository, err := app.initializeRepository(ctx)
	if err != nil {
		return err
	}

	app.Router = mux.NewRouter()
	app.Router.Use(otelmux.Middleware(config.ServiceName))

	locationService := location.NewService(repository)
	_ = location.NewHandler(app.Router, locationService)

	app.Server = &http.Server{
		Handler:      app.Router,
		Addr:         config.ServerAddress,
		WriteTimeout: config.WriteTimeout,
		ReadTimeout:  config.ReadTimeout,
	}

	return nil
}

// initializeRepository picks the store from DB_DRIVER: the pgx pool for real
// environments, the in-process store for local hacking without a database.
func (app *PopulationApplication) initializeRepository(ctx context.Context) (location.Repository, error) {
	if config.DBDriver == "memory" {
		slog.Warn("Using in-memory repository, records will not survive a restart")
		return location.NewMemoryRepository(), nil
	}

	db, err := shared.InitializeDB(ctx)
	if err != nil {
		return nil, err
	}

	// force establishing at least one valid connection
	if err = shared.PingDB(ctx, db); err != nil {
		return nil, err
	}

	app.DB = db
	return location.NewPostgresRepository(db), nil
}

func (app *PopulationApplication) Run() {
	go func() {
		slog.Info("Starting application", slog.String("address", app.Server.Addr), slog.String("environment", config.Environment))
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Warn("Failed to start application", config.ErrAttr(err))
		}
	}()

	// Setup signal handling for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// create a context with timeout for the shutdown process
	cancelContext, cancelFn := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelFn()

	if err := app.Shutdown(cancelContext); err != nil {
		slog.Info("Failed to gracefully shutdown", config.ErrAttr(err))
	}

	slog.Info("Application stopped.")
}

// Shutdown - invokes the global shutdown on the app to remove/close open resources
func (app *PopulationApplication) Shutdown(ctx context.Context) error {
	slog.Info("Application shutting down...")

	if app.Server != nil {
		if err := app.Server.Shutdown(ctx); err != nil {
			slog.Warn("Unable to shutdown HTTP server", config.ErrAttr(err))
		}
	}

	if app.MetricsProvider != nil {
		if err := app.MetricsProvider.Shutdown(ctx); err != nil {
			slog.Warn("Unable to shutdown OTEL metrics provider", config.ErrAttr(err))
		}
	}

	if app.TracerProvider != nil {
		if err := app.TracerProvider.Shutdown(ctx); err != nil {
			slog.Warn("Unable to shutdown OTEL tracer provider", config.ErrAttr(err))
		}
	}

	if app.DB != nil {
		app.DB.Close()
	}

	if app.LoggerProvider != nil {
		if err := app.LoggerProvider.Shutdown(ctx); err != nil {
			slog.Warn("Unable to shutdown OTEL logger provider", config.ErrAttr(err))
		}
	}

	return nil
}
