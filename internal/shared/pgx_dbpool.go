package shared

import (
	"context"
	"log/slog"
	"regexp"

	"github.com/yugabyte/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.25.0"

	"populationservice/internal/config"
)

// InitializeDB builds the pgx connection pool for the active environment's
// database URL. The pool is created once at startup and shared by every
// request.
func InitializeDB(ctx context.Context) (*pgxpool.Pool, error) {
	poolConfig, configErr := pgxPoolConfig()
	if configErr != nil {
		return nil, configErr
	}

	dbPool, poolErr := pgxpool.NewWithConfig(ctx, poolConfig)
	if poolErr != nil {
		slog.Error("Unable to create pgx connection pool", config.ErrAttr(poolErr))
		return nil, poolErr
	}

	_ = InitPgxPoolMeter(dbPool)
	return dbPool, nil
}

// PingDB forces at least one valid connection before the server accepts
// traffic.
func PingDB(ctx context.Context, dbPool *pgxpool.Pool) error {
	if err := dbPool.Ping(ctx); err != nil {
		slog.Error("Unable to ping the database", config.ErrAttr(err))
		return err
	}
	return nil
}

func pgxPoolConfig() (*pgxpool.Config, error) {
	url := config.DatabaseURL()

	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		slog.Warn("Failed to parse pgxpool url", config.ErrAttr(err))
		return nil, err
	}

	poolConfig.MaxConns = config.DBMaxConns
	poolConfig.MinConns = config.DBMinConns
	poolConfig.MaxConnLifetime = config.DBMaxConnLifetime
	poolConfig.MaxConnLifetimeJitter = config.DBMaxConnLifetimeJitter
	poolConfig.HealthCheckPeriod = config.DBHealthCheckPeriod
	poolConfig.ConnConfig.ConnectTimeout = config.DBConnectTimeout

	if config.OTELTracerEnabled {
		poolConfig.ConnConfig.Tracer = NewQueryTracer([]attribute.KeyValue{
			semconv.DBSystemKey.String("postgresql"),
			semconv.DBConnectionStringKey.String(maskPostgresPassword(url)),
			semconv.ServerAddress(config.Hostname),
		})
	}

	return poolConfig, nil
}

func maskPostgresPassword(connURL string) string {
	re := regexp.MustCompile(`(postgres://[^:]+:)([^@]+)(@.+)`)
	return re.ReplaceAllString(connURL, `${1}*****${3}`)
}
