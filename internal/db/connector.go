package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/countrysync/internal/logging"
	"github.com/vvka-141/countrysync/pkg/countrysync"
)

// Connection pool configuration constants
const (
	// DefaultMaxConns is 1: the sync job uses a single connection and a
	// single transaction for its whole lifetime.
	DefaultMaxConns = 1

	// DefaultMaxConnIdleTime keeps the one connection alive for the run.
	DefaultMaxConnIdleTime = 5 * time.Minute
)

func configurePool(poolConfig *pgxpool.Config, logger countrysync.Logger) {
	poolConfig.MaxConns = DefaultMaxConns
	poolConfig.MinConns = 0
	poolConfig.MaxConnIdleTime = DefaultMaxConnIdleTime
	poolConfig.ConnConfig.OnNotice = func(_ *pgconn.PgConn, notice *pgconn.Notice) {
		logger.Verbose("%s: %s", notice.Severity, notice.Message)
	}
}

// StandardConnector implements the Connector interface for
// username/password authentication. Failures are returned immediately.
type StandardConnector struct {
	config *countrysync.ConnectionConfig
	logger countrysync.Logger
}

// NewStandardConnector creates a new StandardConnector with the given configuration.
// Server notices are discarded.
func NewStandardConnector(config *countrysync.ConnectionConfig) *StandardConnector {
	return &StandardConnector{config: config, logger: logging.NewNullLogger()}
}

// Connect establishes a connection pool and verifies it with a ping.
func (c *StandardConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(BuildConnectionString(c.config))
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection config: %w", err)
	}

	configurePool(poolConfig, c.logger)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, wrapConnectionError(err, c.config.Host, c.config.Port, c.config.Database)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, wrapConnectionError(err, c.config.Host, c.config.Port, c.config.Database)
	}

	return pool, nil
}

// NewConnector is a ConnectorFactory whose connectors discard server notices.
func NewConnector(config *countrysync.ConnectionConfig) (countrysync.Connector, error) {
	if config == nil {
		return nil, fmt.Errorf("connection config is nil: %w", countrysync.ErrConfigMalformed)
	}
	return NewStandardConnector(config), nil
}

// NewConnectorFactory returns a ConnectorFactory whose connectors forward
// server notices (e.g. "relation already exists, skipping") to logger.Verbose.
func NewConnectorFactory(logger countrysync.Logger) countrysync.ConnectorFactory {
	return func(config *countrysync.ConnectionConfig) (countrysync.Connector, error) {
		if config == nil {
			return nil, fmt.Errorf("connection config is nil: %w", countrysync.ErrConfigMalformed)
		}
		return &StandardConnector{config: config, logger: logger}, nil
	}
}

// wrapConnectionError wraps raw pgx connection errors with actionable guidance.
func wrapConnectionError(err error, host string, port int, database string) error {
	errStr := strings.ToLower(err.Error())
	addr := fmt.Sprintf("%s:%d", host, port)

	switch {
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "actively refused"):
		return fmt.Errorf(`connection refused to %s

Possible causes:
  - PostgreSQL is not running (check: pg_isready -h %s -p %d)
  - Wrong host or port in the configuration file

Original error: %w`, addr, host, port, err)

	case strings.Contains(errStr, "no such host"):
		return fmt.Errorf(`cannot resolve host "%s"

Possible causes:
  - Hostname is misspelled in the configuration file
  - DNS is not configured or reachable

Original error: %w`, host, err)

	case strings.Contains(errStr, "password authentication failed"):
		return fmt.Errorf(`password authentication failed for database "%s"

Possible causes:
  - Wrong passwd in the configuration file (or $COUNTRYSYNC_PASSWD)
  - Wrong user

Original error: %w`, database, err)

	case strings.Contains(errStr, "does not exist"):
		return fmt.Errorf(`database "%s" does not exist

To create it:
  createdb %s

Original error: %w`, database, database, err)

	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "timed out"):
		return fmt.Errorf(`connection timed out to %s

Possible causes:
  - Server is overloaded or unresponsive
  - Firewall silently dropping packets

Original error: %w`, addr, err)

	default:
		return fmt.Errorf("failed to connect to database: %w", err)
	}
}
