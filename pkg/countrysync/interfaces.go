package countrysync

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CountryFetcher retrieves the full country directory from the remote service.
// Returned records are already normalized (see NormalizeName).
type CountryFetcher interface {
	FetchCountries(ctx context.Context) ([]CountryRecord, error)
}

// FetcherFactory builds a CountryFetcher for the given WSDL URL.
type FetcherFactory func(wsdlURL string) (CountryFetcher, error)

// Connector establishes database connections.
type Connector interface {
	// Connect establishes a connection pool to the database.
	// The returned pool should be closed by the caller when done.
	Connect(ctx context.Context) (*pgxpool.Pool, error)
}

// ConnectorFactory builds a Connector for the given configuration.
type ConnectorFactory func(*ConnectionConfig) (Connector, error)

// Syncer runs the sync job end to end.
type Syncer interface {
	Run(ctx context.Context, config SyncConfig) error
}
