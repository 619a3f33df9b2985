package services

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/countrysync/pkg/countrysync"
)

type mockConnector struct {
	pool *pgxpool.Pool
	err  error
}

func (m *mockConnector) Connect(_ context.Context) (*pgxpool.Pool, error) {
	return m.pool, m.err
}

type mockFetcher struct {
	records []countrysync.CountryRecord
	err     error
	calls   int
}

func (m *mockFetcher) FetchCountries(_ context.Context) ([]countrysync.CountryRecord, error) {
	m.calls++
	return m.records, m.err
}

func fetcherFactoryFor(f countrysync.CountryFetcher) countrysync.FetcherFactory {
	return func(string) (countrysync.CountryFetcher, error) { return f, nil }
}

// connectorRecorder counts factory calls and captures the config it saw.
type connectorRecorder struct {
	mu        sync.Mutex
	calls     int
	lastConf  countrysync.ConnectionConfig
	connector countrysync.Connector
	err       error
}

func (r *connectorRecorder) factory(config *countrysync.ConnectionConfig) (countrysync.Connector, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.lastConf = *config
	if r.err != nil {
		return nil, r.err
	}
	return r.connector, nil
}
