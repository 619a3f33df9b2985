package services

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/countrysync/internal/countries"
	"github.com/vvka-141/countrysync/internal/db"
	"github.com/vvka-141/countrysync/pkg/countrysync"
)

// SyncService runs one fetch, upsert and verify cycle.
//
// The remote directory is fetched before any database work, so a failing
// service never opens a connection. All writes and the verification read
// share one transaction that is committed only after the report has been
// printed.
type SyncService struct {
	fetcherFactory   countrysync.FetcherFactory
	connectorFactory countrysync.ConnectorFactory
	logger           countrysync.Logger
	out              io.Writer
}

// NewSyncService creates a new SyncService with all dependencies injected.
// The verification report is written to out.
//
// Panics if any dependency is nil.
func NewSyncService(
	fetcherFactory countrysync.FetcherFactory,
	connectorFactory countrysync.ConnectorFactory,
	logger countrysync.Logger,
	out io.Writer,
) *SyncService {
	if fetcherFactory == nil {
		panic("fetcherFactory cannot be nil")
	}
	if connectorFactory == nil {
		panic("connectorFactory cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	if out == nil {
		panic("out cannot be nil")
	}

	return &SyncService{
		fetcherFactory:   fetcherFactory,
		connectorFactory: connectorFactory,
		logger:           logger,
		out:              out,
	}
}

var _ countrysync.Syncer = (*SyncService)(nil)

// Run executes the job. Returned errors wrap exactly one stage sentinel
// from pkg/countrysync.
func (s *SyncService) Run(ctx context.Context, config countrysync.SyncConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}

	if config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.Timeout)
		defer cancel()
	}

	runID := uuid.NewString()
	connConfig := config.Connection
	if connConfig.AppName == "" {
		connConfig.AppName = fmt.Sprintf("%s-%s", countrysync.AppNamePrefix, runID)
	}
	s.logger.Verbose("Run %s started", runID)

	records, err := s.fetch(ctx, config.WSDL)
	if err != nil {
		return err
	}
	s.logger.Verbose("Fetched %d countries", len(records))

	session, err := s.openSession(ctx, &connConfig)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			s.logger.Verbose("Rollback failed: %v", cerr)
		}
	}()

	tx := session.Tx()

	if err := countries.EnsureSchema(ctx, tx); err != nil {
		return err
	}
	s.logger.Verbose("Table %s ready", countrysync.TableName)

	affected, err := countries.Upsert(ctx, tx, records)
	if err != nil {
		return err
	}
	s.logger.Verbose("Upserted %d records (%d rows affected)", len(records), affected)

	sample, err := countries.Report(ctx, tx, countrysync.ReportLimit)
	if err != nil {
		return err
	}
	if err := countries.PrintReport(s.out, sample); err != nil {
		return fmt.Errorf("%w: writing report: %w", countrysync.ErrRead, err)
	}

	if err := session.Commit(ctx); err != nil {
		return fmt.Errorf("%w: %w", countrysync.ErrCommit, err)
	}

	s.logger.Info("Synchronized %d countries into %s", len(records), countrysync.TableName)
	return nil
}

func (s *SyncService) fetch(ctx context.Context, wsdlURL string) ([]countrysync.CountryRecord, error) {
	fetcher, err := s.fetcherFactory(wsdlURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", countrysync.ErrRemoteFetch, err)
	}
	s.logger.Verbose("Fetching country list from %s", wsdlURL)
	return fetcher.FetchCountries(ctx)
}

// openSession connects, acquires the single connection and begins the
// transaction. On failure every handle opened so far is released.
func (s *SyncService) openSession(ctx context.Context, connConfig *countrysync.ConnectionConfig) (*countrysync.Session, error) {
	connector, err := s.connectorFactory(connConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", countrysync.ErrConnection, err)
	}

	s.logger.Verbose("Connecting to %s", db.MaskPassword(connConfig))
	pool, err := connector.Connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", countrysync.ErrConnection, err)
	}

	session, err := beginSession(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return session, nil
}

func beginSession(ctx context.Context, pool *pgxpool.Pool) (*countrysync.Session, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: acquiring connection: %w", countrysync.ErrCursor, err)
	}

	tx, err := conn.Begin(ctx)
	if err != nil {
		conn.Release()
		return nil, fmt.Errorf("%w: beginning transaction: %w", countrysync.ErrCursor, err)
	}

	return countrysync.NewSession(pool, conn, tx), nil
}
