package countries

import (
	"context"
	"fmt"
	"io"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vvka-141/countrysync/pkg/countrysync"
)

// Querier is the subset of pgx.Tx used by this package.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// EnsureSchema creates the country_names table if it does not exist.
func EnsureSchema(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, queryCreateTable); err != nil {
		return fmt.Errorf("%w: creating table %s: %w", countrysync.ErrSchema, countrysync.TableName, err)
	}
	return nil
}

// Upsert inserts records, overwriting the name of any existing code.
// All statements are sent as one batch. An empty slice is a no-op that
// does not touch q. Returns the number of rows inserted or updated.
func Upsert(ctx context.Context, q Querier, records []countrysync.CountryRecord) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}
	if err := countrysync.ValidateRecords(records); err != nil {
		return 0, fmt.Errorf("%w: %w", countrysync.ErrWrite, err)
	}

	batch := &pgx.Batch{}
	for _, r := range records {
		batch.Queue(queryUpsertCountry, r.ISOCode, r.Name)
	}

	results := q.SendBatch(ctx, batch)

	var affected int64
	for i := range records {
		tag, err := results.Exec()
		if err != nil {
			results.Close()
			return 0, fmt.Errorf("%w: upserting %s: %w", countrysync.ErrWrite, records[i].ISOCode, err)
		}
		affected += tag.RowsAffected()
	}

	if err := results.Close(); err != nil {
		return 0, fmt.Errorf("%w: completing upsert batch: %w", countrysync.ErrWrite, err)
	}

	return affected, nil
}

// Report returns up to limit rows ordered by name ascending.
func Report(ctx context.Context, q Querier, limit int) ([]countrysync.CountryRecord, error) {
	rows, err := q.Query(ctx, queryReportSample, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: querying %s: %w", countrysync.ErrRead, countrysync.TableName, err)
	}

	records, err := pgx.CollectRows(rows, pgx.RowToStructByPos[countrysync.CountryRecord])
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", countrysync.ErrRead, countrysync.TableName, err)
	}
	return records, nil
}

// PrintReport writes one tuple per record to w.
func PrintReport(w io.Writer, records []countrysync.CountryRecord) error {
	for _, r := range records {
		if _, err := fmt.Fprintln(w, r.String()); err != nil {
			return err
		}
	}
	return nil
}
