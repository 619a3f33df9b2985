// Package countries holds the SQL side of the sync job: ensuring the
// country_names table, upserting records and reading back the
// verification sample.
//
// Every function takes a Querier, which pgx.Tx, *pgxpool.Conn and
// *pgxpool.Pool all satisfy, so the caller decides the transaction scope.
// Failures wrap the stage sentinels from pkg/countrysync (ErrSchema,
// ErrWrite, ErrRead).
package countries
