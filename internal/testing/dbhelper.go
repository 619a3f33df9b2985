package testing

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/countrysync/internal/testinfra"
	"github.com/vvka-141/countrysync/pkg/countrysync"
)

// TestConnEnvVar overrides the auto-started container.
const TestConnEnvVar = "COUNTRYSYNC_TEST_CONN"

var (
	testContainerOnce sync.Once
	testContainerConn string
	testContainerErr  error
)

func getOrStartTestContainer() (string, error) {
	testContainerOnce.Do(func() {
		ctx := context.Background()
		container, err := testinfra.StartPostgres(ctx)
		if err != nil {
			testContainerErr = err
			return
		}
		testContainerConn = container.ConnString
	})
	return testContainerConn, testContainerErr
}

// GetTestConnectionString returns the test database connection string.
// Priority: COUNTRYSYNC_TEST_CONN env var > auto-started testcontainer > skip test.
func GetTestConnectionString(t *testing.T) string {
	t.Helper()

	if connString := os.Getenv(TestConnEnvVar); connString != "" {
		return connString
	}

	connString, err := getOrStartTestContainer()
	if err != nil {
		t.Skipf("%s not set and Docker unavailable: %v", TestConnEnvVar, err)
	}
	return connString
}

// SkipIfShort skips the test if running in short mode (-short flag).
func SkipIfShort(t *testing.T) {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
}

// RequireDatabase combines SkipIfShort and GetTestConnectionString for convenience.
// Returns the test connection string if available, otherwise skips the test.
func RequireDatabase(t *testing.T) string {
	t.Helper()

	SkipIfShort(t)
	return GetTestConnectionString(t)
}

// ConnectionConfig converts the test connection string into the
// configuration shape consumed by the sync job.
func ConnectionConfig(t *testing.T, connString string) countrysync.ConnectionConfig {
	t.Helper()

	parsed, err := pgxpool.ParseConfig(connString)
	if err != nil {
		t.Fatalf("Failed to parse test connection string: %v", err)
	}

	cc := parsed.ConnConfig
	sslMode := "prefer"
	if cc.TLSConfig == nil {
		sslMode = "disable"
	}

	return countrysync.ConnectionConfig{
		Host:     cc.Host,
		Port:     int(cc.Port),
		Database: cc.Database,
		Username: cc.User,
		Password: cc.Password,
		SSLMode:  sslMode,
	}
}

// GetTestPool opens a pool on connString. The pool is closed when the
// test completes.
func GetTestPool(t *testing.T, connString string) *pgxpool.Pool {
	t.Helper()

	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		t.Fatalf("Failed to create connection pool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

// DropCountryTable removes the country table so each test starts from a
// missing table. It is also registered as a cleanup.
func DropCountryTable(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	drop := func() error {
		_, err := pool.Exec(context.Background(), fmt.Sprintf("DROP TABLE IF EXISTS %s", countrysync.TableName))
		return err
	}
	if err := drop(); err != nil {
		t.Fatalf("Failed to drop %s: %v", countrysync.TableName, err)
	}
	t.Cleanup(func() {
		if err := drop(); err != nil {
			t.Logf("Warning: Failed to drop %s: %v", countrysync.TableName, err)
		}
	})
}

// CountRows returns the number of rows in the country table.
func CountRows(t *testing.T, pool *pgxpool.Pool) int {
	t.Helper()

	var n int
	err := pool.QueryRow(context.Background(), fmt.Sprintf("SELECT count(*) FROM %s", countrysync.TableName)).Scan(&n)
	if err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	return n
}
