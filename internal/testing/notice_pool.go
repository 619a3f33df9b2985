package testing

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolWithNoticeCapture wraps a pgxpool.Pool with notice capture support.
type PoolWithNoticeCapture struct {
	*pgxpool.Pool
	Capture *NoticeCapture
}

// GetTestPoolWithNoticeCapture creates a connection pool with notice capture enabled.
// The pool is automatically closed when the test completes.
func GetTestPoolWithNoticeCapture(t *testing.T, connString string) *PoolWithNoticeCapture {
	t.Helper()

	capture := NewNoticeCapture()

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		t.Fatalf("Failed to parse pool config: %v", err)
	}
	poolConfig.ConnConfig.OnNotice = capture.Handler()

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		t.Fatalf("Failed to create connection pool: %v", err)
	}
	t.Cleanup(pool.Close)

	return &PoolWithNoticeCapture{
		Pool:    pool,
		Capture: capture,
	}
}
