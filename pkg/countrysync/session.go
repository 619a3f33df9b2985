package countrysync

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// rollbackTimeout bounds the rollback issued by Close; the run context may
// already be cancelled when Close is reached.
const rollbackTimeout = 5 * time.Second

// Session owns every storage handle of one sync run: the pool, the acquired
// connection and the open transaction.
//
// Thread-Safety: NOT safe for concurrent use.
//
// Lifecycle:
//  1. Created by SyncService after connecting and beginning the transaction
//  2. Tx() is used by the schema, upsert and report steps
//  3. Commit() finalizes the unit of work
//  4. Close() releases everything (idempotent), rolling back if Commit was
//     never reached
//
// Example usage:
//
//	session := countrysync.NewSession(pool, conn, tx)
//	defer session.Close()
//	// use session.Tx()
//	return session.Commit(ctx)
type Session struct {
	pool *pgxpool.Pool
	conn *pgxpool.Conn
	tx   pgx.Tx
}

// NewSession creates a new Session instance.
//
// Panics if pool, conn or tx is nil (programmer error).
func NewSession(pool *pgxpool.Pool, conn *pgxpool.Conn, tx pgx.Tx) *Session {
	if pool == nil {
		panic("pool cannot be nil")
	}
	if conn == nil {
		panic("conn cannot be nil")
	}
	if tx == nil {
		panic("tx cannot be nil")
	}

	return &Session{pool: pool, conn: conn, tx: tx}
}

// Tx returns the open transaction. Valid until Commit or Close.
func (s *Session) Tx() pgx.Tx {
	return s.tx
}

// Commit commits the transaction. After a successful commit Close no longer
// rolls back.
func (s *Session) Commit(ctx context.Context) error {
	if s.tx == nil {
		return errors.New("session has no open transaction")
	}
	if err := s.tx.Commit(ctx); err != nil {
		return err
	}
	s.tx = nil
	return nil
}

// Close releases all resources associated with the session.
// This method is idempotent and safe to call multiple times.
//
// Resource cleanup order:
//  1. Roll back the transaction if it is still open
//  2. Release the acquired connection back to the pool
//  3. Close the connection pool
func (s *Session) Close() error {
	var rollbackErr error
	if s.tx != nil {
		ctx, cancel := context.WithTimeout(context.Background(), rollbackTimeout)
		rollbackErr = s.tx.Rollback(ctx)
		cancel()
		s.tx = nil
		if errors.Is(rollbackErr, pgx.ErrTxClosed) {
			rollbackErr = nil
		}
	}

	if s.conn != nil {
		s.conn.Release()
		s.conn = nil
	}

	if s.pool != nil {
		s.pool.Close()
		s.pool = nil
	}

	return rollbackErr
}
