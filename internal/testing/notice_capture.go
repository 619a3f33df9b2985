package testing

import (
	"sync"

	"github.com/jackc/pgx/v5/pgconn"
)

// NoticeCapture collects PostgreSQL NOTICE messages.
// Thread-safe for concurrent use.
type NoticeCapture struct {
	raw []string
	mu  sync.Mutex
}

// NewNoticeCapture creates a new NoticeCapture instance.
func NewNoticeCapture() *NoticeCapture {
	return &NoticeCapture{raw: make([]string, 0)}
}

// Handler returns a function suitable for pgx's OnNotice callback.
func (nc *NoticeCapture) Handler() func(*pgconn.PgConn, *pgconn.Notice) {
	return func(_ *pgconn.PgConn, n *pgconn.Notice) {
		if n == nil {
			return
		}

		nc.mu.Lock()
		defer nc.mu.Unlock()

		nc.raw = append(nc.raw, n.Message)
	}
}

// RawNotices returns all raw NOTICE messages received.
func (nc *NoticeCapture) RawNotices() []string {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	result := make([]string, len(nc.raw))
	copy(result, nc.raw)
	return result
}

// Reset clears all captured notices.
func (nc *NoticeCapture) Reset() {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	nc.raw = make([]string, 0)
}
