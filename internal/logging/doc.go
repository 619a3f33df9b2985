// Package logging provides concrete implementations of the countrysync.Logger interface.
//
// Available implementations:
//   - ConsoleLogger: Writes formatted diagnostics to stderr (or any io.Writer)
//   - NullLogger: Discards all messages (useful for testing)
//
// Stdout is reserved for the verification report, so loggers never write there.
// All logger implementations are safe for concurrent use by multiple goroutines.
package logging
