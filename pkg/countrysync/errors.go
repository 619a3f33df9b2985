package countrysync

import (
	"errors"
	"strings"
)

// Sentinel errors, one per pipeline stage.
// Every failure returned by the sync job wraps exactly one of them, so callers
// can classify it with errors.Is().
//
// Example usage:
//
//	err := syncer.Run(ctx, config)
//	if errors.Is(err, countrysync.ErrRemoteFetch) {
//	    // the directory service was unreachable, nothing was written
//	}
var (
	// ErrConfigNotFound indicates the configuration file path does not resolve to a file.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrConfigMalformed indicates the configuration file could not be parsed
	// or lacks a required field.
	ErrConfigMalformed = errors.New("malformed configuration file")

	// ErrRemoteFetch indicates a transport, protocol or schema failure
	// while calling the country directory service.
	ErrRemoteFetch = errors.New("remote fetch failed")

	// ErrConnection indicates the database connection could not be established.
	ErrConnection = errors.New("database connection failed")

	// ErrCursor indicates a connection or transaction could not be opened
	// on an established pool.
	ErrCursor = errors.New("cursor creation failed")

	// ErrSchema indicates the destination table could not be ensured.
	ErrSchema = errors.New("schema creation failed")

	// ErrWrite indicates the upsert was rejected.
	ErrWrite = errors.New("write failed")

	// ErrRead indicates the verification query failed.
	ErrRead = errors.New("read failed")

	// ErrCommit indicates the transaction could not be committed.
	ErrCommit = errors.New("commit failed")
)

// stages maps each sentinel to the human-readable stage name used in diagnostics.
var stages = []struct {
	err  error
	name string
}{
	{ErrConfigNotFound, "configuration"},
	{ErrConfigMalformed, "configuration"},
	{ErrRemoteFetch, "remote fetch"},
	{ErrConnection, "database connection"},
	{ErrCursor, "cursor"},
	{ErrSchema, "schema"},
	{ErrWrite, "upsert"},
	{ErrRead, "verification query"},
	{ErrCommit, "commit"},
}

// StageOf returns the name of the pipeline stage that produced err,
// or an empty string if err does not wrap a known sentinel.
func StageOf(err error) string {
	if err == nil {
		return ""
	}
	for _, s := range stages {
		if errors.Is(err, s.err) {
			return s.name
		}
	}
	return ""
}

// usageErrorPatterns are the prefixes cobra and pflag use for argument errors.
var usageErrorPatterns = []string{
	"unknown flag",
	"unknown shorthand flag",
	"unknown command",
	"accepts ",
	"required flag",
	"invalid argument",
	"flag needs an argument",
	"bad flag syntax",
}

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, ExitUsageError (2) for CLI misuse
// and ExitFailure (1) for every pipeline failure.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if StageOf(err) != "" {
		return ExitFailure
	}

	errStr := err.Error()
	for _, pattern := range usageErrorPatterns {
		if strings.HasPrefix(errStr, pattern) {
			return ExitUsageError
		}
	}

	return ExitFailure
}
