package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/vvka-141/countrysync/internal/cli"
	"github.com/vvka-141/countrysync/internal/logging"
	"github.com/vvka-141/countrysync/pkg/countrysync"
)

func main() {
	// Recover from panics to ensure graceful exits with stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(countrysync.ExitPanic)
		}
	}()

	if os.Getenv("COUNTRYSYNC_TEST_PANIC") == "1" {
		panic("intentional test panic")
	}

	if err := cli.Execute(); err != nil {
		logger := logging.NewConsoleLogger(false)
		if stage := countrysync.StageOf(err); stage != "" {
			logger.Error("%s failed: %v", stage, err)
		} else {
			logger.Error("%v", err)
		}
		os.Exit(countrysync.ExitCodeForError(err))
	}
}
