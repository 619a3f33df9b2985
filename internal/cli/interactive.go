package cli

import (
	"os"

	"golang.org/x/term"
)

// NonInteractiveEnvVar disables the password prompt when set to "1".
const NonInteractiveEnvVar = "COUNTRYSYNC_NON_INTERACTIVE"

// canPrompt reports whether a human can answer a prompt on stdin.
//
// Returns false if:
//   - COUNTRYSYNC_NON_INTERACTIVE=1 is set
//   - CI is set (common CI/CD convention)
//   - stdin is not a terminal (cron, systemd, piped input)
func canPrompt() bool {
	if os.Getenv(NonInteractiveEnvVar) == "1" {
		return false
	}
	if os.Getenv("CI") != "" {
		return false
	}
	return term.IsTerminal(int(os.Stdin.Fd()))
}
