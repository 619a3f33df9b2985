package cli

import "testing"

func TestCanPrompt_NonInteractiveEnv(t *testing.T) {
	t.Setenv(NonInteractiveEnvVar, "1")
	t.Setenv("CI", "")

	if canPrompt() {
		t.Error("canPrompt() = true with COUNTRYSYNC_NON_INTERACTIVE=1, want false")
	}
}

func TestCanPrompt_CI(t *testing.T) {
	t.Setenv(NonInteractiveEnvVar, "")
	t.Setenv("CI", "true")

	if canPrompt() {
		t.Error("canPrompt() = true with CI set, want false")
	}
}

func TestCanPrompt_NoTerminal(t *testing.T) {
	// In test context, stdin is not a terminal
	t.Setenv(NonInteractiveEnvVar, "")
	t.Setenv("CI", "")

	if canPrompt() {
		t.Error("canPrompt() = true in test environment, want false")
	}
}

func TestPromptPassword_SkipsWithoutTerminal(t *testing.T) {
	t.Setenv(NonInteractiveEnvVar, "1")

	password, err := promptPassword("sync", "localhost")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if password != "" {
		t.Errorf("expected empty password, got %q", password)
	}
}
