package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdugdh24/heartmatch-backend/internal/usecase/auth"
	"github.com/google/uuid"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("LOG_LEVEL", "error")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "none.env")))
	err := cmd.Execute()
	return out.String(), err
}

func TestTokenCommand(t *testing.T) {
	id := uuid.New()
	out, err := runCLI(t, "token", id.String())
	if err != nil {
		t.Fatalf("token: %v\n%s", err, out)
	}

	tokens := auth.NewTokenService(testSecret, "authenticated", time.Hour)
	got, err := tokens.Verify(strings.TrimSpace(out))
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if got != id {
		t.Errorf("subject = %s, want %s", got, id)
	}
}

func TestTokenCommand_InvalidUser(t *testing.T) {
	if _, err := runCLI(t, "token", "bob"); err == nil {
		t.Fatal("expected error for non-uuid user")
	}
}

func TestSeedCommand_Memory(t *testing.T) {
	out, err := runCLI(t, "seed", "--rand-seed", "3")
	if err != nil {
		t.Fatalf("seed: %v\n%s", err, out)
	}
	if n := strings.Count(strings.TrimSpace(out), "\n") + 1; n != 10 {
		t.Errorf("expected 10 seeded profiles, got %d:\n%s", n, out)
	}
}

func TestMigrateCommand_Validation(t *testing.T) {
	if _, err := runCLI(t, "migrate", "sideways"); err == nil {
		t.Fatal("expected error for unknown direction")
	}
	if _, err := runCLI(t, "migrate", "up"); err == nil {
		t.Fatal("expected error when store driver is memory")
	}
}
