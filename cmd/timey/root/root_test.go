package root

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "timey.yaml")
	body := "user_id: kid\n" +
		"store:\n  driver: sqlite\n  sqlite_path: " + filepath.Join(dir, "timey.db") + "\n" +
		"chores:\n  - id: 1\n    text: Dishes\n  - id: 2\n    text: Trash\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDoneThenToday(t *testing.T) {
	cfg := writeTestConfig(t)

	out, err := runCLI(t, "--config", cfg, "done", "1")
	if err != nil {
		t.Fatalf("done: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Dishes") || !strings.Contains(out, "+10") {
		t.Fatalf("done output=%q", out)
	}

	out, err = runCLI(t, "--config", cfg, "today")
	if err != nil {
		t.Fatalf("today: %v", err)
	}
	if !strings.Contains(out, "Trash") || !strings.Contains(out, "1/2") {
		t.Fatalf("today output=%q", out)
	}

	out, err = runCLI(t, "--config", cfg, "stats")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if !strings.Contains(out, "total 10") {
		t.Fatalf("stats output=%q", out)
	}
}

func TestDoneRejectsBadID(t *testing.T) {
	cfg := writeTestConfig(t)
	if _, err := runCLI(t, "--config", cfg, "done", "abc"); err == nil {
		t.Fatalf("expected error for non-numeric id")
	}
	if _, err := runCLI(t, "--config", cfg, "done", "99"); err == nil {
		t.Fatalf("expected error for unknown chore")
	}
}

func TestRewardWithoutTokens(t *testing.T) {
	cfg := writeTestConfig(t)
	if _, err := runCLI(t, "--config", cfg, "reward", "extend"); err == nil {
		t.Fatalf("expected error without tokens")
	}
	if _, err := runCLI(t, "--config", cfg, "reward", "grant", "1"); err != nil {
		t.Fatalf("grant: %v", err)
	}
	out, err := runCLI(t, "--config", cfg, "reward", "extend")
	if err != nil {
		t.Fatalf("reward: %v", err)
	}
	if !strings.Contains(out, "EXTEND_PLAY_TIME") || !strings.Contains(out, "1:15") {
		t.Fatalf("reward output=%q", out)
	}
}

func TestRewardRejectsNonFiniteMinutes(t *testing.T) {
	cfg := writeTestConfig(t)
	if _, err := runCLI(t, "--config", cfg, "reward", "grant", "1"); err != nil {
		t.Fatalf("grant: %v", err)
	}
	for _, v := range []string{"NaN", "Inf", "-5"} {
		if _, err := runCLI(t, "--config", cfg, "reward", "extend", "--", v); err == nil {
			t.Fatalf("reward extend %s: expected error", v)
		}
	}
	if _, err := runCLI(t, "--config", cfg, "reward", "extend", "10"); err != nil {
		t.Fatalf("token should still be available: %v", err)
	}
}

func TestPlayStartStop(t *testing.T) {
	cfg := writeTestConfig(t)
	if _, err := runCLI(t, "--config", cfg, "play", "start"); err != nil {
		t.Fatalf("play start: %v", err)
	}
	if _, err := runCLI(t, "--config", cfg, "play", "start"); err == nil {
		t.Fatalf("second start should be refused")
	}
	if _, err := runCLI(t, "--config", cfg, "play", "stop"); err != nil {
		t.Fatalf("play stop: %v", err)
	}
}

func TestUserFlagSeparatesProfiles(t *testing.T) {
	cfg := writeTestConfig(t)
	if _, err := runCLI(t, "--config", cfg, "--user", "ada", "done", "1"); err != nil {
		t.Fatalf("done: %v", err)
	}
	out, err := runCLI(t, "--config", cfg, "--user", "zoe", "stats")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if !strings.Contains(out, "total 0") {
		t.Fatalf("zoe should have no XP: %q", out)
	}
}
