package tests

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func buildBplogBinary(t *testing.T) string {
	t.Helper()
	repoRoot, err := filepath.Abs("..")
	if err != nil {
		t.Fatalf("resolve repo root: %v", err)
	}
	binPath := filepath.Join(t.TempDir(), "bplog")
	cmd := exec.Command("go", "build", "-o", binPath, ".")
	cmd.Dir = repoRoot
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("build bplog binary: %v\n%s", err, string(out))
	}
	return binPath
}

func runBplog(t *testing.T, binPath, dbPath string, args ...string) (string, string, int) {
	t.Helper()
	allArgs := append([]string{"--db", dbPath}, args...)
	cmd := exec.Command(binPath, allArgs...)
	cmd.Env = cleanEnv()
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err == nil {
		return stdout.String(), stderr.String(), 0
	}
	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		t.Fatalf("run bplog command: %v", err)
	}
	return stdout.String(), stderr.String(), exitErr.ExitCode()
}

// cleanEnv drops BPLOG_* so a developer's settings do not leak into tests.
func cleanEnv() []string {
	out := make([]string, 0)
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, "BPLOG_") {
			continue
		}
		out = append(out, kv)
	}
	return out
}

func initDB(t *testing.T, binPath, dbPath string) {
	t.Helper()
	_, stderr, exit := runBplog(t, binPath, dbPath, "init")
	if exit != 0 {
		t.Fatalf("init db failed: exit=%d stderr=%s", exit, stderr)
	}
}

func TestCLIRejectsInvertedPressure(t *testing.T) {
	binPath := buildBplogBinary(t)
	dbPath := filepath.Join(t.TempDir(), "bplog.db")
	initDB(t, binPath, dbPath)

	_, stderr, exit := runBplog(t, binPath, dbPath,
		"reading", "add",
		"--systolic", "80",
		"--diastolic", "90",
		"--pulse", "70",
	)
	if exit == 0 {
		t.Fatalf("expected non-zero exit for systolic <= diastolic")
	}
	if !strings.Contains(stderr, "systolic must be greater than diastolic") {
		t.Fatalf("unexpected stderr: %s", stderr)
	}
}

func TestCLIRequiresPulse(t *testing.T) {
	binPath := buildBplogBinary(t)
	dbPath := filepath.Join(t.TempDir(), "bplog.db")
	initDB(t, binPath, dbPath)

	_, stderr, exit := runBplog(t, binPath, dbPath, "reading", "add", "--systolic", "120", "--diastolic", "80")
	if exit == 0 {
		t.Fatalf("expected missing --pulse to fail")
	}
	if !strings.Contains(stderr, "pulse") {
		t.Fatalf("unexpected stderr: %s", stderr)
	}
}

func TestCLINeedsUserBeforeInit(t *testing.T) {
	binPath := buildBplogBinary(t)
	dbPath := filepath.Join(t.TempDir(), "bplog.db")

	_, stderr, exit := runBplog(t, binPath, dbPath, "reading", "list")
	if exit == 0 {
		t.Fatalf("expected reading list without a user to fail")
	}
	if !strings.Contains(stderr, "bplog init") {
		t.Fatalf("unexpected stderr: %s", stderr)
	}

	_, stderr, exit = runBplog(t, binPath, dbPath, "--user", "alice", "reading", "list")
	if exit != 0 {
		t.Fatalf("expected explicit --user to work: exit=%d stderr=%s", exit, stderr)
	}
}

func TestCLINoneBackendRefusesWritesButServesEmptyStats(t *testing.T) {
	binPath := buildBplogBinary(t)
	dbPath := filepath.Join(t.TempDir(), "bplog.db")
	initDB(t, binPath, dbPath)

	_, stderr, exit := runBplog(t, binPath, dbPath, "--store", "none",
		"reading", "add", "--systolic", "120", "--diastolic", "80", "--pulse", "70",
	)
	if exit == 0 {
		t.Fatalf("expected none backend to refuse writes")
	}
	if !strings.Contains(stderr, "unavailable") {
		t.Fatalf("unexpected stderr: %s", stderr)
	}

	stdout, stderr, exit := runBplog(t, binPath, dbPath, "--store", "none", "stats", "--json")
	if exit != 0 {
		t.Fatalf("stats on none backend failed: exit=%d stderr=%s", exit, stderr)
	}
	if !strings.Contains(stdout, `"count": 0`) || !strings.Contains(stdout, `"trend": []`) {
		t.Fatalf("expected empty stats json, got:\n%s", stdout)
	}
}

func TestCLIRejectsUnknownBackend(t *testing.T) {
	binPath := buildBplogBinary(t)
	dbPath := filepath.Join(t.TempDir(), "bplog.db")
	initDB(t, binPath, dbPath)

	_, stderr, exit := runBplog(t, binPath, dbPath, "--store", "postgres", "reading", "list")
	if exit == 0 {
		t.Fatalf("expected unknown backend to fail")
	}
	if !strings.Contains(stderr, "invalid store backend") {
		t.Fatalf("unexpected stderr: %s", stderr)
	}
}

func TestCLIStatusCommand(t *testing.T) {
	binPath := buildBplogBinary(t)
	dbPath := filepath.Join(t.TempDir(), "bplog.db")

	stdout, stderr, exit := runBplog(t, binPath, dbPath, "status", "119", "80")
	if exit != 0 {
		t.Fatalf("status failed: exit=%d stderr=%s", exit, stderr)
	}
	if strings.TrimSpace(stdout) != "119/80: High" {
		t.Fatalf("unexpected status output %q", stdout)
	}
}
