package bplog

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootHelp(t *testing.T) {
	out, err := execute(t, "--help")
	if err != nil {
		t.Fatalf("execute root help: %v", err)
	}
	if !strings.Contains(out, "blood-pressure") {
		t.Fatalf("expected help output, got %q", out)
	}
}

func TestInitCommandIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bplog.db")
	var first string
	for i := 0; i < 2; i++ {
		out, err := execute(t, "--db", path, "init")
		if err != nil {
			t.Fatalf("init run %d failed: %v", i+1, err)
		}
		if i == 0 {
			if !strings.Contains(out, "Created profile user") {
				t.Fatalf("expected profile user creation, got %q", out)
			}
			first = out[strings.Index(out, "Created profile user ")+len("Created profile user "):]
			continue
		}
		if !strings.Contains(out, "Profile user "+strings.TrimSpace(first)) {
			t.Fatalf("expected same profile user on rerun, got %q", out)
		}
	}
}

func TestStatusCommand(t *testing.T) {
	out, err := execute(t, "status", "135", "95")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if strings.TrimSpace(out) != "135/95: High" {
		t.Fatalf("unexpected status output %q", out)
	}
	if _, err := execute(t, "status", "abc", "80"); err == nil {
		t.Fatalf("expected invalid systolic to fail")
	}
}
