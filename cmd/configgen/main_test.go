package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danmuck/ohostools/internal/exitcode"
)

func execute(args ...string) (string, int) {
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), exitcode.For(err)
}

func TestConfiggenWritesAndValidates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ohos-build.toml")

	out, code := execute("--output", path)
	if code != exitcode.Success {
		t.Fatalf("write: exit %d", code)
	}
	if !strings.Contains(out, path) {
		t.Fatalf("unexpected output: %q", out)
	}

	out, code = execute("--validate", "--input", path)
	if code != exitcode.Success || !strings.Contains(out, "Validated") {
		t.Fatalf("validate: exit %d out=%q", code, out)
	}
}

func TestConfiggenRefusesOverwriteWithoutForce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ohos-build.toml")
	if err := os.WriteFile(path, []byte("# mine\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, code := execute("--output", path); code != exitcode.Failure {
		t.Fatalf("expected failure, got %d", code)
	}
	if _, code := execute("--output", path, "--force", "--kind", "har"); code != exitcode.Success {
		t.Fatalf("forced write: exit %d", code)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasPrefix(string(data), "[har]") {
		t.Fatalf("unexpected template: %q", data)
	}
}

func TestConfiggenValidateRejectsBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ohos-build.toml")
	if err := os.WriteFile(path, []byte("[har]\nartifact = \"../x.har\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, code := execute("--validate", "--input", path); code != exitcode.Usage {
		t.Fatalf("expected usage exit code, got %d", code)
	}
}

func TestConfiggenUnknownKind(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ohos-build.toml")
	if _, code := execute("--output", path, "--kind", "mirage"); code != exitcode.Usage {
		t.Fatalf("expected usage exit code, got %d", code)
	}
}
