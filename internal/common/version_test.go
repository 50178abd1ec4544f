package common

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func resetVersion(t *testing.T) {
	t.Helper()
	v, b, c := Version, Build, GitCommit
	t.Cleanup(func() {
		Version, Build, GitCommit = v, b, c
	})
	Version, Build, GitCommit = "dev", "unknown", "unknown"
}

func TestLoadVersionFile_FillsDefaults(t *testing.T) {
	resetVersion(t)

	path := filepath.Join(t.TempDir(), ".version")
	content := "# build info\nversion: 1.2.3\nbuild: 2026-10-17T10:00:00Z\ncommit: abc1234\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	loadVersionFile(path)

	if Version != "1.2.3" {
		t.Errorf("expected version 1.2.3, got %s", Version)
	}
	if Build != "2026-10-17T10:00:00Z" {
		t.Errorf("expected build timestamp, got %s", Build)
	}
	if GitCommit != "abc1234" {
		t.Errorf("expected commit abc1234, got %s", GitCommit)
	}
}

func TestLoadVersionFile_LdflagsWin(t *testing.T) {
	resetVersion(t)
	Version = "9.9.9"

	path := filepath.Join(t.TempDir(), ".version")
	if err := os.WriteFile(path, []byte("version: 1.0.0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	loadVersionFile(path)

	if Version != "9.9.9" {
		t.Errorf("ldflags version should not be overridden, got %s", Version)
	}
}

func TestLoadVersionFile_MissingFile(t *testing.T) {
	resetVersion(t)
	loadVersionFile(filepath.Join(t.TempDir(), "missing"))

	if Version != "dev" {
		t.Errorf("expected dev, got %s", Version)
	}
}

func TestGetFullVersion(t *testing.T) {
	resetVersion(t)
	Version, Build, GitCommit = "1.0.0", "today", "deadbee"

	full := GetFullVersion()
	for _, want := range []string{"1.0.0", "today", "deadbee"} {
		if !strings.Contains(full, want) {
			t.Errorf("expected %q in %q", want, full)
		}
	}
}
