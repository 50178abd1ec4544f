package capture

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileAtomic_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.png")

	if err := writeFileAtomic(path, pngBytes, 0644); err != nil {
		t.Fatalf("writeFileAtomic failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0644 {
		t.Errorf("expected mode 0644, got %v", info.Mode().Perm())
	}
	if info.Size() != int64(len(pngBytes)) {
		t.Errorf("expected %d bytes, got %d", len(pngBytes), info.Size())
	}
}

func TestWriteFileAtomic_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.png")
	if err := os.WriteFile(path, []byte("old content that is longer"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := writeFileAtomic(path, []byte("new"), 0644); err != nil {
		t.Fatalf("writeFileAtomic failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "new" {
		t.Errorf("expected new content, got %q", data)
	}
}

func TestWriteFileAtomic_NoTempLeftOnFailure(t *testing.T) {
	dir := t.TempDir()
	// Renaming onto an existing directory fails after the temp file is written.
	target := filepath.Join(dir, "shot.png")
	if err := os.Mkdir(target, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(target, "keep"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := writeFileAtomic(target, pngBytes, 0644); err == nil {
		t.Fatal("expected rename onto non-empty directory to fail")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("expected only the original directory, got %v", names)
	}
}

func TestWriteFileAtomic_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "shot.png")

	if err := writeFileAtomic(path, pngBytes, 0644); err == nil {
		t.Error("expected error for missing directory")
	}
}
