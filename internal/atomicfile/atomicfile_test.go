package atomicfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "record.md")
	if err := WriteFile(path, []byte("one"), 0); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := WriteFile(path, []byte("two"), 0); err != nil {
		t.Fatalf("second write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "two" {
		t.Errorf("content = %q, want %q", data, "two")
	}
}

func TestWriteNew(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nb.ipynb")

	if err := WriteNew(path, []byte("first"), 0o644); err != nil {
		t.Fatalf("WriteNew: %v", err)
	}
	if err := WriteNew(path, []byte("second"), 0o644); !errors.Is(err, ErrExists) {
		t.Errorf("second WriteNew error = %v, want ErrExists", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "first" {
		t.Errorf("content = %q, want %q", data, "first")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("dir has %d entries, want 1 (temporary files left behind)", len(entries))
	}
}

func TestWriteNewMissingDir(t *testing.T) {
	if err := WriteNew(filepath.Join(t.TempDir(), "missing", "nb.ipynb"), []byte("x"), 0); err == nil {
		t.Error("expected error for missing parent directory")
	}
}
