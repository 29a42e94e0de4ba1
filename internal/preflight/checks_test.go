package preflight

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckDirectoryAccessPasses(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("Output directory", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got %#v", result)
	}
}

func TestCheckDirectoryAccessMissing(t *testing.T) {
	result := CheckDirectoryAccess("Output directory", filepath.Join(t.TempDir(), "missing"))
	if result.Passed {
		t.Fatalf("expected failure for missing dir, got %#v", result)
	}
}

func TestCheckDirectoryAccessFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	result := CheckDirectoryAccess("Output directory", path)
	if result.Passed {
		t.Fatalf("expected failure for plain file, got %#v", result)
	}
}

func TestCheckDirectoryAccessReadOnly(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root bypasses permission checks")
	}
	dir := filepath.Join(t.TempDir(), "ro")
	if err := os.Mkdir(dir, 0o555); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	result := CheckDirectoryAccess("Output directory", dir)
	if result.Passed {
		t.Fatalf("expected failure for read-only dir, got %#v", result)
	}
}
