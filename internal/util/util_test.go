package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureDir(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")

	if DirExists(nested) {
		t.Fatalf("%s should not exist yet", nested)
	}
	if err := EnsureDir(nested); err != nil {
		t.Fatalf("EnsureDir failed: %v", err)
	}
	if !DirExists(nested) {
		t.Errorf("%s was not created", nested)
	}
	if err := EnsureDir(nested); err != nil {
		t.Errorf("EnsureDir on an existing dir failed: %v", err)
	}

	file := filepath.Join(root, "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := EnsureDir(file); err == nil {
		t.Error("expected an error for a regular file")
	}
}
