package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileDigests(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data")
	if err := os.WriteFile(path, []byte("abc"), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	digests, err := FileDigests(path)
	if err != nil {
		t.Fatalf("FileDigests failed: %v", err)
	}
	if digests.MD5 != "900150983cd24fb0d6963f7d28e17f72" {
		t.Errorf("MD5 = %s", digests.MD5)
	}
	if digests.SHA256 != "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad" {
		t.Errorf("SHA256 = %s", digests.SHA256)
	}
	if digests.Size != 3 {
		t.Errorf("Size = %d, want 3", digests.Size)
	}
}

func TestFileDigestsMissingFile(t *testing.T) {
	if _, err := FileDigests(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}
