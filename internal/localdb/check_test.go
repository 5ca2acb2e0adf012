package localdb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ralt/pacquery/internal/models"
)

// md5/sha256 of "abc"
const (
	abcMD5    = "900150983cd24fb0d6963f7d28e17f72"
	abcSHA256 = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
)

func testEntry(files ...models.FileRecord) *models.Entry {
	return &models.Entry{
		Desc:  models.PackageRecord{Name: "tool", Version: "1.0-1"},
		Files: files,
	}
}

func TestCheckFilesClean(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "usr/bin"), 0755); err != nil {
		t.Fatalf("Failed to create rootfs: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "usr/bin/tool"), []byte("abc"), 0755); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if err := os.Symlink("tool", filepath.Join(root, "usr/bin/tool-compat")); err != nil {
		t.Fatalf("Failed to create symlink: %v", err)
	}

	entry := testEntry(
		models.FileRecord{Path: "/usr/bin", Type: models.FileTypeDirectory},
		models.FileRecord{Path: "/usr/bin/tool", Type: models.FileTypeFile, Size: 3, MD5: abcMD5, SHA256: abcSHA256},
		models.FileRecord{Path: "/usr/bin/tool-compat", Type: models.FileTypeSymlink, LinkTarget: "tool"},
	)

	problems, err := CheckFiles(entry, root)
	if err != nil {
		t.Fatalf("CheckFiles failed: %v", err)
	}
	if len(problems) != 0 {
		t.Errorf("Expected a clean check, got %v", problems)
	}
}

func TestCheckFilesDetectsMismatches(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "usr/bin"), 0755); err != nil {
		t.Fatalf("Failed to create rootfs: %v", err)
	}
	// Same size as the manifest says, different content
	if err := os.WriteFile(filepath.Join(root, "usr/bin/tool"), []byte("abd"), 0755); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "usr/bin/short"), []byte("x"), 0755); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	entry := testEntry(
		models.FileRecord{Path: "/usr/bin/tool", Type: models.FileTypeFile, Size: 3, MD5: abcMD5},
		models.FileRecord{Path: "/usr/bin/short", Type: models.FileTypeFile, Size: 999},
		models.FileRecord{Path: "/usr/bin/gone", Type: models.FileTypeFile, Size: 1},
		models.FileRecord{Path: "/usr/bin/tool", Type: models.FileTypeDirectory},
	)

	problems, err := CheckFiles(entry, root)
	if err != nil {
		t.Fatalf("CheckFiles failed: %v", err)
	}
	if len(problems) != 4 {
		t.Fatalf("Expected 4 problems, got %v", problems)
	}
}
