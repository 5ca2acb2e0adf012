package localdb

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ralt/pacquery/internal/models"
	"github.com/ralt/pacquery/internal/utils"
)

// Problem describes one mismatch between a manifest record and the
// file on disk
type Problem struct {
	Path   string
	Detail string
}

// CheckFiles compares an entry's manifest records against the
// filesystem under root ("/" on a live system). Regular files are
// checked for size and, when the manifest records them, md5/sha256
// digests; directories and symlinks only for presence and kind.
func CheckFiles(entry *models.Entry, root string) ([]Problem, error) {
	var problems []Problem

	for i := range entry.Files {
		rec := &entry.Files[i]
		target := filepath.Join(root, rec.Path)

		info, err := os.Lstat(target)
		if err != nil {
			problems = append(problems, Problem{rec.Path, "missing"})
			continue
		}

		switch rec.Type {
		case models.FileTypeDirectory:
			if !info.IsDir() {
				problems = append(problems, Problem{rec.Path, "expected a directory"})
			}
		case models.FileTypeSymlink:
			if info.Mode()&os.ModeSymlink == 0 {
				problems = append(problems, Problem{rec.Path, "expected a symbolic link"})
			}
		case models.FileTypeFile:
			if !info.Mode().IsRegular() {
				problems = append(problems, Problem{rec.Path, "expected a regular file"})
				continue
			}
			if uint64(info.Size()) != rec.Size {
				problems = append(problems, Problem{
					rec.Path,
					fmt.Sprintf("size mismatch: manifest says %d, found %d", rec.Size, info.Size()),
				})
				continue
			}
			if rec.MD5 == "" && rec.SHA256 == "" {
				continue
			}
			digests, err := utils.FileDigests(target)
			if err != nil {
				return nil, &models.StoreError{
					Type:    models.ErrIO,
					Package: entry.Desc.Name,
					Err:     fmt.Errorf("failed to hash %s: %w", target, err),
				}
			}
			if rec.MD5 != "" && digests.MD5 != rec.MD5 {
				problems = append(problems, Problem{rec.Path, "md5 digest mismatch"})
			} else if rec.SHA256 != "" && digests.SHA256 != rec.SHA256 {
				problems = append(problems, Problem{rec.Path, "sha256 digest mismatch"})
			}
		}
	}

	return problems, nil
}
