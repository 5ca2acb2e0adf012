package localdb

import (
	"fmt"
	"os"
	"strings"

	"github.com/ralt/pacquery/internal/models"
)

// ReadFilesList reads the optional plain-text files listing a store
// directory may carry next to its descriptor and manifest. The data is
// redundant with the manifest but works as a standalone input when
// only ownership, without attributes or hashes, is needed.
func ReadFilesList(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &models.StoreError{
			Type: models.ErrIO,
			Err:  fmt.Errorf("failed to read files list: %w", err),
		}
	}
	return ParseFilesList(data), nil
}

// ParseFilesList discards the header line and roots every remaining
// line at "/"
func ParseFilesList(data []byte) []string {
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	var paths []string
	for i, line := range lines {
		if i == 0 {
			continue
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		paths = append(paths, "/"+strings.TrimPrefix(line, "/"))
	}
	return paths
}
