package localdb

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ralt/pacquery/internal/models"
	"github.com/ulikunitz/xz"
)

// Magic bytes for compression detection
var (
	gzipMagic = []byte{0x1F, 0x8B}
	zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}
	xzMagic   = []byte{0xFD, 0x37, 0x7A, 0x58, 0x5A, 0x00}
)

// ReadMtreeFile reads and parses one compressed manifest file
func ReadMtreeFile(path string) ([]models.FileRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &models.StoreError{
			Type: models.ErrIO,
			Err:  fmt.Errorf("failed to read manifest: %w", err),
		}
	}
	return ParseMtree(data)
}

// ParseMtree decompresses a manifest stream and decodes it into file
// records, in manifest line order.
func ParseMtree(data []byte) ([]models.FileRecord, error) {
	text, err := decompress(data)
	if err != nil {
		return nil, &models.StoreError{
			Type: models.ErrIO,
			Err:  fmt.Errorf("failed to decompress manifest: %w", err),
		}
	}
	return parseMtreeText(string(text))
}

// decompress inflates the whole stream, detecting the compression
// format from its magic bytes
func decompress(data []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(data, gzipMagic):
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return io.ReadAll(r)
	case bytes.HasPrefix(data, zstdMagic):
		r, err := zstd.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return io.ReadAll(r)
	case bytes.HasPrefix(data, xzMagic):
		r, err := xz.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return io.ReadAll(r)
	default:
		return nil, fmt.Errorf("unrecognized compression format")
	}
}

// parseMtreeText decodes one record per line. mode, gid, uid and size
// carry forward from the previous line unless the line overrides them;
// everything else resets at the start of every line.
func parseMtreeText(text string) ([]models.FileRecord, error) {
	var records []models.FileRecord

	var mode, gid, uid uint32
	var size uint64

	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)

		var path, md5sum, sha256sum, linkTarget string
		var mtime uint64
		ftype := models.FileTypeUnknown

		for _, token := range strings.Split(line, " ") {
			token = strings.TrimSpace(token)
			if token == "" {
				continue
			}

			if !strings.Contains(token, "=") {
				// Structural directives carry no record of their own
				if strings.HasPrefix(token, "/set") || token == "#mtree" {
					continue
				}
				// The path token, normalized to an absolute path
				path = strings.TrimPrefix(token, ".")
				continue
			}

			key, value, _ := strings.Cut(token, "=")
			key = strings.TrimSpace(key)
			value = strings.TrimSpace(value)

			switch {
			case key == "mode":
				n, err := strconv.ParseUint(value, 10, 32)
				if err != nil {
					return nil, mtreeError(fmt.Errorf("invalid mode %q: %w", value, err))
				}
				mode = uint32(n)
			case key == "gid":
				n, err := strconv.ParseUint(value, 10, 32)
				if err != nil {
					return nil, mtreeError(fmt.Errorf("invalid gid %q: %w", value, err))
				}
				gid = uint32(n)
			case key == "uid":
				n, err := strconv.ParseUint(value, 10, 32)
				if err != nil {
					return nil, mtreeError(fmt.Errorf("invalid uid %q: %w", value, err))
				}
				uid = uint32(n)
			case key == "size":
				n, err := strconv.ParseUint(value, 10, 64)
				if err != nil {
					return nil, mtreeError(fmt.Errorf("invalid size %q: %w", value, err))
				}
				size = n
			case key == "time":
				f, err := strconv.ParseFloat(value, 64)
				if err != nil {
					return nil, mtreeError(fmt.Errorf("invalid time %q: %w", value, err))
				}
				mtime = uint64(f)
			case key == "type":
				switch value {
				case "file":
					ftype = models.FileTypeFile
				case "dir":
					ftype = models.FileTypeDirectory
				case "link":
					ftype = models.FileTypeSymlink
				default:
					return nil, mtreeError(fmt.Errorf("unknown file type %q in line %q", value, line))
				}
			case key == "link":
				linkTarget = value
			case strings.HasSuffix(key, "digest"):
				switch strings.TrimSuffix(key, "digest") {
				case "md5":
					md5sum = value
				case "sha256":
					sha256sum = value
				default:
					return nil, mtreeError(fmt.Errorf("unknown hash type %q", key))
				}
			default:
				return nil, mtreeError(fmt.Errorf("unknown manifest key %q", key))
			}
		}

		// Directive-only lines yield no record
		if path == "" {
			continue
		}

		records = append(records, models.FileRecord{
			Path:       path,
			MD5:        md5sum,
			SHA256:     sha256sum,
			Mode:       mode,
			GID:        gid,
			UID:        uid,
			Time:       mtime,
			Size:       size,
			Type:       ftype,
			LinkTarget: linkTarget,
		})
	}

	return records, nil
}

func mtreeError(err error) error {
	return &models.StoreError{Type: models.ErrManifestFormat, Err: err}
}
