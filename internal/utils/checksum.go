package utils

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
)

// Digests contains the two content digests the local store records
// for a file, plus its size
type Digests struct {
	MD5    string
	SHA256 string
	Size   int64
}

// FileDigests computes both digests for a file in a single pass
func FileDigests(path string) (*Digests, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	md5Hash := md5.New()
	sha256Hash := sha256.New()

	// Stream the file through both hashes at once
	multiWriter := io.MultiWriter(md5Hash, sha256Hash)
	if _, err := io.Copy(multiWriter, f); err != nil {
		return nil, err
	}

	return &Digests{
		MD5:    hex.EncodeToString(md5Hash.Sum(nil)),
		SHA256: hex.EncodeToString(sha256Hash.Sum(nil)),
		Size:   info.Size(),
	}, nil
}
