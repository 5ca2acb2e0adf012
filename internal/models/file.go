package models

// FileType represents the type of a file owned by a package
type FileType int

const (
	FileTypeUnknown FileType = iota
	FileTypeFile
	FileTypeDirectory
	FileTypeSymlink
)

// String returns the string representation of FileType
func (ft FileType) String() string {
	switch ft {
	case FileTypeFile:
		return "file"
	case FileTypeDirectory:
		return "dir"
	case FileTypeSymlink:
		return "link"
	default:
		return "unknown"
	}
}

// FileRecord is one file owned by a package, decoded from its manifest.
// Path is always absolute. MD5 and SHA256 are hex digests, empty when
// the manifest carries none for this file. LinkTarget is set only for
// symbolic links.
type FileRecord struct {
	Path       string
	MD5        string
	SHA256     string
	Mode       uint32
	GID        uint32
	UID        uint32
	Time       uint64 // epoch seconds, truncated
	Size       uint64
	Type       FileType
	LinkTarget string
}
