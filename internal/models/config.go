package models

// Config contains the runtime configuration, bound from command-line
// flags. DBPath points at the pacman database directory; the local
// store lives in its "local" subdirectory. Root is the filesystem
// prefix used when checking owned files on disk.
type Config struct {
	DBPath string
	Root   string

	// Operation modes, mutually exclusive
	Database bool
	Files    bool
	Query    bool
	Remove   bool
	Sync     bool
	Deptest  bool
	Upgrade  bool

	// Query options
	Owns   string
	Search string
	Quiet  bool
	List   bool
	Check  bool
}
