package models

// Entry is one installed package: its descriptor record plus the
// ordered sequence of files it owns. An Entry is built atomically from
// one store directory and is never mutated afterwards.
type Entry struct {
	Desc  PackageRecord
	Files []FileRecord
}

// Owns reports whether the package owns the file at path. The match is
// exact; no prefix or pattern matching is performed.
func (e *Entry) Owns(path string) bool {
	for i := range e.Files {
		if e.Files[i].Path == path {
			return true
		}
	}
	return false
}
