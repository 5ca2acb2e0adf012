package models

// Arch is the target build classifier of a package.
type Arch int

const (
	ArchUnset Arch = iota
	ArchAny
	ArchX86_64
)

// String returns the string representation of Arch
func (a Arch) String() string {
	switch a {
	case ArchAny:
		return "any"
	case ArchX86_64:
		return "x86_64"
	default:
		return "unset"
	}
}

// Validation is how a package's authenticity is meant to be checked.
type Validation int

const (
	ValidationUnset Validation = iota
	ValidationNone
	ValidationPgp
)

// String returns the string representation of Validation
func (v Validation) String() string {
	switch v {
	case ValidationNone:
		return "none"
	case ValidationPgp:
		return "pgp"
	default:
		return "unset"
	}
}

// Packager identifies who built a package. Email is empty when no
// plausible address could be extracted from the descriptor value.
type Packager struct {
	Name  string
	Email string
}

// OptionalDependency is an optional dependency with an optional
// free-text reason for wanting it.
type OptionalDependency struct {
	Package string
	Reason  string
}

// PackageRecord is the metadata of one installed package, decoded from
// its descriptor file. Name and Version are always present; every
// other scalar is optional and every list defaults to empty.
type PackageRecord struct {
	Name        string
	Version     string
	Base        string
	Description string
	URL         string
	Arch        Arch
	BuildDate   *uint64 // epoch seconds
	InstallDate *uint64 // epoch seconds
	Packager    *Packager
	Size        *uint64 // installed size in bytes
	Reason      *uint8  // install reason; always observed as 1
	Licenses    []string
	Validation  Validation
	Replaces    []string
	Depends     []string
	OptDepends  []OptionalDependency
	Provides    []string
	Groups      []string
	Conflicts   []string
}
