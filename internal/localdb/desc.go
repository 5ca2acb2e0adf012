package localdb

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/ralt/pacquery/internal/models"
)

// emailPattern is the restricted address shape accepted in PACKAGER
// values: limited local part, dot-separated alphanumeric domain labels
// and a 2-6 letter top-level label. Only the first match is used.
var emailPattern = regexp.MustCompile(`[a-z0-9_+]([a-z0-9_+.]*[a-z0-9_+])?@[a-z0-9]+([\-.][a-z0-9]+)*\.[a-z]{2,6}`)

// ReadDescFile reads and parses one descriptor file
func ReadDescFile(path string) (*models.PackageRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &models.StoreError{
			Type: models.ErrIO,
			Err:  fmt.Errorf("failed to read descriptor: %w", err),
		}
	}
	return ParseDesc(data)
}

// ParseDesc decodes the raw text of a descriptor file into a
// PackageRecord. The text is a sequence of %LABEL% blocks, each
// followed by one or more value lines up to the next label, a blank
// line or end of input. An unknown label is a format error; a missing
// NAME or VERSION fails the whole parse.
func ParseDesc(data []byte) (*models.PackageRecord, error) {
	rec := &models.PackageRecord{}

	var label string
	var values []string
	flush := func() error {
		if label == "" || len(values) == 0 {
			label, values = "", nil
			return nil
		}
		err := applyField(rec, label, values)
		label, values = "", nil
		return err
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()

		// Label marker: %LABEL%
		if len(line) > 2 && strings.HasPrefix(line, "%") && strings.HasSuffix(line, "%") {
			if err := flush(); err != nil {
				return nil, err
			}
			label = strings.Trim(line, "%")
			continue
		}

		// Blank line ends the current block
		if strings.TrimSpace(line) == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}

		if label != "" {
			values = append(values, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &models.StoreError{Type: models.ErrIO, Err: err}
	}
	if err := flush(); err != nil {
		return nil, err
	}

	if rec.Name == "" || rec.Version == "" {
		return nil, &models.StoreError{
			Type:    models.ErrMissingField,
			Package: nameOrPlaceholder(rec),
			Err:     fmt.Errorf("descriptor is missing NAME or VERSION"),
		}
	}
	return rec, nil
}

// applyField updates exactly one record field from a label block
func applyField(rec *models.PackageRecord, label string, values []string) error {
	block := strings.TrimSpace(strings.Join(values, "\n"))

	switch label {
	case "NAME":
		rec.Name = block
	case "VERSION":
		rec.Version = block
	case "BASE":
		rec.Base = block
	case "DESC":
		rec.Description = block
	case "URL":
		rec.URL = block
	case "ARCH":
		switch block {
		case "any":
			rec.Arch = models.ArchAny
		case "x86_64":
			rec.Arch = models.ArchX86_64
		default:
			return descError(rec, fmt.Errorf("unexpected architecture %q", block))
		}
	case "BUILDDATE":
		rec.BuildDate = parseOptionalUint(block)
	case "INSTALLDATE":
		rec.InstallDate = parseOptionalUint(block)
	case "SIZE":
		rec.Size = parseOptionalUint(block)
	case "REASON":
		rec.Reason = parseOptionalUint8(block)
	case "PACKAGER":
		rec.Packager = parsePackager(block)
	case "LICENSE":
		rec.Licenses = trimmedLines(values)
	case "VALIDATION":
		switch block {
		case "pgp":
			rec.Validation = models.ValidationPgp
		case "none":
			rec.Validation = models.ValidationNone
		default:
			return descError(rec, fmt.Errorf("unexpected validation type %q", block))
		}
	case "REPLACES":
		rec.Replaces = trimmedLines(values)
	case "DEPENDS":
		rec.Depends = trimmedLines(values)
	case "OPTDEPENDS":
		rec.OptDepends = parseOptDepends(values)
	case "PROVIDES":
		rec.Provides = trimmedLines(values)
	case "GROUPS":
		rec.Groups = trimmedLines(values)
	case "CONFLICTS":
		rec.Conflicts = trimmedLines(values)
	default:
		return descError(rec, fmt.Errorf("unknown desc section %q", label))
	}
	return nil
}

func descError(rec *models.PackageRecord, err error) error {
	return &models.StoreError{
		Type:    models.ErrDescFormat,
		Package: nameOrPlaceholder(rec),
		Err:     err,
	}
}

func nameOrPlaceholder(rec *models.PackageRecord) string {
	if rec.Name != "" {
		return rec.Name
	}
	return "<unknown>"
}

// parseOptionalUint returns nil when the value is not an integer. The
// descriptor format is lenient here: an unparsable BUILDDATE,
// INSTALLDATE or SIZE degrades to absent instead of failing.
func parseOptionalUint(s string) *uint64 {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

// parseOptionalUint8 applies the same leniency to REASON
func parseOptionalUint8(s string) *uint8 {
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return nil
	}
	v := uint8(n)
	return &v
}

// parsePackager splits a PACKAGER value into a display name and, when
// one can be extracted, an email address. The no-packager sentinel
// (including the misspelling seen in real descriptors) yields nil.
func parsePackager(s string) *models.Packager {
	switch strings.ToLower(s) {
	case "unknown packager", "unknown pacakger":
		return nil
	}
	name := s
	if i := strings.Index(s, "<"); i >= 0 {
		name = s[:i]
	}
	return &models.Packager{
		Name:  strings.TrimSpace(name),
		Email: emailPattern.FindString(s),
	}
}

func trimmedLines(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strings.TrimSpace(v))
	}
	return out
}

// parseOptDepends splits each line on the first colon: package name
// before, optional free-text reason after
func parseOptDepends(values []string) []models.OptionalDependency {
	out := make([]models.OptionalDependency, 0, len(values))
	for _, v := range values {
		name, reason, _ := strings.Cut(v, ":")
		out = append(out, models.OptionalDependency{
			Package: strings.TrimSpace(name),
			Reason:  strings.TrimSpace(reason),
		})
	}
	return out
}
