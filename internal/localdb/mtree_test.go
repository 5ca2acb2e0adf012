package localdb

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ralt/pacquery/internal/models"
	"github.com/ulikunitz/xz"
)

func gzipData(t *testing.T, text string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write([]byte(text)); err != nil {
		t.Fatalf("Failed to compress fixture: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close gzip writer: %v", err)
	}
	return buf.Bytes()
}

func TestParseMtreeCarryOver(t *testing.T) {
	mtree := "#mtree\n" +
		"/set type=file uid=0 gid=0 mode=644\n" +
		"./usr/bin/foo mode=755 uid=0 gid=0 time=123.0 size=10 type=file\n" +
		"./usr/bin/bar time=124.0\n"

	records, err := ParseMtree(gzipData(t, mtree))
	if err != nil {
		t.Fatalf("Failed to parse mtree: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Got %d records, want 2", len(records))
	}

	foo, bar := records[0], records[1]
	if foo.Path != "/usr/bin/foo" || bar.Path != "/usr/bin/bar" {
		t.Errorf("Paths = %q, %q", foo.Path, bar.Path)
	}

	// mode, uid, gid and size carry forward from foo's line
	if bar.Mode != 755 {
		t.Errorf("bar.Mode = %d, want 755", bar.Mode)
	}
	if bar.UID != 0 || bar.GID != 0 {
		t.Errorf("bar uid/gid = %d/%d, want 0/0", bar.UID, bar.GID)
	}
	if bar.Size != 10 {
		t.Errorf("bar.Size = %d, want 10", bar.Size)
	}

	// time does not carry over
	if foo.Time != 123 || bar.Time != 124 {
		t.Errorf("Times = %d, %d, want 123, 124", foo.Time, bar.Time)
	}
}

func TestParseMtreePathNormalization(t *testing.T) {
	withMarker, err := ParseMtree(gzipData(t, "./usr/bin/foo type=file\n"))
	if err != nil {
		t.Fatalf("Failed to parse mtree: %v", err)
	}
	withoutMarker, err := ParseMtree(gzipData(t, "/usr/bin/foo type=file\n"))
	if err != nil {
		t.Fatalf("Failed to parse mtree: %v", err)
	}
	if withMarker[0].Path != "/usr/bin/foo" {
		t.Errorf("Path = %q, want /usr/bin/foo", withMarker[0].Path)
	}
	if withMarker[0].Path != withoutMarker[0].Path {
		t.Errorf("Leading ./ must normalize identically: %q vs %q",
			withMarker[0].Path, withoutMarker[0].Path)
	}
}

func TestParseMtreeDirectiveLinesYieldNoRecord(t *testing.T) {
	mtree := "#mtree\n/set type=file uid=0 gid=0 mode=644\n"
	records, err := ParseMtree(gzipData(t, mtree))
	if err != nil {
		t.Fatalf("Failed to parse mtree: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Directive-only lines must yield no records, got %d", len(records))
	}
}

func TestParseMtreeRecordFields(t *testing.T) {
	mtree := "./etc type=dir mode=755 uid=0 gid=0 time=100.5\n" +
		"./etc/passwd type=file mode=644 size=1234 time=101.0 md5digest=aaaa sha256digest=bbbb\n" +
		"./usr/lib/libfoo.so type=link link=libfoo.so.1 time=102.0\n"

	records, err := ParseMtree(gzipData(t, mtree))
	if err != nil {
		t.Fatalf("Failed to parse mtree: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Got %d records, want 3", len(records))
	}

	dir, file, link := records[0], records[1], records[2]
	if dir.Type != models.FileTypeDirectory {
		t.Errorf("dir.Type = %v", dir.Type)
	}
	if dir.Time != 100 {
		t.Errorf("dir.Time = %d, want truncated 100", dir.Time)
	}
	if file.Type != models.FileTypeFile || file.MD5 != "aaaa" || file.SHA256 != "bbbb" {
		t.Errorf("file = %+v", file)
	}
	// hashes do not carry over to the next line
	if link.MD5 != "" || link.SHA256 != "" {
		t.Errorf("Hashes must reset per line: %+v", link)
	}
	if link.Type != models.FileTypeSymlink || link.LinkTarget != "libfoo.so.1" {
		t.Errorf("link = %+v", link)
	}
}

func TestParseMtreeUnknownTokens(t *testing.T) {
	cases := []struct {
		name  string
		mtree string
		want  string
	}{
		{"unknown type", "./f type=socket\n", "socket"},
		{"unknown key", "./f frobnicate=1\n", "frobnicate"},
		{"unknown digest", "./f crc32digest=abcd\n", "crc32digest"},
	}
	for _, tc := range cases {
		_, err := ParseMtree(gzipData(t, tc.mtree))
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		var storeErr *models.StoreError
		if !errors.As(err, &storeErr) || storeErr.Type != models.ErrManifestFormat {
			t.Errorf("%s: expected ErrManifestFormat, got %v", tc.name, err)
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Errorf("%s: error should name the offender, got %v", tc.name, err)
		}
	}
}

func TestParseMtreeCorruptStream(t *testing.T) {
	// Valid gzip magic, garbage body
	data := append([]byte{0x1F, 0x8B}, []byte("definitely not a deflate stream")...)
	_, err := ParseMtree(data)
	if err == nil {
		t.Fatal("Expected decode error for corrupt stream")
	}
	var storeErr *models.StoreError
	if !errors.As(err, &storeErr) || storeErr.Type != models.ErrIO {
		t.Errorf("Expected ErrIO, got %v", err)
	}

	// Truncated stream: header only, no body or trailer
	full := gzipData(t, "./usr/bin/foo type=file\n")
	if _, err := ParseMtree(full[:len(full)-6]); err == nil {
		t.Error("Expected decode error for truncated stream")
	}
}

func TestParseMtreeUnrecognizedCompression(t *testing.T) {
	_, err := ParseMtree([]byte("plain text, no compression at all\n"))
	if err == nil {
		t.Fatal("Expected error for unrecognized compression format")
	}
}

func TestParseMtreeZstd(t *testing.T) {
	var buf bytes.Buffer
	w, err := zstd.NewWriter(&buf)
	if err != nil {
		t.Fatalf("Failed to create zstd writer: %v", err)
	}
	if _, err := w.Write([]byte("./usr/bin/foo mode=755 type=file\n")); err != nil {
		t.Fatalf("Failed to compress fixture: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close zstd writer: %v", err)
	}

	records, err := ParseMtree(buf.Bytes())
	if err != nil {
		t.Fatalf("Failed to parse zstd mtree: %v", err)
	}
	if len(records) != 1 || records[0].Path != "/usr/bin/foo" {
		t.Errorf("records = %+v", records)
	}
}

func TestParseMtreeXz(t *testing.T) {
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		t.Fatalf("Failed to create xz writer: %v", err)
	}
	if _, err := w.Write([]byte("./usr/bin/foo mode=755 type=file\n")); err != nil {
		t.Fatalf("Failed to compress fixture: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close xz writer: %v", err)
	}

	records, err := ParseMtree(buf.Bytes())
	if err != nil {
		t.Fatalf("Failed to parse xz mtree: %v", err)
	}
	if len(records) != 1 || records[0].Path != "/usr/bin/foo" {
		t.Errorf("records = %+v", records)
	}
}
