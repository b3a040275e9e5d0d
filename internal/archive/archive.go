// Package archive looks up named entries inside jar archives.
//
// Entry names are matched exactly: no globbing and no case folding.
package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
)

const (
	// Extension is the archive file extension recognized for scanning.
	Extension = ".jar"
	// SourcesSuffix marks a companion source archive.
	SourcesSuffix = "-sources.jar"
	// ClassExtension is the compiled entry extension.
	ClassExtension = ".class"
)

// SourceExtensions are the embedded source entry extensions, in lookup order.
var SourceExtensions = []string{".java", ".kt"}

// maxEntrySize caps how much of a single entry ExtractEntryText will read.
const maxEntrySize = 16 << 20

// Entry describes one archive member.
type Entry struct {
	Name           string    `json:"name"`
	Size           uint64    `json:"size"`
	CompressedSize uint64    `json:"compressedSize"`
	Modified       time.Time `json:"modified"`
}

// IsArchive reports whether path has the archive extension.
func IsArchive(path string) bool {
	return strings.HasSuffix(path, Extension)
}

// IsSourcesArchive reports whether path names a companion source archive.
func IsSourcesArchive(path string) bool {
	return strings.HasSuffix(path, SourcesSuffix)
}

// CompiledEntryName converts com.example.Foo to com/example/Foo.class.
func CompiledEntryName(className string) string {
	return strings.ReplaceAll(className, ".", "/") + ClassExtension
}

// SourceEntryName converts com.example.Foo$Bar to com/example/Foo<ext>.
// Nested classes live in their outermost class's source file.
func SourceEntryName(className, ext string) string {
	return strings.ReplaceAll(OuterClass(className), ".", "/") + ext
}

// OuterClass strips nested class suffixes: a.b.Outer$Inner becomes a.b.Outer.
func OuterClass(className string) string {
	pkg, simple := "", className
	if i := strings.LastIndex(className, "."); i >= 0 {
		pkg, simple = className[:i+1], className[i+1:]
	}
	if i := strings.Index(simple, "$"); i > 0 {
		simple = simple[:i]
	}
	return pkg + simple
}

// Lookup reports whether the archive contains entryName.
func Lookup(archivePath, entryName string) (bool, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return false, fmt.Errorf("open %s: %w", archivePath, err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name == entryName {
			return true, nil
		}
	}
	return false, nil
}

// ContainsEntry is Lookup with every I/O failure reported as not found.
func ContainsEntry(archivePath, entryName string) bool {
	ok, err := Lookup(archivePath, entryName)
	return err == nil && ok
}

// ReadEntry returns the content of entryName. found is false when the entry is absent.
func ReadEntry(archivePath, entryName string) (data []byte, found bool, err error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, false, fmt.Errorf("open %s: %w", archivePath, err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name != entryName {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, true, fmt.Errorf("open entry %s: %w", entryName, err)
		}
		defer rc.Close()

		data, err = io.ReadAll(io.LimitReader(rc, maxEntrySize))
		if err != nil {
			return nil, true, fmt.Errorf("read entry %s: %w", entryName, err)
		}
		return data, true, nil
	}
	return nil, false, nil
}

// ExtractEntryText returns the entry as text, or false when it is absent or unreadable.
func ExtractEntryText(archivePath, entryName string) (string, bool) {
	data, found, err := ReadEntry(archivePath, entryName)
	if err != nil || !found {
		return "", false
	}
	return string(data), true
}

// Entries lists archive members whose names start with prefix, sorted by name.
func Entries(archivePath, prefix string) ([]Entry, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", archivePath, err)
	}
	defer r.Close()

	entries := make([]Entry, 0, len(r.File))
	for _, f := range r.File {
		if !strings.HasPrefix(f.Name, prefix) {
			continue
		}
		entries = append(entries, Entry{
			Name:           f.Name,
			Size:           f.UncompressedSize64,
			CompressedSize: f.CompressedSize64,
			Modified:       f.Modified,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// ListArchives returns the regular archive files directly inside dir, sorted by name.
// A missing or unreadable directory yields no archives.
func ListArchives(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if !e.Type().IsRegular() || !strings.HasSuffix(e.Name(), Extension) {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	return out
}
