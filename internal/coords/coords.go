// Package coords derives provenance identifiers for matched archives.
//
// A coordinate is one of:
//
//	group:artifact:version   resolved from a dependency cache layout
//	LOCAL::<scope>           a plain source file in the module
//	FLATDIR::<file name>     an archive found by flat-directory scanning
//
// When no cache layout is recognized the bare archive file name is used.
package coords

import (
	"path"
	"path/filepath"
	"strings"
)

const (
	// GradleCacheMarker is the path segment preceding group/artifact/version in the Gradle cache.
	GradleCacheMarker = "caches/modules-2/files-2.1/"
	// MavenLocalMarker is the path segment preceding the group directories in a local Maven repository.
	MavenLocalMarker = ".m2/repository/"

	LocalPrefix   = "LOCAL::"
	FlatDirPrefix = "FLATDIR::"
)

// Coordinate is a group:artifact:version triple.
type Coordinate struct {
	Group    string `json:"group"`
	Artifact string `json:"artifact"`
	Version  string `json:"version"`
}

func (c Coordinate) String() string {
	return c.Group + ":" + c.Artifact + ":" + c.Version
}

// Extract returns the coordinate for archivePath, falling back to its file name.
func Extract(archivePath string) string {
	if c, ok := Parse(archivePath); ok {
		return c.String()
	}
	return path.Base(filepath.ToSlash(archivePath))
}

// Parse recognizes the Gradle cache and Maven local layouts.
func Parse(archivePath string) (Coordinate, bool) {
	p := filepath.ToSlash(archivePath)

	if i := strings.Index(p, GradleCacheMarker); i >= 0 {
		parts := splitNonEmpty(p[i+len(GradleCacheMarker):])
		if len(parts) < 3 {
			return Coordinate{}, false
		}
		return Coordinate{Group: parts[0], Artifact: parts[1], Version: parts[2]}, true
	}

	if i := strings.Index(p, MavenLocalMarker); i >= 0 {
		// <group dirs>/<artifact>/<version>/<file>
		parts := splitNonEmpty(p[i+len(MavenLocalMarker):])
		n := len(parts)
		if n < 4 {
			return Coordinate{}, false
		}
		return Coordinate{
			Group:    strings.Join(parts[:n-3], "."),
			Artifact: parts[n-3],
			Version:  parts[n-2],
		}, true
	}

	return Coordinate{}, false
}

// Local tags a local source match with its scope.
func Local(scope string) string {
	return LocalPrefix + scope
}

// FlatDir tags a flat-directory match with the archive file name.
func FlatDir(archivePath string) string {
	return FlatDirPrefix + filepath.Base(archivePath)
}

// IsLocal reports whether coord is a local source tag.
func IsLocal(coord string) bool {
	return strings.HasPrefix(coord, LocalPrefix)
}

// IsFlatDir reports whether coord is a flat-directory tag.
func IsFlatDir(coord string) bool {
	return strings.HasPrefix(coord, FlatDirPrefix)
}

func splitNonEmpty(s string) []string {
	fields := strings.Split(s, "/")
	out := fields[:0]
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
