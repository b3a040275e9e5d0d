// Package flatdir finds classes in flat-directory repositories declared by a
// module's own build file, plus conventional default directories.
package flatdir

import (
	"bufio"
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gcf/internal/archive"
	"gcf/internal/coords"
	"gcf/internal/match"
)

// BuildFiles are the recognized module build descriptors, in lookup order.
var BuildFiles = []string{"build.gradle", "build.gradle.kts"}

// DefaultDirs are scanned when no other defaults are configured.
var DefaultDirs = []string{"libs", "lib"}

// Placeholders replaced with the module's parent directory.
var rootPlaceholders = []string{"${rootProject.projectDir.path}", "${rootProject.projectDir}"}

var (
	// flatDir { dirs: 'libs' }
	singleDirPattern = regexp.MustCompile(`flatDir.*dirs:\s*["']([^"']*)["']`)
	// flatDir { dirs: ['libs', "vendor"] }
	listDirPattern = regexp.MustCompile(`flatDir.*dirs:\s*\[([^\]]+)\]`)
	// flatDir { dirs("libs", "vendor") }
	callDirPattern = regexp.MustCompile(`flatDir\s*\{\s*dirs\s*\(([^)]*)\)`)
	// flatDir { dirs 'libs', 'vendor' }
	bareDirPattern = regexp.MustCompile(`flatDir\s*\{\s*dirs\s+((?:["'][^"']*["']\s*,?\s*)+)`)
)

// Locator scans flat directories for compiled classes.
type Locator struct {
	defaultDirs []string
	logger      *slog.Logger
}

// New creates a locator. A nil defaultDirs uses DefaultDirs; an empty slice disables defaults.
func New(defaultDirs []string, logger *slog.Logger) *Locator {
	if defaultDirs == nil {
		defaultDirs = DefaultDirs
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Locator{defaultDirs: defaultDirs, logger: logger}
}

// BuildFile returns the module's own build descriptor, or "" if it has none.
func BuildFile(moduleDir string) string {
	for _, name := range BuildFiles {
		p := filepath.Join(moduleDir, name)
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			return p
		}
	}
	return ""
}

// ParseDirs extracts declared flat directories from build file text, in order.
// Per line the single-directory form wins over the list form.
func ParseDirs(text []byte) []string {
	var dirs []string
	sc := bufio.NewScanner(bytes.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if m := singleDirPattern.FindStringSubmatch(line); m != nil {
			dirs = append(dirs, strings.TrimSpace(m[1]))
			continue
		}
		if m := listDirPattern.FindStringSubmatch(line); m != nil {
			dirs = append(dirs, splitQuoted(m[1])...)
			continue
		}
		if m := callDirPattern.FindStringSubmatch(line); m != nil {
			dirs = append(dirs, splitQuoted(m[1])...)
			continue
		}
		if m := bareDirPattern.FindStringSubmatch(line); m != nil {
			dirs = append(dirs, splitQuoted(m[1])...)
		}
	}
	return dirs
}

func splitQuoted(list string) []string {
	var out []string
	for _, part := range strings.Split(list, ",") {
		d := strings.TrimSpace(strings.NewReplacer(`"`, "", "'", "").Replace(part))
		if d != "" {
			out = append(out, d)
		}
	}
	return out
}

// Substitute replaces the root project placeholders with the parent of moduleDir.
func Substitute(dir, moduleDir string) string {
	if !strings.Contains(dir, "${rootProject.projectDir") {
		return dir
	}
	parent := filepath.Dir(absPath(moduleDir))
	for _, ph := range rootPlaceholders {
		dir = strings.ReplaceAll(dir, ph, parent)
	}
	return dir
}

// Dirs returns the absolute candidate directories for a module: declared
// directories first, then the defaults, without duplicates.
func (l *Locator) Dirs(moduleDir string) []string {
	moduleDir = absPath(moduleDir)

	var declared []string
	if bf := BuildFile(moduleDir); bf != "" {
		data, err := os.ReadFile(bf)
		if err != nil {
			l.logger.Debug("Cannot read build file", "path", bf, "error", err)
		} else {
			declared = ParseDirs(data)
		}
	}

	seen := make(map[string]bool)
	var dirs []string
	for _, d := range append(declared, l.defaultDirs...) {
		d = Substitute(d, moduleDir)
		if !filepath.IsAbs(d) {
			d = filepath.Join(moduleDir, d)
		}
		d = filepath.Clean(d)
		if seen[d] {
			continue
		}
		seen[d] = true
		dirs = append(dirs, d)
	}
	return dirs
}

// Locate appends a result for every flat-directory archive containing className
// whose location is not already in b. It returns the number appended.
func (l *Locator) Locate(moduleDir, className string, b *match.Builder) int {
	entry := archive.CompiledEntryName(className)
	added := 0

	for _, dir := range l.Dirs(moduleDir) {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			l.logger.Debug("Flat directory not found", "dir", dir)
			continue
		}
		l.logger.Debug("Scanning flat directory", "dir", dir)

		for _, jar := range archive.ListArchives(dir) {
			if b.Has(jar) {
				continue
			}
			found, err := archive.Lookup(jar, entry)
			if err != nil {
				l.logger.Debug("Skipping unreadable archive", "path", jar, "error", err)
				continue
			}
			if !found {
				continue
			}
			if b.AppendUnique(match.Result{
				Location:   jar,
				Coordinate: coords.FlatDir(jar),
				ClassName:  className,
				Tier:       match.TierFlatDir,
			}) {
				added++
			}
		}
	}
	return added
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
