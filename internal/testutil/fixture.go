// Package testutil builds on-disk Gradle project and jar fixtures for tests.
package testutil

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
)

// classBytes starts with the class file magic so entries look plausible.
var classBytes = []byte{0xCA, 0xFE, 0xBA, 0xBE, 0x00, 0x00, 0x00, 0x3D}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

// WriteJar writes a jar at path holding entries (name to content), in name order.
func WriteJar(t *testing.T, path string, entries map[string]string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create jar %s: %v", path, err)
	}
	defer f.Close()

	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	zw := zip.NewWriter(f)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("Failed to create entry %s: %v", name, err)
		}
		if _, err := w.Write([]byte(entries[name])); err != nil {
			t.Fatalf("Failed to write entry %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to finish jar %s: %v", path, err)
	}
	return path
}

// ClassJar writes a jar containing a compiled entry for every class name.
func ClassJar(t *testing.T, path string, classNames ...string) string {
	t.Helper()

	entries := map[string]string{"META-INF/MANIFEST.MF": "Manifest-Version: 1.0\n"}
	for _, cn := range classNames {
		entries[strings.ReplaceAll(cn, ".", "/")+".class"] = string(classBytes)
	}
	return WriteJar(t, path, entries)
}

// SourcesJar writes a jar containing a .java entry per class name.
func SourcesJar(t *testing.T, path string, sources map[string]string) string {
	t.Helper()

	entries := make(map[string]string, len(sources))
	for cn, text := range sources {
		entries[strings.ReplaceAll(cn, ".", "/")+".java"] = text
	}
	return WriteJar(t, path, entries)
}

// GradleCachePath returns the path Gradle uses for a cached artifact under home.
func GradleCachePath(home, group, artifact, version, file string) string {
	return filepath.Join(home, "caches", "modules-2", "files-2.1", group, artifact, version, "0123456789abcdef", file)
}

// JavaSource returns a minimal compilable class body for className.
func JavaSource(className string) string {
	pkg, simple := "", className
	if i := strings.LastIndex(className, "."); i >= 0 {
		pkg, simple = className[:i], className[i+1:]
	}
	var b strings.Builder
	if pkg != "" {
		b.WriteString("package " + pkg + ";\n\n")
	}
	b.WriteString("public class " + simple + " {\n")
	b.WriteString("    public String greet(String name) {\n")
	b.WriteString("        if (name == null) {\n")
	b.WriteString("            return \"hello\";\n")
	b.WriteString("        }\n")
	b.WriteString("        return \"hello \" + name;\n")
	b.WriteString("    }\n")
	b.WriteString("}\n")
	return b.String()
}

// Project is a temporary Gradle project tree.
type Project struct {
	t    *testing.T
	Root string
}

// NewProject creates an empty project root with a settings file.
func NewProject(t *testing.T) *Project {
	t.Helper()

	p := &Project{t: t, Root: t.TempDir()}
	WriteFile(t, filepath.Join(p.Root, "settings.gradle"), "rootProject.name = 'fixture'\n")
	return p
}

// Path joins parts onto the project root.
func (p *Project) Path(parts ...string) string {
	return filepath.Join(append([]string{p.Root}, parts...)...)
}

// ModuleDir returns the directory of a module given as "" (root) or "a/b".
func (p *Project) ModuleDir(module string) string {
	if module == "" {
		return p.Root
	}
	return p.Path(filepath.FromSlash(module))
}

// WriteSource writes a source file for className under the module's source root.
func (p *Project) WriteSource(module, sourceRoot, className, ext string) string {
	p.t.Helper()

	rel := filepath.FromSlash(strings.ReplaceAll(className, ".", "/") + ext)
	path := filepath.Join(p.ModuleDir(module), filepath.FromSlash(sourceRoot), rel)
	return WriteFile(p.t, path, JavaSource(className))
}

// WriteBuildFile writes a build descriptor (build.gradle or build.gradle.kts) for the module.
func (p *Project) WriteBuildFile(module, name, content string) string {
	p.t.Helper()
	return WriteFile(p.t, filepath.Join(p.ModuleDir(module), name), content)
}

// WriteClassJar writes a jar at a project-relative path containing the given classes.
func (p *Project) WriteClassJar(rel string, classNames ...string) string {
	p.t.Helper()
	return ClassJar(p.t, p.Path(filepath.FromSlash(rel)), classNames...)
}
