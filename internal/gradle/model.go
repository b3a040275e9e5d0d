// Package gradle supplies Gradle project models: the module tree with each
// module's resolved binary dependencies.
package gradle

import (
	"sort"
	"strings"
)

// PathSeparator separates Gradle project path segments; the root project is ":".
const PathSeparator = ":"

// Project is one snapshot of a Gradle build's module tree.
type Project struct {
	RootDir       string  `json:"rootDir,omitempty" yaml:"rootDir,omitempty" toml:"rootDir,omitempty"`
	GradleVersion string  `json:"gradleVersion,omitempty" yaml:"gradleVersion,omitempty" toml:"gradleVersion,omitempty"`
	Root          *Module `json:"root" yaml:"root" toml:"root"`
}

// Module is a node of the module tree.
type Module struct {
	Path         string       `json:"path" yaml:"path" toml:"path"`
	Name         string       `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Dir          string       `json:"dir,omitempty" yaml:"dir,omitempty" toml:"dir,omitempty"`
	BuildFile    string       `json:"buildFile,omitempty" yaml:"buildFile,omitempty" toml:"buildFile,omitempty"`
	Dependencies []Dependency `json:"dependencies,omitempty" yaml:"dependencies,omitempty" toml:"dependencies,omitempty"`
	Children     []*Module    `json:"children,omitempty" yaml:"children,omitempty" toml:"children,omitempty"`
}

// Dependency is a resolved binary with an optional companion source archive.
type Dependency struct {
	File   string `json:"file" yaml:"file" toml:"file"`
	Source string `json:"source,omitempty" yaml:"source,omitempty" toml:"source,omitempty"`
}

// IsRoot reports whether m is the root project.
func (m *Module) IsRoot() bool {
	return m.Path == "" || m.Path == PathSeparator
}

// Child returns the direct child with the given Gradle path.
func (m *Module) Child(path string) *Module {
	for _, c := range m.Children {
		if c.Path == path {
			return c
		}
	}
	return nil
}

// Walk visits m and its descendants depth-first in declaration order.
// Returning false from fn stops the walk.
func (m *Module) Walk(fn func(*Module) bool) bool {
	if !fn(m) {
		return false
	}
	for _, c := range m.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// ChildPaths returns the sorted paths of the root's direct children.
func (p *Project) ChildPaths() []string {
	if p == nil || p.Root == nil {
		return nil
	}
	paths := make([]string, 0, len(p.Root.Children))
	for _, c := range p.Root.Children {
		paths = append(paths, c.Path)
	}
	sort.Strings(paths)
	return paths
}

// ModuleCount counts every module in the tree including the root.
func (p *Project) ModuleCount() int {
	if p == nil || p.Root == nil {
		return 0
	}
	n := 0
	p.Root.Walk(func(*Module) bool { n++; return true })
	return n
}

// ToGradlePath converts a slash or backslash separated submodule path to
// Gradle syntax: "app/feature" becomes ":app:feature". Empty input is the root.
func ToGradlePath(submodule string) string {
	s := strings.NewReplacer("/", PathSeparator, `\`, PathSeparator).Replace(strings.TrimSpace(submodule))
	s = strings.Trim(s, PathSeparator)
	return PathSeparator + s
}

// normalize fills defaults after decoding.
func (p *Project) normalize() {
	if p.Root == nil {
		return
	}
	p.Root.Walk(func(m *Module) bool {
		if m.Path == "" {
			m.Path = PathSeparator
		}
		return true
	})
}
