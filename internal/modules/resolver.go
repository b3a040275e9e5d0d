// Package modules locates the exact Gradle module a request targets.
package modules

import (
	"path/filepath"
	"strings"

	"gcf/internal/errors"
	"gcf/internal/gradle"
)

// Target is the module a request operates on.
type Target struct {
	// Module is the exact provider node, never an ancestor or descendant.
	Module *gradle.Module
	// Dir is the absolute module directory used for local and flat-dir lookups.
	Dir string
	// Scope labels local matches: the submodule path as given, else the directory name.
	Scope string
	// GradlePath is the requested path in Gradle syntax.
	GradlePath string
}

// Resolve picks the target module from project. An empty submodulePath is
// the root module, located at the provider-reported directory when there is
// one, else at projectRoot. Otherwise only the root's direct children
// are searched for an exact path match.
func Resolve(project *gradle.Project, projectRoot, submodulePath string) (*Target, error) {
	if project == nil || project.Root == nil {
		return nil, errors.NewProviderConnectionError(projectRoot, nil)
	}
	root := absPath(projectRoot)
	rootDir := root
	if project.Root.Dir != "" {
		rootDir = absPath(project.Root.Dir)
	}

	if submodulePath == "" {
		return &Target{
			Module:     project.Root,
			Dir:        rootDir,
			Scope:      filepath.Base(root),
			GradlePath: gradle.PathSeparator,
		}, nil
	}

	gp := gradle.ToGradlePath(submodulePath)
	child := project.Root.Child(gp)
	if child == nil {
		return nil, errors.NewModuleNotFoundError(submodulePath, project.ChildPaths())
	}

	dir := child.Dir
	if dir == "" {
		rel := strings.ReplaceAll(strings.TrimPrefix(gp, gradle.PathSeparator), gradle.PathSeparator, "/")
		dir = filepath.Join(rootDir, filepath.FromSlash(rel))
	}
	return &Target{
		Module:     child,
		Dir:        absPath(dir),
		Scope:      submodulePath,
		GradlePath: gp,
	}, nil
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
