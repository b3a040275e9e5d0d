// Package finder answers "where does this class come from" for one module of
// a Gradle project.
//
// Tiers run in a fixed order and results keep discovery order:
//
//	local       source files under the module's source roots
//	dependency  archives on the module's resolved classpath
//	flatdir     archives in flat-directory repositories
package finder

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"gcf/internal/archive"
	"gcf/internal/config"
	"gcf/internal/coords"
	"gcf/internal/errors"
	"gcf/internal/flatdir"
	"gcf/internal/gradle"
	"gcf/internal/match"
	"gcf/internal/modules"
)

const tracerName = "gcf.finder"

// Request identifies the class and module to search.
type Request struct {
	ProjectRoot string
	ClassName   string
	// SubmodulePath is empty for the root module, else "app" or "app/feature".
	SubmodulePath string
}

// Options tune the local and flat-dir tiers.
type Options struct {
	SourceRoots      []string
	SourceExtensions []string
	// FlatDirs are the default flat-directory names; nil uses flatdir.DefaultDirs.
	FlatDirs []string
}

// OptionsFromConfig copies the search settings out of cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		SourceRoots:      cfg.SourceRoots,
		SourceExtensions: cfg.SourceExtensions,
		FlatDirs:         cfg.FlatDir.DefaultDirs,
	}
}

// Engine runs the tiers. It keeps no state between requests.
type Engine struct {
	provider gradle.Provider
	opts     Options
	locator  *flatdir.Locator
	logger   *slog.Logger
}

// New returns an Engine. Empty source roots or extensions fall back to the
// configuration defaults.
func New(provider gradle.Provider, opts Options, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	defaults := config.DefaultConfig()
	if len(opts.SourceRoots) == 0 {
		opts.SourceRoots = defaults.SourceRoots
	}
	if len(opts.SourceExtensions) == 0 {
		opts.SourceExtensions = defaults.SourceExtensions
	}
	return &Engine{
		provider: provider,
		opts:     opts,
		locator:  flatdir.New(opts.FlatDirs, logger),
		logger:   logger,
	}
}

// FindClass returns every location req.ClassName resolves from. Surrounding
// whitespace in the class name and project root is ignored. An empty,
// non-nil slice means the class was not found. Only argument, provider and
// module lookup failures are returned as errors.
func (e *Engine) FindClass(ctx context.Context, req Request) (results []match.Result, err error) {
	req.ProjectRoot = strings.TrimSpace(req.ProjectRoot)
	req.ClassName = strings.TrimSpace(req.ClassName)

	ctx, span := otel.Tracer(tracerName).Start(ctx, "finder.Engine.FindClass",
		trace.WithAttributes(
			attribute.String("gcf.class_name", req.ClassName),
			attribute.String("gcf.submodule", req.SubmodulePath),
		),
	)
	defer span.End()
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	if err := validate(req); err != nil {
		return nil, err
	}

	start := time.Now()
	project, err := gradle.Fetch(ctx, e.provider, req.ProjectRoot)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("Loaded build model", "root", req.ProjectRoot, "modules", project.ModuleCount(), "duration", time.Since(start))

	target, err := modules.Resolve(project, req.ProjectRoot, req.SubmodulePath)
	if err != nil {
		return nil, err
	}

	b := match.NewBuilder()
	e.runTier(ctx, match.TierLocal, b, func() { e.localTier(target, req.ClassName, b) })
	e.runTier(ctx, match.TierDependency, b, func() { e.dependencyTier(target, req.ClassName, b) })
	e.runTier(ctx, match.TierFlatDir, b, func() { e.locator.Locate(target.Dir, req.ClassName, b) })

	results = b.Results()
	span.SetAttributes(attribute.Int("gcf.results", len(results)))
	e.logger.Debug("Class lookup finished", "class", req.ClassName, "module", target.GradlePath, "results", len(results))
	return results, nil
}

func validate(req Request) error {
	if req.ProjectRoot == "" {
		return errors.NewInvalidArgumentsError("projectRoot", "must not be empty")
	}
	if info, err := os.Stat(req.ProjectRoot); err != nil || !info.IsDir() {
		return errors.NewInvalidArgumentsError("projectRoot", fmt.Sprintf("not a directory: %s", req.ProjectRoot))
	}
	name := req.ClassName
	if name == "" {
		return errors.NewInvalidArgumentsError("className", "must not be empty")
	}
	if strings.ContainsAny(name, "/\\ \t") || strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".") {
		return errors.NewInvalidArgumentsError("className", fmt.Sprintf("not a fully-qualified class name: %q", req.ClassName))
	}
	return nil
}

func (e *Engine) runTier(ctx context.Context, tier match.Tier, b *match.Builder, fn func()) {
	_, span := otel.Tracer(tracerName).Start(ctx, "finder.Engine."+string(tier)+"Tier")
	defer span.End()

	before := b.Len()
	fn()
	added := b.Len() - before
	span.SetAttributes(attribute.Int("gcf.hits", added))
	e.logger.Debug("Tier finished", "tier", string(tier), "hits", added)
}

// localTier checks every source root and extension. Duplicates are kept.
func (e *Engine) localTier(target *modules.Target, className string, b *match.Builder) {
	coord := coords.Local(target.Scope)
	for _, root := range e.opts.SourceRoots {
		for _, ext := range e.opts.SourceExtensions {
			rel := filepath.FromSlash(archive.SourceEntryName(className, ext))
			path := filepath.Join(target.Dir, filepath.FromSlash(root), rel)
			if !isRegular(path) {
				continue
			}
			b.Append(match.Result{
				Location:       path,
				SourceLocation: path,
				Coordinate:     coord,
				ClassName:      className,
				IsLocal:        true,
				Tier:           match.TierLocal,
			})
		}
	}
}

// dependencyTier scans the target module's own dependencies, never an
// ancestor's or a child's.
func (e *Engine) dependencyTier(target *modules.Target, className string, b *match.Builder) {
	entry := archive.CompiledEntryName(className)
	for _, dep := range target.Module.Dependencies {
		if !archive.IsArchive(dep.File) || !isRegular(dep.File) {
			continue
		}
		found, err := archive.Lookup(dep.File, entry)
		if err != nil {
			e.logger.Debug("Skipping unreadable archive", "path", dep.File, "error", err)
			continue
		}
		if !found {
			continue
		}

		r := match.Result{
			Location:   dep.File,
			Coordinate: coords.Extract(dep.File),
			ClassName:  className,
			Tier:       match.TierDependency,
		}
		if archive.IsSourcesArchive(dep.Source) && isRegular(dep.Source) {
			r.SourceLocation = dep.Source
		}
		b.Append(r)
	}
}

func isRegular(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
