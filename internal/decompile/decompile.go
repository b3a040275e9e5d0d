// Package decompile reconstructs class source by running an external decompiler.
package decompile

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"gcf/internal/archive"
	"gcf/internal/errors"
)

const tracerName = "gcf.decompile"

// DefaultTimeout bounds one decompiler run when none is configured.
const DefaultTimeout = 60 * time.Second

// waitDelay bounds how long output pipes are drained after the process is killed.
const waitDelay = 2 * time.Second

// Placeholders expanded in argument templates.
const (
	PlaceholderArchive     = "{archive}"
	PlaceholderOutputDir   = "{outputDir}"
	PlaceholderClassName   = "{className}"
	PlaceholderClassFilter = "{classFilter}"
	PlaceholderCFRJar      = "{cfrJar}"
)

// DefaultArgs runs CFR on one class of the archive.
var DefaultArgs = []string{
	"-jar", PlaceholderCFRJar,
	PlaceholderArchive,
	"--outputdir", PlaceholderOutputDir,
	"--silent", "true",
	"--jarfilter", PlaceholderClassFilter,
}

// Decompiler turns a compiled class inside an archive into source text.
type Decompiler interface {
	Decompile(ctx context.Context, archivePath, className string) (string, error)
}

// CLI runs a command-line decompiler once per class in a fresh output directory.
type CLI struct {
	// Command is the executable, java by default.
	Command string
	// CFRJar is substituted for {cfrJar}.
	CFRJar string
	// Args is the argument template; nil uses DefaultArgs.
	Args    []string
	Timeout time.Duration
	// TempDir is the parent of per-call output directories; empty uses os.TempDir.
	TempDir string
	Logger  *slog.Logger
}

// Decompile returns the source of className, reading <outputDir>/<a/b/Outer>.java.
func (c *CLI) Decompile(ctx context.Context, archivePath, className string) (source string, err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "decompile.CLI.Decompile",
		trace.WithAttributes(
			attribute.String("gcf.archive", archivePath),
			attribute.String("gcf.class_name", className),
		),
	)
	defer span.End()
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	args := c.Args
	if args == nil {
		args = DefaultArgs
		if c.CFRJar == "" {
			return "", errors.NewDecompilationError(className, fmt.Errorf("decompiler.cfrJar is not configured"))
		}
	}

	id := uuid.NewString()
	parent := c.TempDir
	if parent == "" {
		parent = os.TempDir()
	}
	// MkdirTemp creates a fresh 0700 directory and never reuses an existing one.
	outDir, err := os.MkdirTemp(parent, "gcf-decompile-"+id+"-")
	if err != nil {
		return "", errors.NewDecompilationError(className, err)
	}
	defer os.RemoveAll(outDir)

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	command := c.Command
	if command == "" {
		command = "java"
	}
	cmd := exec.CommandContext(runCtx, command, c.expand(args, archivePath, className, outDir)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	start := time.Now()
	c.logger().Debug("Running decompiler", "requestId", id, "command", command, "class", className)
	if err := cmd.Run(); err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			err = fmt.Errorf("timed out after %s", timeout)
		}
		return "", errors.NewDecompilationError(className, fmt.Errorf("%w: %s", err, tail(stderr.String())))
	}

	path, err := findOutput(outDir, className)
	if err != nil {
		return "", errors.NewDecompilationError(className, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.NewDecompilationError(className, err)
	}
	c.logger().Debug("Decompiled class", "requestId", id, "class", className, "bytes", len(data), "duration", time.Since(start))
	span.SetAttributes(attribute.Int("gcf.source_bytes", len(data)))
	return string(data), nil
}

func (c *CLI) expand(args []string, archivePath, className, outDir string) []string {
	r := strings.NewReplacer(
		PlaceholderArchive, archivePath,
		PlaceholderOutputDir, outDir,
		PlaceholderClassName, className,
		PlaceholderClassFilter, ClassFilter(className),
		PlaceholderCFRJar, c.CFRJar,
	)
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = r.Replace(a)
	}
	return out
}

func (c *CLI) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ClassFilter is a regex matching the outer class and its nested classes by fully-qualified name.
func ClassFilter(className string) string {
	return "^" + regexp.QuoteMeta(archive.OuterClass(className)) + `(\$.*)?$`
}

// OutputPath is where a decompiler writing a package tree puts className's source.
func OutputPath(outDir, className string) string {
	return filepath.Join(outDir, filepath.FromSlash(archive.SourceEntryName(className, ".java")))
}

// findOutput returns the expected output file, or the only file with the right
// name anywhere under outDir.
func findOutput(outDir, className string) (string, error) {
	want := OutputPath(outDir, className)
	if info, err := os.Stat(want); err == nil && info.Mode().IsRegular() {
		return want, nil
	}

	base := filepath.Base(want)
	var found []string
	_ = filepath.WalkDir(outDir, func(p string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() && d.Name() == base {
			found = append(found, p)
		}
		return nil
	})
	if len(found) == 1 {
		return found[0], nil
	}
	rel, _ := filepath.Rel(outDir, want)
	return "", fmt.Errorf("decompiler produced no output for %s", rel)
}

func tail(s string) string {
	const n = 2048
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
