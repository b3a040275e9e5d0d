package gradle

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"gcf/internal/errors"
)

//go:embed scripts/gcf-model.gradle
var initScript []byte

const (
	// ModelTask is the root task registered by the init script. It depends on
	// FragmentTask in every project.
	ModelTask = "gcfModuleTree"
	// FragmentTask resolves one project's own configurations.
	FragmentTask = "gcfModuleFragment"

	modelStart = "<<<GCF-MODEL"
	modelEnd   = "GCF-MODEL>>>"

	// DefaultTimeout bounds a model run when none is configured.
	DefaultTimeout = 5 * time.Minute

	stderrTail = 2048
)

// CLIProvider obtains the model by running Gradle with an init script.
type CLIProvider struct {
	// Command overrides the executable. Empty means ./gradlew when present, else gradle.
	Command string
	// Args are appended after the standard arguments.
	Args    []string
	Offline bool
	Timeout time.Duration
	Logger  *slog.Logger
}

// Connect stages the init script in a private temp dir, which also receives the
// per-project model fragments. Close removes it.
func (p *CLIProvider) Connect(_ context.Context, projectRoot string) (Connection, error) {
	root, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, errors.NewProviderConnectionError(projectRoot, err)
	}
	if info, err := os.Stat(root); err != nil {
		return nil, errors.NewProviderConnectionError(projectRoot, err)
	} else if !info.IsDir() {
		return nil, errors.NewProviderConnectionError(projectRoot, fmt.Errorf("not a directory"))
	}

	tmp, err := os.MkdirTemp("", "gcf-gradle-")
	if err != nil {
		return nil, errors.NewProviderConnectionError(projectRoot, err)
	}
	script := filepath.Join(tmp, "gcf-model.gradle")
	if err := os.WriteFile(script, initScript, 0o644); err != nil {
		_ = os.RemoveAll(tmp)
		return nil, errors.NewProviderConnectionError(projectRoot, err)
	}

	logger := p.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &cliConnection{provider: p, root: root, tmpDir: tmp, script: script, logger: logger}, nil
}

type cliConnection struct {
	provider *CLIProvider
	root     string
	tmpDir   string
	script   string
	logger   *slog.Logger
}

// command returns the executable and full argument list.
func (c *cliConnection) command() (string, []string) {
	bin := c.provider.Command
	if bin == "" {
		bin = wrapperOrGradle(c.root)
	}
	args := []string{"--quiet", "--console=plain", "--no-configuration-cache", "--init-script", c.script,
		"-Pgcf.fragmentDir=" + filepath.Join(c.tmpDir, "fragments")}
	if c.provider.Offline {
		args = append(args, "--offline")
	}
	args = append(args, c.provider.Args...)
	args = append(args, ModelTask)
	return bin, args
}

func wrapperOrGradle(root string) string {
	name := "gradlew"
	if runtime.GOOS == "windows" {
		name = "gradlew.bat"
	}
	wrapper := filepath.Join(root, name)
	if info, err := os.Stat(wrapper); err == nil && !info.IsDir() {
		return wrapper
	}
	return "gradle"
}

func (c *cliConnection) Snapshot(ctx context.Context) (*Project, error) {
	timeout := c.provider.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	bin, args := c.command()
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = c.root
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = 5 * time.Second

	start := time.Now()
	c.logger.Debug("Running Gradle model task", "command", bin, "dir", c.root)
	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			err = fmt.Errorf("timed out after %s", timeout)
		}
		return nil, errors.NewProviderConnectionError(c.root,
			fmt.Errorf("%s %s: %w: %s", filepath.Base(bin), ModelTask, err, tail(stderr.String(), stderrTail)))
	}
	c.logger.Debug("Gradle model task finished", "duration", time.Since(start))

	project, err := ParseModelOutput(stdout.Bytes())
	if err != nil {
		return nil, errors.NewProviderConnectionError(c.root, err)
	}
	if project.RootDir == "" {
		project.RootDir = c.root
	}
	return project, nil
}

func (c *cliConnection) Close() error {
	return os.RemoveAll(c.tmpDir)
}

// ParseModelOutput extracts the JSON model framed by the init script markers.
// Anything Gradle prints outside the markers is ignored.
func ParseModelOutput(out []byte) (*Project, error) {
	s := string(out)
	start := strings.Index(s, modelStart)
	if start < 0 {
		return nil, fmt.Errorf("model output not found in Gradle output")
	}
	body := s[start+len(modelStart):]
	end := strings.Index(body, modelEnd)
	if end < 0 {
		return nil, fmt.Errorf("model output is truncated")
	}
	return UnmarshalSnapshot([]byte(strings.TrimSpace(body[:end])), FormatJSON)
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
