//go:build gradle_integration

package gradle

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs the embedded init script against a real multi-project build:
//
//	go test -tags gradle_integration ./internal/gradle/
func TestCLIProvider_RealGradle(t *testing.T) {
	if _, err := exec.LookPath("gradle"); err != nil {
		t.Skip("gradle not on PATH")
	}
	root := t.TempDir()
	write := func(rel, content string) {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	write("settings.gradle", "rootProject.name = 'fixture'\ninclude 'app', 'lib', 'lib:core'\n")
	write("build.gradle", "")
	write("app/build.gradle", "plugins { id 'java' }\ndependencies { implementation project(':lib:core') }\n")
	write("lib/build.gradle", "")
	write("lib/core/build.gradle", "plugins { id 'java-library' }\n")

	provider := &CLIProvider{Command: "gradle", Offline: true, Timeout: 5 * time.Minute}
	p, err := Fetch(context.Background(), provider, root)
	require.NoError(t, err)

	assert.NotEmpty(t, p.GradleVersion)
	assert.Equal(t, ":", p.Root.Path)
	var paths []string
	for _, c := range p.Root.Children {
		paths = append(paths, c.Path)
	}
	assert.Equal(t, []string{":app", ":lib"}, paths)

	core := p.Root.Child(":lib").Child(":lib:core")
	require.NotNil(t, core, "nested modules are stitched under their parent")
	real, err := filepath.EvalSymlinks(filepath.Join(root, "lib", "core"))
	require.NoError(t, err)
	gotDir, err := filepath.EvalSymlinks(core.Dir)
	require.NoError(t, err)
	assert.Equal(t, real, gotDir)

	app := p.Root.Child(":app")
	require.NotNil(t, app)
	assert.NotEmpty(t, app.Dependencies, "the project dependency's jar is on :app's classpath")
	assert.NoDirExists(t, filepath.Join(root, "build", "gcf-model"), "fragments stay out of the project")
}
