package flatdir

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gcf/internal/match"
	"gcf/internal/testutil"
)

func TestParseDirs(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "single quoted dir",
			text: "repositories {\n    flatDir { dirs: 'vendor' }\n}\n",
			want: []string{"vendor"},
		},
		{
			name: "double quoted dir",
			text: `flatDir dirs: "third-party"`,
			want: []string{"third-party"},
		},
		{
			name: "bracketed list",
			text: `flatDir { dirs: ['a', "b" , 'c'] }`,
			want: []string{"a", "b", "c"},
		},
		{
			name: "kotlin dsl call",
			text: `repositories { flatDir { dirs("libs-kt", "more") } }`,
			want: []string{"libs-kt", "more"},
		},
		{
			name: "groovy call without parens",
			text: "flatDir { dirs 'aars', 'jars' }",
			want: []string{"aars", "jars"},
		},
		{
			name: "multiple lines in order",
			text: "flatDir dirs: 'first'\nflatDir dirs: ['second', 'third']\n",
			want: []string{"first", "second", "third"},
		},
		{
			name: "no flatDir",
			text: "dependencies { implementation 'g:a:1' }\n",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDirs([]byte(tt.text)))
		})
	}
}

func TestSubstitute(t *testing.T) {
	moduleDir := filepath.Join(t.TempDir(), "app")
	parent := filepath.Dir(moduleDir)

	assert.Equal(t, parent+"/libs", Substitute("${rootProject.projectDir.path}/libs", moduleDir))
	assert.Equal(t, parent+"/vendor", Substitute("${rootProject.projectDir}/vendor", moduleDir))
	assert.Equal(t, "libs", Substitute("libs", moduleDir))
}

func TestLocator_Dirs(t *testing.T) {
	p := testutil.NewProject(t)
	p.WriteBuildFile("app", "build.gradle", "repositories {\n  flatDir dirs: ['vendor', 'libs', '/opt/shared']\n}\n")

	dirs := New(nil, nil).Dirs(p.ModuleDir("app"))

	assert.Equal(t, []string{
		p.Path("app", "vendor"),
		p.Path("app", "libs"),
		filepath.Clean("/opt/shared"),
		p.Path("app", "lib"),
	}, dirs)
}

func TestLocator_Dirs_KotlinBuildFile(t *testing.T) {
	p := testutil.NewProject(t)
	p.WriteBuildFile("core", "build.gradle.kts", `repositories { flatDir { dirs("${rootProject.projectDir}/shared") } }`+"\n")

	dirs := New([]string{}, nil).Dirs(p.ModuleDir("core"))

	assert.Equal(t, []string{p.Path("shared")}, dirs)
}

func TestLocator_Locate(t *testing.T) {
	p := testutil.NewProject(t)
	p.WriteBuildFile("app", "build.gradle", "flatDir { dirs: 'vendor' }\n")
	vendorJar := p.WriteClassJar("app/vendor/vendor-sdk.jar", "com.vendor.Client")
	libJar := p.WriteClassJar("app/libs/other.jar", "com.vendor.Client", "com.vendor.Other")
	p.WriteClassJar("app/libs/unrelated.jar", "org.example.Nope")
	testutil.WriteFile(t, p.Path("app", "libs", "broken.jar"), "not a zip")

	b := match.NewBuilder()
	added := New(nil, nil).Locate(p.ModuleDir("app"), "com.vendor.Client", b)

	require.Equal(t, 2, added)
	results := b.Results()
	require.Len(t, results, 2)

	assert.Equal(t, vendorJar, results[0].Location)
	assert.Equal(t, "FLATDIR::vendor-sdk.jar", results[0].Coordinate)
	assert.Equal(t, "com.vendor.Client", results[0].ClassName)
	assert.False(t, results[0].IsLocal)
	assert.Equal(t, match.TierFlatDir, results[0].Tier)
	assert.Empty(t, results[0].SourceLocation)

	assert.Equal(t, libJar, results[1].Location)
}

func TestLocator_Locate_SkipsExistingLocations(t *testing.T) {
	p := testutil.NewProject(t)
	jar := p.WriteClassJar("libs/dup.jar", "com.example.Foo")

	b := match.NewBuilder()
	b.Append(match.Result{Location: jar, Coordinate: "com.example:dup:1.0", Tier: match.TierDependency})

	added := New(nil, nil).Locate(p.Root, "com.example.Foo", b)

	assert.Equal(t, 0, added)
	assert.Equal(t, 1, b.Len())
}

func TestLocator_Locate_ModuleScoped(t *testing.T) {
	p := testutil.NewProject(t)
	p.WriteClassJar("libs/root-only.jar", "com.example.Foo")
	p.WriteBuildFile("app", "build.gradle", "// no flat dirs\n")

	b := match.NewBuilder()
	added := New(nil, nil).Locate(p.ModuleDir("app"), "com.example.Foo", b)

	assert.Equal(t, 0, added, "parent module's libs must not be scanned")
}

func TestLocator_Locate_MissingModuleDir(t *testing.T) {
	b := match.NewBuilder()
	added := New(nil, nil).Locate(filepath.Join(t.TempDir(), "nope"), "com.example.Foo", b)

	assert.Equal(t, 0, added)
	assert.Empty(t, b.Results())
}
