package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func stubBuildInfo(t *testing.T, revision string) {
	t.Helper()
	orig := readBuildInfo
	t.Cleanup(func() { readBuildInfo = orig })
	readBuildInfo = func() (*debug.BuildInfo, bool) {
		if revision == "" {
			return nil, false
		}
		return &debug.BuildInfo{Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: revision}}}, true
	}
}

func TestInfo(t *testing.T) {
	origVersion, origCommit := Version, Commit
	t.Cleanup(func() { Version, Commit = origVersion, origCommit })

	tests := []struct {
		name     string
		commit   string
		revision string
		want     string
	}{
		{name: "unknown commit", commit: "unknown", want: "1.0.0"},
		{name: "short commit", commit: "abc", want: "1.0.0"},
		{name: "ldflags commit", commit: "abcdef1234567", want: "1.0.0 (abcdef1)"},
		{name: "vcs revision", commit: "unknown", revision: "0123456789abcdef", want: "1.0.0 (0123456)"},
		{name: "ldflags wins", commit: "fedcba9876543", revision: "0123456789abcdef", want: "1.0.0 (fedcba9)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubBuildInfo(t, tt.revision)
			Version, Commit = "1.0.0", tt.commit
			if got := Info(); got != tt.want {
				t.Errorf("Info() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFull(t *testing.T) {
	stubBuildInfo(t, "")
	got := Full()
	for _, want := range []string{"gcf version " + Version, "Commit: " + Commit, "Built: " + BuildDate} {
		if !strings.Contains(got, want) {
			t.Errorf("Full() = %q, missing %q", got, want)
		}
	}
}
