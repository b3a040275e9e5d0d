// Package version holds the build identity of gcf.
package version

import "runtime/debug"

// Set at build time:
// go build -ldflags "-X gcf/internal/version.Version=0.3.0 -X gcf/internal/version.Commit=abc123"
var (
	Version   = "0.1.0-dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// readBuildInfo is swapped in tests.
var readBuildInfo = debug.ReadBuildInfo

// commit returns Commit, or the VCS revision stamped by the Go toolchain
// when ldflags did not set one.
func commit() string {
	if Commit != "unknown" {
		return Commit
	}
	info, ok := readBuildInfo()
	if !ok {
		return Commit
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && s.Value != "" {
			return s.Value
		}
	}
	return Commit
}

// Info returns the version with a short commit when one is known.
func Info() string {
	if c := commit(); c != "unknown" && len(c) > 7 {
		return Version + " (" + c[:7] + ")"
	}
	return Version
}

// Full returns the multi-line form printed by "gcf version".
func Full() string {
	return "gcf version " + Version + "\n" +
		"Commit: " + commit() + "\n" +
		"Built: " + BuildDate
}
