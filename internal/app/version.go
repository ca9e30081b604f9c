package app

import (
	"fmt"
	"runtime/debug"
)

// Version, Commit, and BuildTime are set via ldflags at build time.
// Example: go build -ldflags "-X github.com/petboarding/petboarding-backend/internal/app.Version=1.0.0"
// When Commit is not set, the VCS revision recorded by the Go toolchain is used.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// BuildVersion returns a formatted version string for startup logs, the
// /health endpoint and petboardingctl --version.
func BuildVersion() string {
	commit, built := Commit, BuildTime
	if commit == "unknown" {
		if rev, at, ok := vcsInfo(); ok {
			commit, built = rev, at
		}
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, commit, built)
}

func vcsInfo() (revision, at string, ok bool) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", "", false
	}
	at = BuildTime
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.time":
			at = s.Value
		}
	}
	if len(revision) > 12 {
		revision = revision[:12]
	}
	return revision, at, revision != ""
}
