package version

import (
	"strings"
	"testing"
)

func TestVersionDefault(t *testing.T) {
	if Version == "" {
		t.Error("Version must have a default value")
	}
	if !strings.HasSuffix(Version, "-dev") {
		t.Errorf("unreleased builds must carry the -dev suffix, got %q", Version)
	}
}

func TestVersionLdflagsOverride(t *testing.T) {
	origCommit, origDate := GitCommit, BuildDate
	defer func() {
		GitCommit, BuildDate = origCommit, origDate
	}()

	GitCommit = "abc123def456"
	BuildDate = "2026-08-23T10:30:00Z"
	if GitCommit != "abc123def456" || BuildDate != "2026-08-23T10:30:00Z" {
		t.Error("build metadata variables must be assignable for -ldflags")
	}
}
