package version

import (
	"fmt"
	"runtime"
)

// Version information - using semantic versioning
const (
	Major      = 0
	Minor      = 3
	Patch      = 0
	PreRelease = "" // e.g., "alpha", "beta", "rc1"
)

// Set at build time with -ldflags "-X github.com/pumpbrain/pumpbrain/pkg/version.GitCommit=...".
var (
	GitCommit = ""
	BuildDate = ""
)

// Name is the product name reported by /healthz and the CLI.
const Name = "PumpBrain"

// Version returns the semantic version string
func Version() string {
	version := fmt.Sprintf("%d.%d.%d", Major, Minor, Patch)
	if PreRelease != "" {
		version += "-" + PreRelease
	}
	return version
}

// BuildInfo contains comprehensive build information
type BuildInfo struct {
	Name       string `json:"name"`
	Version    string `json:"version"`
	PreRelease string `json:"pre_release,omitempty"`
	GitCommit  string `json:"git_commit,omitempty"`
	BuildDate  string `json:"build_date,omitempty"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

// GetBuildInfo returns complete build information
func GetBuildInfo() *BuildInfo {
	return &BuildInfo{
		Name:       Name,
		Version:    Version(),
		PreRelease: PreRelease,
		GitCommit:  GitCommit,
		BuildDate:  BuildDate,
		GoVersion:  runtime.Version(),
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// GetVersionString returns a formatted version string
func GetVersionString() string {
	buildInfo := GetBuildInfo()
	if len(buildInfo.GitCommit) >= 7 {
		return fmt.Sprintf("%s (%s)", buildInfo.Version, buildInfo.GitCommit[:7])
	}
	return buildInfo.Version
}

// GetFullVersionString returns a complete version string with build info
func GetFullVersionString() string {
	buildInfo := GetBuildInfo()
	result := fmt.Sprintf("%s v%s", buildInfo.Name, GetVersionString())
	if buildInfo.BuildDate != "" {
		result += fmt.Sprintf(" (built: %s)", buildInfo.BuildDate)
	}
	result += fmt.Sprintf(" (go: %s, platform: %s)", buildInfo.GoVersion, buildInfo.Platform)
	return result
}
