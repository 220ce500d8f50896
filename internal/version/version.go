// Package version reports build metadata for pagesmith binaries.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

// Set with -ldflags "-X github.com/conneroisu/pagesmith/internal/version.Version=...".
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string    `json:"version" yaml:"version"`
	GitCommit string    `json:"git_commit" yaml:"git_commit"`
	BuildTime time.Time `json:"build_time,omitempty" yaml:"build_time,omitempty"`
	GoVersion string    `json:"go_version" yaml:"go_version"`
	Platform  string    `json:"platform" yaml:"platform"`
	Modified  bool      `json:"modified,omitempty" yaml:"modified,omitempty"`
}

// GetBuildInfo combines linker-provided values with the module's embedded
// VCS settings.
func GetBuildInfo() *BuildInfo {
	info := &BuildInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: parseBuildTime(BuildTime),
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}

	if info.Version == "" || info.Version == "dev" {
		if v := bi.Main.Version; v != "" && v != "(devel)" {
			info.Version = v
		}
	}
	for _, setting := range bi.Settings {
		switch setting.Key {
		case "vcs.revision":
			if info.GitCommit == "" || info.GitCommit == "unknown" {
				info.GitCommit = setting.Value
			}
		case "vcs.time":
			if info.BuildTime.IsZero() {
				info.BuildTime = parseBuildTime(setting.Value)
			}
		case "vcs.modified":
			info.Modified = setting.Value == "true"
		}
	}

	return info
}

// GetVersion returns the application version
func GetVersion() string {
	return GetBuildInfo().Version
}

// GetShortVersion returns a short version string suitable for display
func GetShortVersion() string {
	info := GetBuildInfo()
	if len(info.GitCommit) < 7 || info.GitCommit == "unknown" {
		return info.Version
	}

	short := info.GitCommit[:7]
	if info.Version == "dev" {
		return "dev-" + short
	}
	return fmt.Sprintf("%s (%s)", info.Version, short)
}

// String renders info as the multi-line `version --detailed` output.
func (info *BuildInfo) String() string {
	lines := []string{"Version: " + info.Version}
	if info.GitCommit != "unknown" && info.GitCommit != "" {
		commit := info.GitCommit
		if info.Modified {
			commit += " (modified)"
		}
		lines = append(lines, "Commit: "+commit)
	}
	if !info.BuildTime.IsZero() {
		lines = append(lines, "Built: "+info.BuildTime.Format(time.RFC3339))
	}
	lines = append(lines, "Go: "+info.GoVersion, "Platform: "+info.Platform)
	return strings.Join(lines, "\n")
}

func parseBuildTime(s string) time.Time {
	if s == "" || s == "unknown" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
