package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

const unknown = "unknown"

var (
	// These variables may be set at build time using ldflags
	Version   = "dev"
	GitCommit = unknown
	BuildDate = unknown
)

// Info holds version information
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	BuildDate string `json:"buildDate"`
	Modified  bool   `json:"modified"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

// Get returns version information. Fields not set through ldflags are filled
// from the build info the go command embeds in the binary.
func Get() Info {
	info := Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info = info.withBuildInfo(bi)
	}
	return info
}

func (i Info) withBuildInfo(bi *debug.BuildInfo) Info {
	if i.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		i.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if i.GitCommit == unknown {
				i.GitCommit = s.Value
			}
		case "vcs.time":
			if i.BuildDate == unknown {
				i.BuildDate = s.Value
			}
		case "vcs.modified":
			i.Modified = s.Value == "true"
		}
	}
	return i
}

// String returns a human-readable version string
func (i Info) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "gis version %s\n", i.Version)
	commit := i.GitCommit
	if i.Modified {
		commit += " (modified)"
	}
	fmt.Fprintf(&b, "Git commit: %s\nBuild date: %s\nGo version: %s\nPlatform: %s", commit, i.BuildDate, i.GoVersion, i.Platform)
	return b.String()
}
