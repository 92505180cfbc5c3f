package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInfo_withBuildInfo(t *testing.T) {
	req := require.New(t)

	bi := &debug.BuildInfo{
		Main: debug.Module{Path: "github.com/siyuan-infoblox/go-imports-sorter", Version: "v1.2.3"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2025-01-02T03:04:05Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}

	info := Info{Version: "dev", GitCommit: unknown, BuildDate: unknown}.withBuildInfo(bi)
	req.Equal("v1.2.3", info.Version)
	req.Equal("abc123", info.GitCommit)
	req.Equal("2025-01-02T03:04:05Z", info.BuildDate)
	req.True(info.Modified)
	req.Contains(info.String(), "Git commit: abc123 (modified)")

	// ldflags values win over build info
	info = Info{Version: "v9.0.0", GitCommit: "deadbeef", BuildDate: "today"}.withBuildInfo(bi)
	req.Equal("v9.0.0", info.Version)
	req.Equal("deadbeef", info.GitCommit)
	req.Equal("today", info.BuildDate)

	// local builds report (devel)
	bi.Main.Version = "(devel)"
	info = Info{Version: "dev"}.withBuildInfo(bi)
	req.Equal("dev", info.Version)
}

func TestGet(t *testing.T) {
	req := require.New(t)
	info := Get()
	req.NotEmpty(info.Version)
	req.NotEmpty(info.GoVersion)
	req.Contains(info.String(), "gis version ")
}
