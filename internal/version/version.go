package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set via ldflags at release time. When built with plain `go install`
// the module build info fills in what it can.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Short returns the bare version string
func Short() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}

// Info returns the full multi-line version report
func Info() string {
	return fmt.Sprintf(
		"simscan %s\nCommit: %s\nBuilt: %s\nGo: %s\nOS/Arch: %s/%s",
		Short(),
		commit(),
		Date,
		runtime.Version(),
		runtime.GOOS,
		runtime.GOARCH,
	)
}

func commit() string {
	if Commit != "unknown" {
		return Commit
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				return setting.Value
			}
		}
	}
	return Commit
}
