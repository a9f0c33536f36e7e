// Package version reports the consolidator build: the ldflags-stamped values
// when present, otherwise whatever the Go toolchain embedded in the binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Stamped at release time, e.g.
// go build -ldflags "-X 'consolidator/pkg/version.Version=1.2.3' -X 'consolidator/pkg/version.Commit=abcdefg'"
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// AppName is the name reported in logs and version output.
const AppName = "consolidator"

// Info describes one build of the binary.
type Info struct {
	Version   string
	GitCommit string
	BuildTime string
	Modified  bool // Built from a dirty work tree.
	GoVersion string
	Platform  string
}

// Get returns the build information. Fields left at their unstamped
// defaults are filled from the embedded module and VCS metadata.
func Get() Info {
	info := Info{
		Version:   Version,
		GitCommit: Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info.fillFrom(bi)
	}
	return info
}

func (i *Info) fillFrom(bi *debug.BuildInfo) {
	if i.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		i.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if i.GitCommit == "none" {
				i.GitCommit = shortRevision(s.Value)
			}
		case "vcs.time":
			if i.BuildTime == "unknown" {
				i.BuildTime = s.Value
			}
		case "vcs.modified":
			i.Modified = s.Value == "true"
		}
	}
}

func shortRevision(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}

// String renders the build on one line:
// consolidator version 1.2.3 (commit: abcdefg) built at 2024-04-27T15:04:05Z with go1.23.1 on linux/amd64
func (i Info) String() string {
	commit := i.GitCommit
	if i.Modified {
		commit += "-dirty"
	}
	return fmt.Sprintf("%s version %s (commit: %s) built at %s with %s on %s",
		AppName, i.Version, commit, i.BuildTime, i.GoVersion, i.Platform)
}
