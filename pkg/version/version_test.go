package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestFillFromBuildInfo(t *testing.T) {
	t.Parallel()

	info := Info{Version: "dev", GitCommit: "none", BuildTime: "unknown"}
	info.fillFrom(&debug.BuildInfo{
		Main: debug.Module{Version: "v1.4.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef0123"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	})

	if info.Version != "v1.4.0" || info.GitCommit != "0123456789ab" || info.BuildTime != "2026-01-02T03:04:05Z" || !info.Modified {
		t.Fatalf("fillFrom = %+v", info)
	}
	if !strings.Contains(info.String(), "(commit: 0123456789ab-dirty)") {
		t.Fatalf("String() = %q", info.String())
	}
}

func TestFillFromKeepsStampedValues(t *testing.T) {
	t.Parallel()

	info := Info{Version: "1.2.3", GitCommit: "abcdefg", BuildTime: "yesterday"}
	info.fillFrom(&debug.BuildInfo{
		Main:     debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "fffffff"}},
	})

	if info.Version != "1.2.3" || info.GitCommit != "abcdefg" || info.BuildTime != "yesterday" {
		t.Fatalf("stamped values were overwritten: %+v", info)
	}
	want := "consolidator version 1.2.3 (commit: abcdefg) built at yesterday"
	if !strings.HasPrefix(info.String(), want) {
		t.Fatalf("String() = %q, want prefix %q", info.String(), want)
	}
}
