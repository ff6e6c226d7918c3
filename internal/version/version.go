// Package version reports the build identity of the termfolio binary.
package version

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"
)

const defaultModule = "github.com/nolindnaidoo/termfolio"

// buildVersion is set via -ldflags "-X github.com/nolindnaidoo/termfolio/internal/version.buildVersion=...".
var buildVersion = ""

// Info describes the running build.
type Info struct {
	Module   string
	Version  string
	Revision string
	Time     time.Time
	Dirty    bool
}

// Read collects build information, preferring the linker-provided version.
func Read() Info {
	info := Info{Module: defaultModule}
	bi, ok := debug.ReadBuildInfo()
	if ok {
		if path := strings.TrimSpace(bi.Main.Path); path != "" {
			info.Module = path
		}
		info.Revision, info.Time, info.Dirty = vcsSettings(bi.Settings)
	}
	switch {
	case strings.TrimSpace(buildVersion) != "":
		info.Version = strings.TrimSpace(buildVersion)
	case ok && bi.Main.Version != "" && bi.Main.Version != "(devel)":
		info.Version = bi.Main.Version
	default:
		info.Version = pseudoVersion(info.Revision, info.Time)
	}
	return info
}

// Current returns the version without a dirty marker.
func Current() string {
	return strings.TrimSuffix(Read().Version, "+dirty")
}

// String renders the version, marking uncommitted builds.
func (i Info) String() string {
	v := strings.TrimSuffix(i.Version, "+dirty")
	if i.Dirty {
		v += "+dirty"
	}
	if i.Revision == "" {
		return v
	}
	return fmt.Sprintf("%s (%s)", v, shortRevision(i.Revision))
}

func vcsSettings(settings []debug.BuildSetting) (revision string, at time.Time, dirty bool) {
	for _, setting := range settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.time":
			if parsed, err := time.Parse(time.RFC3339, setting.Value); err == nil {
				at = parsed
			}
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	return revision, at, dirty
}

func pseudoVersion(revision string, at time.Time) string {
	if revision == "" || at.IsZero() {
		return "v0.0.0-unknown"
	}
	return "v0.0.0-" + at.UTC().Format("20060102150405") + "-" + shortRevision(revision)
}

func shortRevision(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}
