// Package buildinfo reports the version of the running binary.
//
// Release builds inject values with -ldflags, e.g.
//
//	go build -ldflags "-X github.com/aikit/nbgov/internal/buildinfo.Version=v0.3.0"
//
// Local builds fall back to the module and VCS data embedded by the Go
// toolchain.
package buildinfo

import (
	"runtime"
	"runtime/debug"
	"strings"
)

// Set with -ldflags in release builds.
var (
	Version = ""
	Commit  = ""
	Date    = ""
)

// ModulePath is the module path reported when build info is unavailable.
const ModulePath = "github.com/aikit/nbgov"

// Info describes the running binary.
type Info struct {
	Version    string `json:"version"`
	ModulePath string `json:"module_path"`
	Commit     string `json:"commit,omitempty"`
	CommitTime string `json:"commit_time,omitempty"`
	Modified   bool   `json:"modified"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

var readBuildInfo = debug.ReadBuildInfo

// Current returns the binary's build information. Toolchain data wins over
// ldflags values, which only fill gaps.
func Current() Info {
	info := Info{
		Version:    "devel",
		ModulePath: ModulePath,
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
	}
	if bi, ok := readBuildInfo(); ok && bi != nil {
		fromBuildInfo(&info, bi)
	}

	if info.Version == "devel" && Version != "" {
		info.Version = normalize(Version)
	}
	if info.Commit == "" {
		info.Commit = Commit
	}
	if info.CommitTime == "" {
		info.CommitTime = Date
	}
	return info
}

func fromBuildInfo(info *Info, bi *debug.BuildInfo) {
	if bi.Main.Path != "" {
		info.ModulePath = bi.Main.Path
	}
	info.Version = normalize(bi.Main.Version)
	if bi.GoVersion != "" {
		info.GoVersion = bi.GoVersion
	}
	settings := make(map[string]string, len(bi.Settings))
	for _, s := range bi.Settings {
		settings[s.Key] = s.Value
	}
	if goos, goarch := settings["GOOS"], settings["GOARCH"]; goos != "" && goarch != "" {
		info.Platform = goos + "/" + goarch
	}
	info.Commit = settings["vcs.revision"]
	info.CommitTime = settings["vcs.time"]
	info.Modified = strings.EqualFold(settings["vcs.modified"], "true")
}

func normalize(v string) string {
	if v == "" || v == "(devel)" {
		return "devel"
	}
	return v
}
