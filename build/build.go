// Package build describes the running binary. Release builds inject a JSON
// blob with -ldflags; other builds fall back to what the Go toolchain records.
package build

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sort"
	"strings"
)

// Info contains build metadata.
type Info struct {
	Version      string            `json:"version"`
	GitCommit    string            `json:"git_commit"` //nolint:tagliatelle
	GitDate      string            `json:"git_date"`   //nolint:tagliatelle
	BuildTime    string            `json:"build_time"` //nolint:tagliatelle
	GoVersion    string            `json:"go_version"` //nolint:tagliatelle
	Dependencies map[string]string `json:"dependencies"`
}

// Parse deserializes a JSON string into build Info.
// Returns (nil, false) if the input is empty, "{}", or fails to parse.
func Parse(js string) (*Info, bool) {
	if js == "" || js == "{}" {
		return nil, false
	}

	var info Info

	err := json.Unmarshal([]byte(js), &info)
	if err != nil {
		slog.Warn("Failed to parse build info from JSON",
			"data", js,
			"error", err)

		return nil, false
	}

	return &info, true
}

// Current returns the injected build info if injected parses, and otherwise
// the module and VCS data embedded by the toolchain.
func Current(injected string) Info {
	if info, ok := Parse(injected); ok {
		return *info
	}

	embedded, ok := debug.ReadBuildInfo()
	if !ok {
		return Info{Version: "unknown"}
	}

	return fromBuildInfo(embedded)
}

func fromBuildInfo(embedded *debug.BuildInfo) Info {
	info := Info{
		Version:      embedded.Main.Version,
		GoVersion:    embedded.GoVersion,
		Dependencies: make(map[string]string, len(embedded.Deps)),
	}

	for _, setting := range embedded.Settings {
		switch setting.Key {
		case "vcs.revision":
			info.GitCommit = setting.Value
		case "vcs.time":
			info.GitDate = setting.Value
		}
	}

	for _, dep := range embedded.Deps {
		info.Dependencies[dep.Path] = dep.Version
	}

	return info
}

// String renders a one-line summary, e.g. "v1.2.0 (abc1234, go1.25.0)".
func (i Info) String() string {
	version := i.Version
	if version == "" {
		version = "(devel)"
	}

	var details []string

	if i.GitCommit != "" {
		details = append(details, shortCommit(i.GitCommit))
	}

	if i.GoVersion != "" {
		details = append(details, i.GoVersion)
	}

	if len(details) == 0 {
		return version
	}

	return fmt.Sprintf("%s (%s)", version, strings.Join(details, ", "))
}

// DependencyList returns "path version" lines sorted by module path.
func (i Info) DependencyList() []string {
	out := make([]string, 0, len(i.Dependencies))
	for path, version := range i.Dependencies {
		out = append(out, path+" "+version)
	}

	sort.Strings(out)

	return out
}

func shortCommit(commit string) string {
	const short = 7

	if len(commit) > short {
		return commit[:short]
	}

	return commit
}
