// Package version holds the build version of pyedit.
package version

import "runtime/debug"

// Overridden at build time:
// go build -ldflags "-X pyedit/internal/version.Version=0.3.0 -X pyedit/internal/version.Commit=abc123"
var (
	Version   = "0.1.0"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Info returns the version with a short commit suffix when known.
func Info() string {
	if Commit != "unknown" && len(Commit) > 7 {
		return Version + " (" + Commit[:7] + ")"
	}
	return Version
}

// Full returns complete version information, including the tree-sitter
// binding the binary was built against.
func Full() string {
	return "pyedit version " + Version + "\n" +
		"Commit: " + Commit + "\n" +
		"Built: " + BuildDate + "\n" +
		"Parser: " + parserModule()
}

func parserModule() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, dep := range info.Deps {
		if dep.Path == "github.com/smacker/go-tree-sitter" {
			return dep.Path + " " + dep.Version
		}
	}
	return "unknown"
}
