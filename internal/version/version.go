// Package version carries build metadata stamped in by the release process.
package version

import (
	"fmt"
	"runtime"
)

// Overridden at build time via -ldflags "-X .../internal/version.Version=...".
var (
	Version   = "dev"
	GitCommit = ""
)

type Info struct {
	Version   string
	GitCommit string
	GoVersion string
	Platform  string
}

func Get() Info {
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}
