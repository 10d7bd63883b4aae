// Package version reports build metadata for kandy.
package version

import (
	"fmt"
	"runtime/debug"
)

// Set with -ldflags "-X github.com/example/kandy/internal/version.Version=..." and friends.
var (
	Version   = "dev"
	Commit    = ""
	BuildTime = "unknown"
)

// String returns "kandy <version> (commit: <sha>, built: <time>)". Without an
// ldflags commit it falls back to the VCS revision stamped by the Go toolchain.
func String() string {
	return fmt.Sprintf("kandy %s (commit: %s, built: %s)", Version, commit(), BuildTime)
}

func commit() string {
	c := Commit
	if c == "" {
		c = "unknown"
		if info, ok := debug.ReadBuildInfo(); ok {
			for _, s := range info.Settings {
				if s.Key == "vcs.revision" {
					c = s.Value
				}
			}
		}
	}
	if len(c) > 7 {
		return c[:7]
	}
	return c
}
