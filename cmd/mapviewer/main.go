package main

import "github.com/cliftbar/mapviewer/internal/cli"

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	cli.SetVersionInfo(Version, BuildDate, GitCommit)
	cli.Execute()
}
