package main

import (
	"os"

	"github.com/harmonyconnect/harmony-sdk-go/cmd/harmony-cli/cmd"
)

var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := cmd.Execute(Version, GitCommit, BuildTime); err != nil {
		os.Exit(1)
	}
}
