// Command hackerstories fetches, filters and dismisses Hacker News stories.
package main

import (
	"os"

	"github.com/roach88/hackerstories/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(cli.GetExitCode(err))
	}
}
