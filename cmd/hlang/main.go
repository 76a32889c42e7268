// Command hlang drives the toolchain's build and hot-reload pipelines
// from the command line: loading artifact manifests, running the
// recompilation engine over a module set, linking the result, and
// watching a source tree for edits.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version info, set by ldflags during release builds.
var (
	Version = "dev"
	Commit  = "unknown"
)

var (
	red    = color.New(color.FgRed).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func newRootCommand() *cobra.Command {
	log := logrus.StandardLogger()

	root := &cobra.Command{
		Use:     "hlang",
		Short:   "hlang compiler toolchain",
		Version: fmt.Sprintf("%s (%s)", Version, Commit),
	}
	root.SetVersionTemplate(fmt.Sprintf("%s %s\n", bold("hlang"), "{{.Version}}"))

	root.AddCommand(newBuildArtifactCommand(log))
	root.AddCommand(newBuildExecutableCommand(log))
	root.AddCommand(newWatchCommand(log))

	return root
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("error"), err)
		os.Exit(1)
	}
}
