package main

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hlang-toolchain/hlang/internal/jit"
	"github.com/hlang-toolchain/hlang/internal/watcher"
)

// noopTestRunner satisfies jit.TestRunner without discovering or running
// any tests: test-block discovery is surface-parser territory, out of
// scope here the same way the SourceParser itself is.
type noopTestRunner struct{}

func (noopTestRunner) RunTests(moduleName string) error { return nil }

func newWatchCommand(log *logrus.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <hlang_artifact.json>",
		Short: "Recompile and hot-swap an artifact's modules as their source files change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadPipeline(args[0])
			if err != nil {
				return err
			}
			target, err := p.artifact.Target()
			if err != nil {
				return err
			}

			runner := jit.NewRunner(p.target, p.engine, noopTestRunner{})
			loop, err := jit.NewWatchLoop(p.loader, runner, log)
			if err != nil {
				return fmt.Errorf("starting watch loop: %w", err)
			}
			defer loop.Close()

			for _, root := range watcher.RootsForGlobs(target.Include) {
				fullRoot := filepath.Join(p.baseDir, root)
				if err := loop.AddRoot(fullRoot); err != nil {
					return fmt.Errorf("watching %s: %w", fullRoot, err)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s watching %s for changes (ctrl-c to stop)\n", green("ok"), bold(p.artifact.Name))

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return loop.Run(ctx)
		},
	}
	return cmd
}
