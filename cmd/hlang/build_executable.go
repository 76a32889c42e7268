package main

import (
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hlang-toolchain/hlang/internal/linker"
)

func newBuildExecutableCommand(log *logrus.Logger) *cobra.Command {
	if log == nil {
		log = logrus.StandardLogger()
	}
	var outDir, outputPath, linkerProgram string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "build-executable <hlang_artifact.json>",
		Short: "Compile an artifact and link it into an executable",
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

			objects, err := p.compileAll(outDir)
			if err != nil {
				return err
			}

			var searchPaths, libs []string
			for name, path := range target.ExternalLibrary {
				searchPaths = append(searchPaths, filepath.Dir(path))
				libs = append(libs, name)
			}

			if outputPath == "" {
				outputPath = filepath.Join(outDir, p.artifact.Name)
			}

			l := linker.New(linkerProgram)
			result, err := l.Link(linker.Options{
				ObjectFiles:        objects,
				LibrarySearchPaths: searchPaths,
				Libraries:          libs,
				EntryPoint:         target.EntryPoint,
				Type:               linker.ExecutableLink,
				OutputPath:         outputPath,
				DryRun:             dryRun,
			})
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s linking %s:\n%s\n", red("error"), p.artifact.Name, result.Stderr)
				return err
			}

			for _, w := range l.GetWarnings() {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", yellow("warning"), w)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s built %s -> %s\n", green("ok"), bold(p.artifact.Name), outputPath)
			log.WithField("artifact", p.artifact.Name).WithField("output", outputPath).Info("build-executable complete")
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "build", "directory to write compiled module IR into")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "path of the linked executable (default: <out>/<artifact name>)")
	cmd.Flags().StringVar(&linkerProgram, "linker", "cc", "linker driver program to invoke")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "build the link command without executing it")
	return cmd
}
