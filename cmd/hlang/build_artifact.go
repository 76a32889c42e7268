package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newBuildArtifactCommand(log *logrus.Logger) *cobra.Command {
	if log == nil {
		log = logrus.StandardLogger()
	}
	var outDir string

	cmd := &cobra.Command{
		Use:   "build-artifact <hlang_artifact.json>",
		Short: "Compile an artifact's modules to the backend's intermediate representation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadPipeline(args[0])
			if err != nil {
				return err
			}

			outputs, err := p.compileAll(outDir)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s artifact %s: %d module(s) compiled\n", green("ok"), bold(p.artifact.Name), len(outputs))
			for _, out := range outputs {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", out)
			}
			log.WithField("artifact", p.artifact.Name).WithField("modules", len(outputs)).Info("build-artifact complete")
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "build", "directory to write compiled module IR into")
	return cmd
}
