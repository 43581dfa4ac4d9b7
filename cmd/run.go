package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/lessonkit/internal/app"
)

// runApp builds dependencies and launches the terminal UI.
func runApp(cmd *cobra.Command) error {
	d, err := buildDeps(cmd, true)
	if err != nil {
		return err
	}
	defer d.Close()

	return app.Run(cmd.Context(), app.Options{
		Pipeline:     d.pipeline,
		Reference:    d.reference,
		ReferenceDir: d.cfg.ReferenceDir,
		OutputDir:    d.cfg.OutputDir,
		Provider:     d.providerLabel(),
	})
}
