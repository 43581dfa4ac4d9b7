package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/lessonkit/internal/export"
	"github.com/abhisek/lessonkit/internal/generation"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate lesson materials without the interactive UI",
	Example: "  lessonkit generate --title \"The Alamo\" --info-file notes.md\n" +
		"  lessonkit generate --info \"Texas Revolution, grade 7\" --output alamo.zip",
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := generateInput(cmd)
		if err != nil {
			return err
		}

		d, err := buildDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		ctx := cmd.Context()
		in.Reference = d.reference.LoadOrEmpty(ctx, d.cfg.ReferenceDir)

		w := cmd.OutOrStdout()
		out, err := d.pipeline.Run(ctx, in, func(ev generation.Event) {
			printEvent(w, ev)
		})
		if err != nil {
			return err
		}

		output, _ := cmd.Flags().GetString("output")
		path := output
		if path == "" {
			path, err = export.SaveArchive(out, d.cfg.OutputDir)
		} else {
			if dir := filepath.Dir(path); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("create output directory: %w", err)
				}
			}
			err = export.SaveFile(out, path)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "\nSaved %s\n", path)

		if failed := out.Failed(); len(failed) > 0 {
			names := make([]string, len(failed))
			for i, s := range failed {
				names[i] = s.Label()
			}
			return fmt.Errorf("%d stage(s) failed: %s", len(failed), strings.Join(names, ", "))
		}
		return nil
	},
}

// generateInput collects the lesson fields from flags. --info-file "-"
// reads standard input.
func generateInput(cmd *cobra.Command) (generation.Input, error) {
	title, _ := cmd.Flags().GetString("title")
	info, _ := cmd.Flags().GetString("info")
	infoFile, _ := cmd.Flags().GetString("info-file")
	resources, _ := cmd.Flags().GetString("resources")

	if infoFile != "" {
		if info != "" {
			return generation.Input{}, errors.New("use either --info or --info-file, not both")
		}
		var data []byte
		var err error
		if infoFile == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(infoFile)
		}
		if err != nil {
			return generation.Input{}, fmt.Errorf("read lesson information: %w", err)
		}
		info = string(data)
	}

	in := generation.Input{
		Title:               title,
		LessonInfo:          info,
		AdditionalResources: resources,
	}
	if err := in.Validate(); err != nil {
		return generation.Input{}, err
	}
	return in, nil
}

func printEvent(w io.Writer, ev generation.Event) {
	step := fmt.Sprintf("[%d/%d]", ev.Index+1, ev.Total)
	if !ev.Done {
		fmt.Fprintf(w, "%s %s...\n", step, ev.Stage.Title())
		return
	}
	if ev.Result.OK() {
		fmt.Fprintf(w, "%s %s done\n", step, ev.Stage.Title())
		return
	}
	fmt.Fprintf(w, "%s %s failed: %v\n", step, ev.Stage.Title(), ev.Result.Err)
}

func init() {
	f := generateCmd.Flags()
	f.String("title", "", "Lesson title")
	f.String("info", "", "Lesson information")
	f.String("info-file", "", "Read lesson information from a file (\"-\" for stdin)")
	f.String("resources", "", "Additional resources")
	f.StringP("output", "o", "", "Archive path (default: <output-dir>/<title>_lesson_materials.zip)")
}
