package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/lessonkit/internal/document"
)

var renderCmd = &cobra.Command{
	Use:   "render <file.md>",
	Short: "Render a markdown-like text file into a Word document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src := args[0]
		data, err := os.ReadFile(src)
		if err != nil {
			return fmt.Errorf("read %s: %w", src, err)
		}

		base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
		title, _ := cmd.Flags().GetString("title")
		if title == "" {
			title = base
		}
		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			output = filepath.Join(filepath.Dir(src), base+".docx")
		}

		doc := document.Render(title, string(data))
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("create %s: %w", output, err)
		}
		if err := document.WriteDOCX(f, doc); err != nil {
			f.Close()
			os.Remove(output)
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close %s: %w", output, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d blocks)\n", output, len(doc.Blocks))
		return nil
	},
}

func init() {
	renderCmd.Flags().String("title", "", "Document title (default: file name)")
	renderCmd.Flags().StringP("output", "o", "", "Output path (default: next to the input)")
}
