package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/lessonkit/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "lessonkit",
	Short: "Lesson material generator for social-studies developers",
	Long: "lessonkit turns a lesson title and notes into a blueprint, a 56-item assessment,\n" +
		"media suggestions and fact-check/DEI reviews, exported as Word documents.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// Execute runs the command tree. SIGINT and SIGTERM cancel the context
// handed to every command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	f := rootCmd.PersistentFlags()
	f.String("env-file", ".env", "Path to the .env file")
	f.String("db", "", "Path to the LLM request log (overrides LESSONKIT_DB; \"off\" disables it)")
	f.String("provider", "", "LLM provider: gemini, openai, anthropic, openrouter or mock")
	f.String("on-failure", "", "What to do when a stage fails: halt or continue")
	f.String("reference-dir", "", "Directory with reference materials")
	f.String("reference-pattern", "", "Glob selecting reference files by name")
	f.String("output-dir", "", "Directory where the terminal UI saves archives")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the request log path using the --db flag (highest
// priority), then the LESSONKIT_DB value, then the default XDG path. An
// empty result means the log is disabled.
func resolveDBPath(cmd *cobra.Command, fromEnv string) (string, error) {
	p, _ := cmd.Flags().GetString("db")
	if p == "" {
		p = fromEnv
	}
	switch strings.ToLower(strings.TrimSpace(p)) {
	case "off", "none", "false", "0":
		return "", nil
	case "":
		return store.DefaultDBPath()
	}
	return p, nil
}
