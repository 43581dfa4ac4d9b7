package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/lessonkit/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the lesson generator as a web page",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = d.cfg.Addr
		}
		origins, _ := cmd.Flags().GetStringSlice("allow-origin")

		srv, err := web.New(web.Options{
			Pipeline:     d.pipeline,
			Reference:    d.reference,
			ReferenceDir: d.cfg.ReferenceDir,
			Provider:     d.providerLabel(),
			ServiceName:  "lessonkit",
			AllowOrigins: trimAll(origins),
			Log:          d.log,
		})
		if err != nil {
			return err
		}
		return srv.Run(cmd.Context(), addr)
	},
}

func trimAll(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides LESSONKIT_ADDR)")
	serveCmd.Flags().StringSlice("allow-origin", nil, "CORS origins allowed to call the API")
}
