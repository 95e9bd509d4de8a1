package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pagesmith/pagesmith"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Build the site and serve it locally with live rebuild",
	Long: `Serve builds the site, serves the output directory, and rebuilds on
changes to content, layouts, or static assets. Drafts (published: false)
never reach the build output but are previewable under /drafts/.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := pagesmith.LoadConfig(".")
		if err != nil {
			return err
		}
		if serveAddr != "" {
			cfg.Addr = serveAddr
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		fmt.Printf("Serving %s on %s\n", cfg.Name, cfg.Addr)
		return pagesmith.Serve(ctx, cfg)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides site.yaml)")
}
