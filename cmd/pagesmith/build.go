package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pagesmith/pagesmith"
)

var buildForce bool

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Render the site into the output directory",
	Long: `Build loads markdown documents from the content directory, resolves
each document's layout, and writes static HTML pages, tag listings,
sitemap.xml, feed.xml, and robots.txt into the output directory.
Documents whose source is unchanged since the last build are skipped
unless --force is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := pagesmith.LoadConfig(".")
		if err != nil {
			return err
		}
		res, err := pagesmith.Build(cfg, pagesmith.BuildOptions{Force: buildForce})
		if err != nil {
			return err
		}
		fmt.Printf("Built %d pages (%d unchanged, %d pruned) into %s\n",
			res.Rendered, res.Skipped, res.Pruned, cfg.OutputDir)
		return nil
	},
}

func init() {
	buildCmd.Flags().BoolVar(&buildForce, "force", false, "re-render every page, ignoring the build manifest")
}
