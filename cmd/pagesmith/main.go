package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:           "pagesmith",
	Short:         "pagesmith is a static-site publishing engine for markdown blogs",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the pagesmith version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pagesmith %s\n", version)
	},
}

func main() {
	rootCmd.AddCommand(buildCmd, serveCmd, newCmd, versionCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
