package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the jobfinder version",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Fprintf(os.Stdout, "jobfinder %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
