// Package main provides the entry point for the JobFinder Pro CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jobfinder",
	Short: "Job aggregation and explainable matching engine",
	Long:  "JobFinder Pro parses resumes into candidate profiles, aggregates job postings from multiple sources into a deduplicated store, and ranks them with explainable scores.",
}

var (
	flagConfig  string
	flagVerbose bool
	flagJSON    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to JSON config file")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json-logs", false, "Emit logs as JSON")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
