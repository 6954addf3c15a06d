package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state and progress of a processing job",
	RunE:  runStatus,
}

var statusJobID string

func init() {
	statusCmd.Flags().StringVar(&statusJobID, "job-id", "", "Processing job UUID")
	_ = statusCmd.MarkFlagRequired("job-id")

	rootCmd.AddCommand(statusCmd)
}

func runStatus(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("status requires a database (set database_url or DATABASE_URL)")
	}

	jobID, err := uuid.Parse(statusJobID)
	if err != nil {
		return fmt.Errorf("invalid job-id: %w", err)
	}

	ctx := context.Background()
	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	job, err := st.GetProcessingJob(ctx, jobID)
	if err != nil {
		return fmt.Errorf("failed to get job: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(job.Status())
}
