package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dejayillegal/JobFinder-Pro/internal/connectors"
	"github.com/dejayillegal/JobFinder-Pro/internal/skills"
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Fetch and deduplicate job postings from all sources",
	Long:  "Run the aggregation stage standalone: query every configured source, normalize the results into canonical postings, and upsert them into the store.",
	RunE:  runAggregate,
}

var (
	aggregateKeywords string
	aggregateLocation string
	aggregatePage     int
)

func init() {
	aggregateCmd.Flags().StringVarP(&aggregateKeywords, "keywords", "k", "Software Engineer", "Search keywords")
	aggregateCmd.Flags().StringVarP(&aggregateLocation, "location", "l", "India", "Search location")
	aggregateCmd.Flags().IntVar(&aggregatePage, "page", 1, "Result page")

	rootCmd.AddCommand(aggregateCmd)
}

func runAggregate(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := buildLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	agg := buildAggregator(cfg, st, skills.NewCanonicalizer(), log)
	query := connectors.Query{
		Keywords: aggregateKeywords,
		Location: aggregateLocation,
		Page:     aggregatePage,
	}

	count, err := agg.Aggregate(ctx, query)
	if err != nil {
		return fmt.Errorf("aggregation failed: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Aggregated %d postings\n", count)
	return nil
}
