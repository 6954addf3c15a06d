package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dejayillegal/JobFinder-Pro/internal/config"
	"github.com/dejayillegal/JobFinder-Pro/internal/store"
	"github.com/dejayillegal/JobFinder-Pro/internal/types"
)

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List stored matches for a candidate profile",
	Long:  "List the stored match results for a candidate profile, sorted by total score descending, with the per-factor explanation for each.",
	RunE:  runMatches,
}

var (
	matchesProfileID string
	matchesMinScore  float64
	matchesLimit     int
	matchesAsJSON    bool
)

func init() {
	matchesCmd.Flags().StringVar(&matchesProfileID, "profile-id", "", "Candidate profile UUID")
	matchesCmd.Flags().Float64Var(&matchesMinScore, "min-score", 0, "Only show matches at or above this score (default: configured threshold)")
	matchesCmd.Flags().IntVar(&matchesLimit, "limit", 20, "Maximum matches to print")
	matchesCmd.Flags().BoolVar(&matchesAsJSON, "json", false, "Print matches as JSON")
	_ = matchesCmd.MarkFlagRequired("profile-id")

	rootCmd.AddCommand(matchesCmd)
}

func runMatches(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("matches requires a database (set database_url or DATABASE_URL)")
	}

	profileID, err := uuid.Parse(matchesProfileID)
	if err != nil {
		return fmt.Errorf("invalid profile-id: %w", err)
	}

	minScore := resolveMinScore(cmd.Flags(), cfg)

	ctx := context.Background()
	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	matches, err := st.ListMatches(ctx, profileID, minScore)
	if err != nil {
		return fmt.Errorf("failed to list matches: %w", err)
	}
	if len(matches) > matchesLimit {
		matches = matches[:matchesLimit]
	}

	if matchesAsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(matches)
	}

	if len(matches) == 0 {
		fmt.Fprintf(os.Stdout, "No matches at or above %.0f\n", minScore)
		return nil
	}
	printMatches(ctx, st, matches)
	return nil
}

// resolveMinScore honors an explicitly set --min-score, including zero, and
// falls back to the configured threshold otherwise.
func resolveMinScore(flags *pflag.FlagSet, cfg *config.Config) float64 {
	if flags.Changed("min-score") {
		if v, err := flags.GetFloat64("min-score"); err == nil {
			return v
		}
	}
	return cfg.EffectiveMinScore()
}

// printMatches renders matches with their posting identity and explanation.
// A posting missing from the store still prints by fingerprint.
func printMatches(ctx context.Context, st store.Store, matches []types.MatchResult) {
	for i, m := range matches {
		title := m.JobFingerprint
		if posting, err := st.GetPosting(ctx, m.JobFingerprint); err == nil {
			title = fmt.Sprintf("%s at %s (%s)", posting.Title, posting.Company, posting.Location)
		}
		fmt.Fprintf(os.Stdout, "%2d. [%5.1f] %s\n", i+1, m.TotalScore, title)
		for _, f := range m.Explanation {
			fmt.Fprintf(os.Stdout, "      %-10s %5.1f\n", f.Name, f.Contribution)
		}
	}
}
