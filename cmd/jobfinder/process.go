package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dejayillegal/JobFinder-Pro/internal/orchestrator"
	"github.com/dejayillegal/JobFinder-Pro/internal/resume"
	"github.com/dejayillegal/JobFinder-Pro/internal/skills"
	"github.com/dejayillegal/JobFinder-Pro/internal/types"
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Process a resume end to end: parse, aggregate, match",
	Long:  "Parse a resume into a candidate profile, aggregate job postings from all configured sources, score every posting against the profile, and print the ranked matches.",
	RunE:  runProcess,
}

var (
	processResumeFile string
	processMimeType   string
	processTopN       int
)

func init() {
	processCmd.Flags().StringVarP(&processResumeFile, "resume", "r", "", "Path to resume file (.pdf, .docx, or .txt)")
	processCmd.Flags().StringVar(&processMimeType, "mime", "", "Override the mime type inferred from the file extension")
	processCmd.Flags().IntVar(&processTopN, "top", 10, "Number of matches to print")
	_ = processCmd.MarkFlagRequired("resume")

	rootCmd.AddCommand(processCmd)
}

func runProcess(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	document, err := os.ReadFile(processResumeFile)
	if err != nil {
		return fmt.Errorf("failed to read resume file: %w", err)
	}

	mimeType := processMimeType
	if mimeType == "" {
		mimeType, err = mimeFromPath(processResumeFile)
		if err != nil {
			return err
		}
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

	extractor, err := buildExtractor(ctx, cfg, log)
	if err != nil {
		return err
	}
	engine, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	canonicalizer := skills.NewCanonicalizer()
	parser := resume.NewPipeline(extractor, canonicalizer, log)
	agg := buildAggregator(cfg, st, canonicalizer, log)

	orchCfg := orchestrator.DefaultConfig()
	orchCfg.MinScore = cfg.EffectiveMinScore()
	if cfg.Workers > 0 {
		orchCfg.Workers = cfg.Workers
	}
	if cfg.JobTimeout > 0 {
		orchCfg.JobTimeout = time.Duration(cfg.JobTimeout) * time.Second
	}

	orch := orchestrator.New(orchCfg, st, parser, agg, engine, log)
	orch.Start(ctx)
	defer orch.Stop()

	job, err := orch.Submit(ctx, document, mimeType)
	if err != nil {
		return fmt.Errorf("failed to submit resume: %w", err)
	}

	if !job.State.Terminal() {
		job, err = orch.Await(ctx, job.ID, 200*time.Millisecond)
		if err != nil {
			return fmt.Errorf("failed waiting for job: %w", err)
		}
	}

	if job.State == types.StateFailed {
		return fmt.Errorf("processing failed: %s", job.Error)
	}

	fmt.Fprintf(os.Stdout, "Job %s completed: %d matches\n\n", job.ID, job.MatchCount)

	matches, err := st.ListMatches(ctx, job.ProfileID, cfg.EffectiveMinScore())
	if err != nil {
		return fmt.Errorf("failed to list matches: %w", err)
	}
	if len(matches) > processTopN {
		matches = matches[:processTopN]
	}
	printMatches(ctx, st, matches)
	return nil
}
