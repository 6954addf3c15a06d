package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/dejayillegal/JobFinder-Pro/internal/aggregator"
	"github.com/dejayillegal/JobFinder-Pro/internal/config"
	"github.com/dejayillegal/JobFinder-Pro/internal/connectors"
	"github.com/dejayillegal/JobFinder-Pro/internal/extract"
	"github.com/dejayillegal/JobFinder-Pro/internal/logging"
	"github.com/dejayillegal/JobFinder-Pro/internal/match"
	"github.com/dejayillegal/JobFinder-Pro/internal/resume"
	"github.com/dejayillegal/JobFinder-Pro/internal/skills"
	"github.com/dejayillegal/JobFinder-Pro/internal/store"
)

// loadConfig resolves the effective configuration: file, then environment,
// then built-in defaults for anything still unset, then validation.
func loadConfig() (*config.Config, error) {
	cfg := &config.Config{}
	if flagConfig != "" {
		loaded, err := config.LoadConfig(flagConfig)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.ApplyEnv()
	merged := cfg.MergeWithDefaults(config.Config{
		MinScore:   match.DefaultMinScore,
		Workers:    4,
		JobTimeout: 120,
	})
	cfg = &merged
	if flagVerbose {
		cfg.Verbose = true
	}
	if flagJSON {
		cfg.JSONLogs = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(cfg.JSONLogs, cfg.Verbose)
}

// openStore selects Postgres when a database URL is configured, otherwise
// the in-memory store. The cleanup func is safe to call either way.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		return store.NewMemoryStore(), func() {}, nil
	}
	pg, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return pg, pg.Close, nil
}

// buildConnectors assembles the source adapters. Mock mode or missing
// Adzuna credentials substitute the deterministic fixtures.
func buildConnectors(cfg *config.Config, log *zap.Logger) []connectors.Connector {
	if cfg.UseMockData {
		return []connectors.Connector{
			connectors.NewMockAdzuna(),
			connectors.NewMockRSS(),
		}
	}

	adapters := make([]connectors.Connector, 0, 2)
	adzuna, err := connectors.NewAdzunaConnector(connectors.AdzunaOptions{
		AppID:  cfg.AdzunaAppID,
		AppKey: cfg.AdzunaAppKey,
	}, log)
	if err != nil {
		log.Warn("adzuna unavailable, using mock data", zap.Error(err))
		adapters = append(adapters, connectors.NewMockAdzuna())
	} else {
		adapters = append(adapters, adzuna)
	}
	adapters = append(adapters, connectors.NewRSSConnector(log))
	return adapters
}

func buildAggregator(cfg *config.Config, st store.Store, canonicalizer *skills.Canonicalizer, log *zap.Logger) *aggregator.Aggregator {
	adapters := buildConnectors(cfg, log)
	opts := aggregator.Options{MockFallback: cfg.MockFallbackEnabled()}
	return aggregator.New(adapters, st, canonicalizer, opts, log)
}

// buildExtractor prefers the Gemini extractor when a key is configured and
// falls back to the rule-based one.
func buildExtractor(ctx context.Context, cfg *config.Config, log *zap.Logger) (extract.Extractor, error) {
	if cfg.GeminiAPIKey == "" {
		return extract.NewRuleBasedExtractor(), nil
	}
	gemini, err := extract.NewGeminiExtractor(ctx, cfg.GeminiAPIKey, extract.DefaultGeminiModel)
	if err != nil {
		log.Warn("gemini extractor unavailable, using rule-based extraction", zap.Error(err))
		return extract.NewRuleBasedExtractor(), nil
	}
	return gemini, nil
}

func buildEngine(cfg *config.Config) (*match.Engine, error) {
	return match.NewEngine(cfg.EffectiveWeights())
}

// mimeFromPath maps a resume file extension onto its document mime type.
func mimeFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return resume.MimePDF, nil
	case ".docx":
		return resume.MimeDOCX, nil
	case ".txt":
		return resume.MimeText, nil
	default:
		return "", fmt.Errorf("unsupported resume file type: %s (expected .pdf, .docx, or .txt)", path)
	}
}
