// Package aggregator orchestrates the connector adapters: it fans a query
// out to every configured source, normalizes the results into canonical
// postings, deduplicates them by fingerprint, and upserts them into the
// store. A failing real source degrades to its deterministic mock twin
// instead of failing the run.
package aggregator

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dejayillegal/JobFinder-Pro/internal/connectors"
	"github.com/dejayillegal/JobFinder-Pro/internal/skills"
	"github.com/dejayillegal/JobFinder-Pro/internal/store"
)

// Options configures an Aggregator explicitly; there is no ambient mock
// flag, so tests can run differently configured aggregators side by side.
type Options struct {
	// MockFallback substitutes a source's mock twin when the real adapter
	// exhausts its retries.
	MockFallback bool
}

// Aggregator merges job postings from all configured connectors into the
// canonical store.
type Aggregator struct {
	adapters      []connectors.Connector
	store         store.Store
	canonicalizer *skills.Canonicalizer
	opts          Options
	log           *zap.Logger
}

// New builds an aggregator over a fixed adapter set.
func New(adapters []connectors.Connector, st store.Store, canonicalizer *skills.Canonicalizer, opts Options, log *zap.Logger) *Aggregator {
	return &Aggregator{
		adapters:      adapters,
		store:         st,
		canonicalizer: canonicalizer,
		opts:          opts,
		log:           log.Named("aggregator"),
	}
}

// Aggregate fans the query out to every adapter, normalizes and upserts the
// results, and returns the number of postings written (new or merged).
// Adapter failures never fail the run: they are logged, optionally replaced
// by mock data, and the remaining sources proceed.
func (a *Aggregator) Aggregate(ctx context.Context, q connectors.Query) (int, error) {
	var mu sync.Mutex
	upserted := 0

	g, gCtx := errgroup.WithContext(ctx)
	for _, adapter := range a.adapters {
		g.Go(func() error {
			count, err := a.aggregateSource(gCtx, adapter, q)
			if err != nil {
				return err
			}
			mu.Lock()
			upserted += count
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return upserted, err
	}

	a.log.Info("aggregation complete",
		zap.Int("sources", len(a.adapters)),
		zap.Int("upserted", upserted))
	return upserted, nil
}

// aggregateSource fetches one adapter and upserts its postings. Connector
// errors degrade: log, fall back to the source's mock twin when configured,
// and carry on. Only persistence errors propagate, because losing writes is
// not a degradation the caller can ignore.
func (a *Aggregator) aggregateSource(ctx context.Context, adapter connectors.Connector, q connectors.Query) (int, error) {
	raws, err := adapter.Fetch(ctx, q)
	if err != nil {
		a.log.Warn("source fetch failed",
			zap.String("source", adapter.SourceID()),
			zap.Error(err))
		if !a.opts.MockFallback || adapter.IsMock() {
			return 0, nil
		}
		adapter = connectors.MockFor(adapter.SourceID(), adapter.SourceFamily())
		raws, err = adapter.Fetch(ctx, q)
		if err != nil {
			return 0, nil
		}
		a.log.Info("fell back to mock data", zap.String("source", adapter.SourceID()))
	}

	count := 0
	for _, raw := range raws {
		posting := connectors.Normalize(adapter, raw)
		if posting.Title == "" || posting.Company == "" {
			// Records without an identity cannot be fingerprinted
			// meaningfully; reject them here, not during scoring.
			continue
		}
		posting.RequiredSkills = a.canonicalizer.CanonicalizeAll(posting.RequiredSkills)

		if _, err := a.store.UpsertPosting(ctx, &posting); err != nil {
			return count, err
		}
		count++
	}

	a.log.Info("source aggregated",
		zap.String("source", adapter.SourceID()),
		zap.Bool("mock", adapter.IsMock()),
		zap.Int("postings", count))
	return count, nil
}
