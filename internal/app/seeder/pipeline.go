package seeder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/slide-atlas/internal/domain"
)

// PhaseResult holds the outcome of a single pipeline phase.
type PhaseResult struct {
	Written  int
	Skipped  int
	Duration time.Duration
}

// Pipeline loads a manifest in two phases: entries, then the details that
// reference them. Both phases share one transaction.
type Pipeline struct {
	log     *slog.Logger
	repo    CatalogBulkRepo
	tx      TxRunner
	cfg     Config
	results map[string]PhaseResult
}

// NewPipeline creates a new Pipeline.
func NewPipeline(log *slog.Logger, repo CatalogBulkRepo, tx TxRunner, cfg Config) *Pipeline {
	return &Pipeline{
		log:     log.With("component", "seeder"),
		repo:    repo,
		tx:      tx,
		cfg:     cfg,
		results: make(map[string]PhaseResult),
	}
}

// Results returns phase results after Run completes.
func (p *Pipeline) Results() map[string]PhaseResult {
	return p.results
}

// Run writes every manifest slide. In dry-run mode nothing is written and
// only the counts are reported. A failure rolls back the whole manifest.
func (p *Pipeline) Run(ctx context.Context, m *Manifest) error {
	if p.cfg.DryRun {
		details := 0
		for _, s := range m.Slides {
			if s.Detail != nil {
				details++
			}
		}
		p.results["entries"] = PhaseResult{Skipped: len(m.Slides)}
		p.results["details"] = PhaseResult{Skipped: details}
		p.log.Info("dry run, nothing written",
			slog.Int("entries", len(m.Slides)),
			slog.Int("details", details),
		)
		return nil
	}

	err := p.tx.RunInTx(ctx, func(ctx context.Context) error {
		ids, err := p.runEntries(ctx, m.Slides)
		if err != nil {
			return err
		}
		return p.runDetails(ctx, m.Slides, ids)
	})
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}

	p.log.Info("pipeline completed",
		slog.Int("entries", p.results["entries"].Written),
		slog.Int("details", p.results["details"].Written),
	)
	return nil
}

func (p *Pipeline) runEntries(ctx context.Context, slides []SlideRecord) (map[string]int64, error) {
	start := time.Now()

	entries := make([]domain.CatalogEntry, len(slides))
	for i, s := range slides {
		entries[i] = s.entry()
	}

	ids := make(map[string]int64, len(entries))
	written, err := batchProcess(entries, p.cfg.BatchSize, func(batch []domain.CatalogEntry) (int, error) {
		got, err := p.repo.UpsertEntries(ctx, batch)
		if err != nil {
			return 0, err
		}
		for name, id := range got {
			ids[name] = id
		}
		return len(got), nil
	})
	if err != nil {
		return nil, fmt.Errorf("upsert entries: %w", err)
	}

	p.record("entries", PhaseResult{Written: written, Duration: time.Since(start)})
	return ids, nil
}

func (p *Pipeline) runDetails(ctx context.Context, slides []SlideRecord, ids map[string]int64) error {
	start := time.Now()

	var details []domain.CatalogDetail
	skipped := 0
	for _, s := range slides {
		if s.Detail == nil {
			skipped++
			continue
		}
		id, ok := ids[s.entry().Name]
		if !ok {
			return fmt.Errorf("entry %q: no id returned", s.Name)
		}
		details = append(details, s.Detail.detail(id))
	}

	written, err := batchProcess(details, p.cfg.BatchSize, func(batch []domain.CatalogDetail) (int, error) {
		return p.repo.UpsertDetails(ctx, batch)
	})
	if err != nil {
		return fmt.Errorf("upsert details: %w", err)
	}

	p.record("details", PhaseResult{Written: written, Skipped: skipped, Duration: time.Since(start)})
	return nil
}

func (p *Pipeline) record(phase string, r PhaseResult) {
	p.results[phase] = r
	p.log.Info("phase completed",
		slog.String("phase", phase),
		slog.Int("written", r.Written),
		slog.Int("skipped", r.Skipped),
		slog.Duration("duration", r.Duration),
	)
}

// batchProcess splits items into batches and processes each via fn.
func batchProcess[T any](items []T, batchSize int, fn func([]T) (int, error)) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	if batchSize <= 0 {
		batchSize = 500
	}

	total := 0
	for i := 0; i < len(items); i += batchSize {
		end := min(i+batchSize, len(items))
		n, err := fn(items[i:end])
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}
