// Package runner drives one sequential harvest pass.
package runner

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"docharvester/internal/archive"
	"docharvester/internal/dates"
	"docharvester/internal/decision"
	"docharvester/internal/metrics"
	"docharvester/internal/stats"
)

// Runner discovers candidates and processes them one at a time: extract
// date, decide, tally. Each candidate is fully classified before the
// next begins, so a run can be canceled between candidates with no
// partial state.
type Runner struct {
	source    archive.Source
	extractor *dates.Extractor
	engine    *decision.Engine
	logger    *zap.Logger
}

// New constructs a Runner.
func New(source archive.Source, extractor *dates.Extractor, engine *decision.Engine, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		source:    source,
		extractor: extractor,
		engine:    engine,
		logger:    logger,
	}
}

// Run executes one pass and returns the outcome summary. Fetch failures
// are recorded and the run continues; a probe failure aborts the run,
// returning the summary of what completed alongside the error.
func (r *Runner) Run(ctx context.Context) (stats.Summary, error) {
	agg := stats.NewAggregator()

	docs, err := r.source.Discover(ctx)
	if err != nil {
		return agg.Summary(), fmt.Errorf("discover candidates: %w", err)
	}
	r.logger.Info("discovered candidates", zap.Int("count", len(docs)))

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return agg.Summary(), fmt.Errorf("run canceled: %w", err)
		}

		if d, ok := r.extractor.Extract(doc.RawDateText); ok {
			doc.Published = &d
		} else if doc.RawDateText != "" {
			// Data-quality note, not a failure.
			r.logger.Debug("no date recognized",
				zap.String("url", doc.URL),
				zap.String("text", doc.RawDateText))
		}

		action, err := r.engine.Decide(ctx, doc)
		if err != nil {
			return agg.Summary(), fmt.Errorf("classify %s: %w", doc.URL, err)
		}
		agg.Record(action)
		metrics.ObserveDocument(string(action))
		r.logger.Debug("classified document",
			zap.String("url", doc.URL),
			zap.String("action", string(action)))
	}

	summary := agg.Summary()
	r.logger.Info("run complete",
		zap.Int("total", summary.TotalFound),
		zap.Int("downloaded", summary.Downloaded),
		zap.Int("skipped_exists", summary.SkippedExists),
		zap.Int("skipped_date", summary.SkippedDate),
		zap.Int("failed", summary.Failed))
	return summary, nil
}
