// Package decision classifies download candidates into actions.
package decision

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"docharvester/internal/archive"
	"docharvester/internal/dates"
)

// Config holds the engine's documented policy choices.
type Config struct {
	// IncludeUndated passes documents with no extractable date through
	// an active date filter instead of excluding them. Excluding risks
	// dropping documents whose date text merely failed to parse.
	IncludeUndated bool
}

// DefaultConfig keeps undated documents.
func DefaultConfig() Config {
	return Config{IncludeUndated: true}
}

// Engine assigns exactly one action to each candidate. The check order
// is fixed: date filter first (cheapest, no I/O), then the two
// existence probes folded into a single skip outcome, then the fetch.
type Engine struct {
	files   archive.FileExistenceProbe
	records archive.RecordExistenceProbe
	fetcher archive.Fetcher
	filter  *dates.Range
	cfg     Config
	logger  *zap.Logger
}

// New constructs an Engine. A nil filter disables date filtering.
func New(
	files archive.FileExistenceProbe,
	records archive.RecordExistenceProbe,
	fetcher archive.Fetcher,
	filter *dates.Range,
	cfg Config,
	logger *zap.Logger,
) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		files:   files,
		records: records,
		fetcher: fetcher,
		filter:  filter,
		cfg:     cfg,
		logger:  logger,
	}
}

// Decide classifies one document. A probe error aborts the candidate:
// guessing an existence answer would either re-download (probe falsely
// negative) or silently drop data (falsely positive), so the error
// propagates instead.
func (e *Engine) Decide(ctx context.Context, doc archive.Document) (archive.Action, error) {
	if action, done := e.applyFilter(doc); done {
		return action, nil
	}

	exists, err := e.files.Exists(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("file existence probe for %s: %w", doc.URL, err)
	}
	if !exists {
		exists, err = e.records.Exists(ctx, doc)
		if err != nil {
			return "", fmt.Errorf("record existence probe for %s: %w", doc.URL, err)
		}
	}
	if exists {
		// One skip outcome no matter which probe fired, or both.
		e.logger.Debug("document already present", zap.String("url", doc.URL))
		return archive.ActionSkippedExists, nil
	}

	if err := e.fetcher.Fetch(ctx, doc); err != nil {
		e.logger.Warn("fetch failed", zap.String("url", doc.URL), zap.Error(err))
		return archive.ActionFailed, nil
	}
	return archive.ActionDownloaded, nil
}

func (e *Engine) applyFilter(doc archive.Document) (archive.Action, bool) {
	if e.filter == nil {
		return "", false
	}
	if doc.Published == nil {
		if e.cfg.IncludeUndated {
			return "", false
		}
		e.logger.Debug("excluding undated document", zap.String("url", doc.URL))
		return archive.ActionSkippedDate, true
	}
	if !e.filter.Contains(*doc.Published) {
		return archive.ActionSkippedDate, true
	}
	return "", false
}
