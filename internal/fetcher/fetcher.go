// Package fetcher downloads documents and persists them.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"docharvester/internal/archive"
	"docharvester/internal/metrics"
)

// Config controls transfer behavior.
type Config struct {
	UserAgent   string
	Timeout     time.Duration
	MaxAttempts int
	BackoffBase time.Duration
	BackoffMax  time.Duration
	// MaxBodyBytes caps a single document payload; zero means 128 MiB.
	MaxBodyBytes int64
}

const defaultMaxBodyBytes = 128 << 20

// Fetcher performs the network retrieval with retry/backoff and, on
// success, persists the payload and its record. The decision engine
// consumes only the final success/failure outcome.
type Fetcher struct {
	cfg     Config
	client  *http.Client
	retry   *RetryPolicy
	store   archive.DocumentStore
	records archive.RecordWriter
	logger  *zap.Logger
}

// New constructs a Fetcher writing through the given stores.
func New(cfg Config, store archive.DocumentStore, records archive.RecordWriter, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	if cfg.MaxBodyBytes == 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}
	return &Fetcher{
		cfg:     cfg,
		client:  &http.Client{Timeout: timeout},
		retry:   NewRetryPolicy(cfg.MaxAttempts, cfg.BackoffBase, cfg.BackoffMax),
		store:   store,
		records: records,
		logger:  logger,
	}
}

// Fetch retrieves the document, retrying transient failures, then saves
// the file and inserts the download record.
func (f *Fetcher) Fetch(ctx context.Context, doc archive.Document) error {
	start := time.Now()

	var (
		body []byte
		err  error
	)
	for attempt := 0; ; attempt++ {
		body, err = f.get(ctx, doc.URL)
		if err == nil {
			break
		}
		if !f.retry.ShouldRetry(err, attempt+1) {
			return fmt.Errorf("fetch %s: %w", doc.URL, err)
		}
		wait := f.retry.Backoff(attempt)
		f.logger.Debug("retrying fetch",
			zap.String("url", doc.URL),
			zap.Int("attempt", attempt+1),
			zap.Duration("backoff", wait),
			zap.Error(err))
		if err := sleep(ctx, wait); err != nil {
			return fmt.Errorf("fetch %s: %w", doc.URL, err)
		}
	}

	path, err := f.store.Save(ctx, doc, body)
	if err != nil {
		return fmt.Errorf("store %s: %w", doc.URL, err)
	}

	rec := archive.DownloadRecord{
		ID:        uuid.NewString(),
		URL:       doc.URL,
		Title:     doc.Title,
		Published: doc.Published,
		FilePath:  path,
		SizeBytes: int64(len(body)),
		FetchedAt: time.Now().UTC(),
	}
	if err := f.records.Insert(ctx, rec); err != nil {
		return fmt.Errorf("record %s: %w", doc.URL, err)
	}

	metrics.ObserveFetch(len(body), time.Since(start))
	f.logger.Info("downloaded document",
		zap.String("url", doc.URL),
		zap.String("path", path),
		zap.Int64("bytes", rec.SizeBytes))
	return nil
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if f.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", f.cfg.UserAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode, url: url}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.cfg.MaxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > f.cfg.MaxBodyBytes {
		return nil, fmt.Errorf("document exceeds %d byte limit", f.cfg.MaxBodyBytes)
	}
	return body, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
