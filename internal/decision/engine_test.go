package decision

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"docharvester/internal/archive"
	"docharvester/internal/dates"
)

type fakeProbe struct {
	exists bool
	err    error
	calls  int
}

func (p *fakeProbe) Exists(_ context.Context, _ archive.Document) (bool, error) {
	p.calls++
	return p.exists, p.err
}

type fakeFetcher struct {
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(_ context.Context, _ archive.Document) error {
	f.calls++
	return f.err
}

func datePtr(t *testing.T, year int, month time.Month, day int) *dates.Date {
	t.Helper()
	d, err := dates.New(year, month, day)
	require.NoError(t, err)
	return &d
}

func yearRange(t *testing.T, year int) *dates.Range {
	t.Helper()
	return &dates.Range{
		From: datePtr(t, year, time.January, 1),
		To:   datePtr(t, year, time.December, 31),
	}
}

func TestDecideDownloadsNewDocument(t *testing.T) {
	t.Parallel()

	files := &fakeProbe{}
	records := &fakeProbe{}
	fetcher := &fakeFetcher{}
	engine := New(files, records, fetcher, nil, DefaultConfig(), nil)

	action, err := engine.Decide(context.Background(), archive.Document{URL: "https://a.example/doc.pdf"})
	require.NoError(t, err)
	require.Equal(t, archive.ActionDownloaded, action)
	require.Equal(t, 1, fetcher.calls)
}

func TestDecideFetchFailure(t *testing.T) {
	t.Parallel()

	engine := New(&fakeProbe{}, &fakeProbe{}, &fakeFetcher{err: errors.New("boom")}, nil, DefaultConfig(), nil)

	action, err := engine.Decide(context.Background(), archive.Document{URL: "https://a.example/doc.pdf"})
	require.NoError(t, err, "fetch failure is an outcome, not an engine error")
	require.Equal(t, archive.ActionFailed, action)
}

func TestDecideExistenceIsOneOutcome(t *testing.T) {
	t.Parallel()

	// Both probes positive must still produce a single skip, never a
	// download.
	files := &fakeProbe{exists: true}
	records := &fakeProbe{exists: true}
	fetcher := &fakeFetcher{}
	engine := New(files, records, fetcher, nil, DefaultConfig(), nil)

	action, err := engine.Decide(context.Background(), archive.Document{URL: "https://a.example/doc.pdf"})
	require.NoError(t, err)
	require.Equal(t, archive.ActionSkippedExists, action)
	require.Zero(t, fetcher.calls)
	require.Zero(t, records.calls, "record probe short-circuits when the file probe hits")
}

func TestDecideRecordProbeAloneSkips(t *testing.T) {
	t.Parallel()

	engine := New(&fakeProbe{}, &fakeProbe{exists: true}, &fakeFetcher{}, nil, DefaultConfig(), nil)

	action, err := engine.Decide(context.Background(), archive.Document{URL: "https://a.example/doc.pdf"})
	require.NoError(t, err)
	require.Equal(t, archive.ActionSkippedExists, action)
}

func TestDecideDateFilterRunsBeforeProbes(t *testing.T) {
	t.Parallel()

	files := &fakeProbe{exists: true}
	records := &fakeProbe{exists: true}
	engine := New(files, records, &fakeFetcher{}, yearRange(t, 2025), DefaultConfig(), nil)

	doc := archive.Document{
		URL:       "https://a.example/doc.pdf",
		Published: datePtr(t, 2026, time.January, 1),
	}
	action, err := engine.Decide(context.Background(), doc)
	require.NoError(t, err)
	require.Equal(t, archive.ActionSkippedDate, action)
	require.Zero(t, files.calls, "filter must short-circuit before any probe I/O")
	require.Zero(t, records.calls)
}

func TestDecideFilterBoundsInclusive(t *testing.T) {
	t.Parallel()

	engine := New(&fakeProbe{}, &fakeProbe{}, &fakeFetcher{}, yearRange(t, 2025), DefaultConfig(), nil)

	doc := archive.Document{
		URL:       "https://a.example/doc.pdf",
		Published: datePtr(t, 2025, time.December, 31),
	}
	action, err := engine.Decide(context.Background(), doc)
	require.NoError(t, err)
	require.Equal(t, archive.ActionDownloaded, action, "boundary date is inside the filter")
}

func TestDecideUndatedPassesThroughByDefault(t *testing.T) {
	t.Parallel()

	engine := New(&fakeProbe{}, &fakeProbe{}, &fakeFetcher{}, yearRange(t, 2025), DefaultConfig(), nil)

	action, err := engine.Decide(context.Background(), archive.Document{URL: "https://a.example/doc.pdf"})
	require.NoError(t, err)
	require.NotEqual(t, archive.ActionSkippedDate, action)
	require.Equal(t, archive.ActionDownloaded, action)
}

func TestDecideUndatedExcludedWhenConfigured(t *testing.T) {
	t.Parallel()

	engine := New(&fakeProbe{}, &fakeProbe{}, &fakeFetcher{}, yearRange(t, 2025), Config{IncludeUndated: false}, nil)

	action, err := engine.Decide(context.Background(), archive.Document{URL: "https://a.example/doc.pdf"})
	require.NoError(t, err)
	require.Equal(t, archive.ActionSkippedDate, action)
}

func TestDecideProbeErrorAbortsCandidate(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{}
	engine := New(&fakeProbe{err: errors.New("storage down")}, &fakeProbe{}, fetcher, nil, DefaultConfig(), nil)

	_, err := engine.Decide(context.Background(), archive.Document{URL: "https://a.example/doc.pdf"})
	require.Error(t, err)
	require.Zero(t, fetcher.calls, "no fetch may happen on an undecidable candidate")

	engine = New(&fakeProbe{}, &fakeProbe{err: errors.New("db down")}, fetcher, nil, DefaultConfig(), nil)
	_, err = engine.Decide(context.Background(), archive.Document{URL: "https://a.example/doc.pdf"})
	require.Error(t, err)
	require.Zero(t, fetcher.calls)
}
