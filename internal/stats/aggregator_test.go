package stats

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"docharvester/internal/archive"
)

func TestAggregatorCountsEachActionOnce(t *testing.T) {
	t.Parallel()

	agg := NewAggregator()
	actions := []archive.Action{
		archive.ActionDownloaded,
		archive.ActionSkippedExists,
		archive.ActionSkippedExists,
		archive.ActionSkippedDate,
		archive.ActionFailed,
		archive.ActionDownloaded,
	}
	for _, a := range actions {
		agg.Record(a)
	}

	s := agg.Summary()
	require.Equal(t, len(actions), s.TotalFound)
	require.Equal(t, 2, s.Downloaded)
	require.Equal(t, 2, s.SkippedExists)
	require.Equal(t, 1, s.SkippedDate)
	require.Equal(t, 1, s.Failed)
	require.True(t, s.Consistent())
}

func TestAggregatorEmptyRun(t *testing.T) {
	t.Parallel()

	s := NewAggregator().Summary()
	require.Equal(t, Summary{}, s)
	require.True(t, s.Consistent())
}

func TestRenderCounterOrder(t *testing.T) {
	t.Parallel()

	s := Summary{
		TotalFound:    10,
		Downloaded:    4,
		SkippedExists: 3,
		SkippedDate:   2,
		Failed:        1,
	}
	out := s.Render()

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 5)
	require.Contains(t, lines[0], "Total found")
	require.Contains(t, lines[0], "10")
	require.Contains(t, lines[1], "Filtered by date range")
	require.Contains(t, lines[1], "2")
	require.Contains(t, lines[2], "Downloaded (new)")
	require.Contains(t, lines[2], "4")
	require.Contains(t, lines[3], "Already existed")
	require.Contains(t, lines[3], "3")
	require.Contains(t, lines[4], "Failed")
	require.Contains(t, lines[4], "1")
}
