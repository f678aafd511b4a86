package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, year int, month time.Month, day int) Date {
	t.Helper()
	d, err := New(year, month, day)
	require.NoError(t, err)
	return d
}

func TestExtractDayFirstDisambiguation(t *testing.T) {
	t.Parallel()

	e := NewExtractor(DefaultConfig())

	// Both components <= 12: the first number is always the day, even
	// though the swapped reading would be a valid date too.
	d, ok := e.Extract("04/12/2025")
	require.True(t, ok)
	require.Equal(t, mustDate(t, 2025, time.December, 4), d)

	d, ok = e.Extract("12/04/2025")
	require.True(t, ok)
	require.Equal(t, mustDate(t, 2025, time.April, 12), d)

	// First component > 12 is unambiguous and still day-first.
	d, ok = e.Extract("25/03/2025")
	require.True(t, ok)
	require.Equal(t, mustDate(t, 2025, time.March, 25), d)

	d, ok = e.Extract("04-12-2025")
	require.True(t, ok)
	require.Equal(t, mustDate(t, 2025, time.December, 4), d)
}

func TestExtractEquivalentForms(t *testing.T) {
	t.Parallel()

	e := NewExtractor(DefaultConfig())
	want := mustDate(t, 2025, time.December, 4)

	for _, text := range []string{
		"2025-12-04",
		"4 December 2025",
		"4th December 2025",
		"Thursday, 4th December 2025",
		"Thu, 4 Dec 2025",
		"December 4, 2025",
		"Dec 4th, 2025",
	} {
		d, ok := e.Extract(text)
		require.True(t, ok, "extract %q", text)
		require.Equal(t, want, d, "extract %q", text)
	}
}

func TestExtractOrdinalIrregulars(t *testing.T) {
	t.Parallel()

	e := NewExtractor(DefaultConfig())

	cases := map[string]Date{
		"11th March 2025": mustDate(t, 2025, time.March, 11),
		"12th March 2025": mustDate(t, 2025, time.March, 12),
		"13th March 2025": mustDate(t, 2025, time.March, 13),
		"21st March 2025": mustDate(t, 2025, time.March, 21),
		"22nd March 2025": mustDate(t, 2025, time.March, 22),
		"23rd March 2025": mustDate(t, 2025, time.March, 23),
	}
	for text, want := range cases {
		d, ok := e.Extract(text)
		require.True(t, ok, "extract %q", text)
		require.Equal(t, want, d, "extract %q", text)
	}
}

func TestExtractEmbeddedInSentence(t *testing.T) {
	t.Parallel()

	e := NewExtractor(DefaultConfig())

	d, ok := e.Extract("Minutes of the meeting held on 4 December 2025, approved by council")
	require.True(t, ok)
	require.Equal(t, mustDate(t, 2025, time.December, 4), d)

	d, ok = e.Extract("Agenda (published 04/12/2025) for the planning committee")
	require.True(t, ok)
	require.Equal(t, mustDate(t, 2025, time.December, 4), d)
}

func TestExtractNoDate(t *testing.T) {
	t.Parallel()

	e := NewExtractor(DefaultConfig())

	for _, text := range []string{
		"",
		"   ",
		"No date here",
		"Invalid text",
		"meeting notes volume 3",
	} {
		_, ok := e.Extract(text)
		require.False(t, ok, "extract %q should find nothing", text)
	}
}

func TestExtractTwoDigitYearsUnparsed(t *testing.T) {
	t.Parallel()

	e := NewExtractor(DefaultConfig())

	_, ok := e.Extract("04/12/25")
	require.False(t, ok)

	_, ok = e.Extract("4 December 25")
	require.False(t, ok)
}

func TestExtractInvalidCalendarMatchYieldsNothing(t *testing.T) {
	t.Parallel()

	e := NewExtractor(DefaultConfig())

	// Matches the numeric rule textually but April has no day 31; the
	// extractor must not reinterpret it month-first.
	_, ok := e.Extract("31/04/2025")
	require.False(t, ok)

	_, ok = e.Extract("30 February 2025")
	require.False(t, ok)
}

func TestExtractMonthFirstBias(t *testing.T) {
	t.Parallel()

	e := NewExtractor(Config{DayFirst: false})

	d, ok := e.Extract("04/12/2025")
	require.True(t, ok)
	require.Equal(t, mustDate(t, 2025, time.April, 12), d)
}
