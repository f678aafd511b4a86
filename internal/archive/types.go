// Package archive defines core types shared across subsystems.
package archive

import (
	"time"

	"docharvester/internal/dates"
)

// Document describes one downloadable candidate discovered on an
// archive index page. Published is set once by the date extractor and
// left nil when no date could be recognized.
type Document struct {
	URL         string
	Title       string
	RawDateText string
	Published   *dates.Date
}

// Action is the single classification outcome assigned to one document.
type Action string

// Action values tallied by the statistics aggregator.
const (
	ActionDownloaded    Action = "downloaded"
	ActionSkippedExists Action = "skipped_exists"
	ActionSkippedDate   Action = "skipped_date"
	ActionFailed        Action = "failed"
)

// DownloadRecord is persisted for each successfully fetched document.
type DownloadRecord struct {
	ID        string
	URL       string
	Title     string
	Published *dates.Date
	FilePath  string
	SizeBytes int64
	FetchedAt time.Time
}
