// Package scraper discovers download candidates on archive index pages.
package scraper

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"docharvester/internal/archive"
)

// Config controls collector behavior.
type Config struct {
	// IndexURLs are the archive listing pages to visit, in order.
	IndexURLs []string
	// LinkSelector is the CSS selector matching candidate anchors.
	LinkSelector  string
	UserAgent     string
	RespectRobots bool
	Timeout       time.Duration
}

// Scraper walks the configured index pages and emits one Document per
// distinct candidate link. The text of the link's enclosing row is
// captured as the raw date text for the extractor to chew on.
type Scraper struct {
	cfg    Config
	logger *zap.Logger
}

// New builds a Scraper.
func New(cfg Config, logger *zap.Logger) *Scraper {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.LinkSelector == "" {
		cfg.LinkSelector = "a[href]"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Scraper{cfg: cfg, logger: logger}
}

// Discover visits each index URL sequentially and returns the
// candidates found, deduplicated by resolved URL.
func (s *Scraper) Discover(ctx context.Context) ([]archive.Document, error) {
	collector := colly.NewCollector(colly.Async(false))
	if s.cfg.UserAgent != "" {
		collector.UserAgent = s.cfg.UserAgent
	}
	collector.IgnoreRobotsTxt = !s.cfg.RespectRobots
	collector.SetRequestTimeout(s.cfg.Timeout)

	var (
		docs     []archive.Document
		seen     = map[string]struct{}{}
		fetchErr error
	)

	collector.OnHTML(s.cfg.LinkSelector, func(e *colly.HTMLElement) {
		href := e.Request.AbsoluteURL(e.Attr("href"))
		if href == "" {
			return
		}
		if _, dup := seen[href]; dup {
			return
		}
		seen[href] = struct{}{}
		docs = append(docs, archive.Document{
			URL:         href,
			Title:       normalizeSpace(e.Text),
			RawDateText: rowText(e.DOM),
		})
	})
	collector.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	for _, indexURL := range s.cfg.IndexURLs {
		if err := s.visit(ctx, collector, indexURL); err != nil {
			return nil, fmt.Errorf("scrape %s: %w", indexURL, err)
		}
		if fetchErr != nil {
			return nil, fmt.Errorf("scrape %s: %w", indexURL, fetchErr)
		}
		s.logger.Debug("scraped index page",
			zap.String("url", indexURL),
			zap.Int("candidates", len(docs)))
	}
	return docs, nil
}

// visit runs the collector for one URL, honoring context cancellation
// (colly.Visit itself does not take a context).
func (s *Scraper) visit(ctx context.Context, collector *colly.Collector, url string) error {
	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// rowContainers are elements treated as one listing row; the nearest
// enclosing one supplies the raw date text for a link.
var rowContainers = map[string]struct{}{
	"li": {}, "tr": {}, "p": {}, "article": {}, "dd": {}, "section": {},
}

func rowText(sel *goquery.Selection) string {
	for parent := sel.Parent(); parent.Length() > 0; parent = parent.Parent() {
		name := goquery.NodeName(parent)
		if _, ok := rowContainers[name]; ok {
			return normalizeSpace(parent.Text())
		}
		if name == "body" || name == "html" {
			break
		}
	}
	// No recognizable row; fall back to the immediate parent's text.
	return normalizeSpace(sel.Parent().Text())
}

var whitespace = regexp.MustCompile(`\s+`)

func normalizeSpace(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}
