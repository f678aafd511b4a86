package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Config fixes the extraction locale. It is immutable once the Extractor
// is built, so extractors with different biases can coexist.
type Config struct {
	// DayFirst resolves ambiguous numeric dates (04/12/2025) as
	// day-month rather than month-day.
	DayFirst bool
}

// DefaultConfig returns the DMY bias used for the archives this tool targets.
func DefaultConfig() Config {
	return Config{DayFirst: true}
}

// Extractor pulls a calendar date out of loosely formatted free text.
// Rules run in a fixed order and the first textual match wins.
type Extractor struct {
	cfg   Config
	rules []rule
}

// A rule inspects text and either finds nothing (matched=false), finds a
// valid date, or finds a textual date that fails calendar validation
// (matched=true with err set), which ends extraction with no result.
type rule func(text string) (d Date, matched bool, err error)

// NewExtractor builds an Extractor with the given locale config.
func NewExtractor(cfg Config) *Extractor {
	e := &Extractor{cfg: cfg}
	e.rules = []rule{
		e.naturalLanguage,
		matchRegex(isoPattern, 1, 2, 3),
		e.numericRule(),
		matchNamedMonth(dayMonthPattern, 2, 1, 3),
		matchNamedMonth(monthDayPattern, 1, 2, 3),
	}
	return e
}

// Extract returns the first date recognized in text. Unparseable or
// invalid input is a normal no-date result, never an error.
func (e *Extractor) Extract(text string) (Date, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Date{}, false
	}
	for _, r := range e.rules {
		d, matched, err := r(text)
		if err != nil {
			// Textual match, invalid calendar day (31/04/2025).
			// Bad data, not a candidate for reinterpretation.
			return Date{}, false
		}
		if matched {
			return d, true
		}
	}
	return Date{}, false
}

var yearToken = regexp.MustCompile(`\b\d{4}\b`)

// naturalLanguage tries the whole text as a date expression under the
// configured bias. Two-digit years are out of scope, so text without a
// four-digit year token never reaches the parser.
func (e *Extractor) naturalLanguage(text string) (Date, bool, error) {
	if !yearToken.MatchString(text) {
		return Date{}, false, nil
	}
	// Pure numeric forms are owned by the numeric rule, which applies
	// the locale bias deterministically.
	if numericPattern.FindString(text) == text {
		return Date{}, false, nil
	}
	t, err := dateparse.ParseAny(text, dateparse.PreferMonthFirst(!e.cfg.DayFirst))
	if err != nil {
		return Date{}, false, nil
	}
	d, err := New(t.Year(), t.Month(), t.Day())
	if err != nil {
		return Date{}, false, nil
	}
	return d, true, nil
}

var (
	isoPattern     = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	numericPattern = regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})[/-](\d{4})\b`)

	monthNames = `jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?`

	// "4 December 2025", "4th December 2025" (day-of-week prefixes are
	// just surrounding text since patterns match anywhere).
	dayMonthPattern = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+(` + monthNames + `)\.?,?\s+(\d{4})\b`)
	// "December 4, 2025" month-first, tried last as the non-preferred locale.
	monthDayPattern = regexp.MustCompile(`(?i)\b(` + monthNames + `)\.?\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})\b`)
)

// numericRule parses slash/dash numeric dates. Component order is fixed
// by the locale bias, never inferred from magnitude: under DayFirst,
// 04/12/2025 is 4 December even though 12 April would also be valid.
func (e *Extractor) numericRule() rule {
	return func(text string) (Date, bool, error) {
		m := numericPattern.FindStringSubmatch(text)
		if m == nil {
			return Date{}, false, nil
		}
		first, _ := strconv.Atoi(m[1])
		second, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		day, month := first, second
		if !e.cfg.DayFirst {
			day, month = second, first
		}
		d, err := New(year, time.Month(month), day)
		if err != nil {
			return Date{}, true, err
		}
		return d, true, nil
	}
}

func matchRegex(pattern *regexp.Regexp, yearIdx, monthIdx, dayIdx int) rule {
	return func(text string) (Date, bool, error) {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			return Date{}, false, nil
		}
		year, _ := strconv.Atoi(m[yearIdx])
		month, _ := strconv.Atoi(m[monthIdx])
		day, _ := strconv.Atoi(m[dayIdx])
		d, err := New(year, time.Month(month), day)
		if err != nil {
			return Date{}, true, err
		}
		return d, true, nil
	}
}

func matchNamedMonth(pattern *regexp.Regexp, monthIdx, dayIdx, yearIdx int) rule {
	return func(text string) (Date, bool, error) {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			return Date{}, false, nil
		}
		month, ok := monthByName(m[monthIdx])
		if !ok {
			return Date{}, false, nil
		}
		day, _ := strconv.Atoi(m[dayIdx])
		year, _ := strconv.Atoi(m[yearIdx])
		d, err := New(year, month, day)
		if err != nil {
			return Date{}, true, err
		}
		return d, true, nil
	}
}

func monthByName(name string) (time.Month, bool) {
	name = strings.ToLower(strings.TrimSuffix(name, "."))
	if len(name) > 3 && name != "sept" {
		name = name[:3]
	}
	switch name {
	case "jan":
		return time.January, true
	case "feb":
		return time.February, true
	case "mar":
		return time.March, true
	case "apr":
		return time.April, true
	case "may":
		return time.May, true
	case "jun":
		return time.June, true
	case "jul":
		return time.July, true
	case "aug":
		return time.August, true
	case "sep", "sept":
		return time.September, true
	case "oct":
		return time.October, true
	case "nov":
		return time.November, true
	case "dec":
		return time.December, true
	}
	return 0, false
}
