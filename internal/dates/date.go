// Package dates implements calendar date values and locale-biased
// extraction of dates from free text.
package dates

import (
	"fmt"
	"time"
)

// Date is a calendar day without a time component.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// New validates the components against the Gregorian calendar and
// returns the Date. Construction fails rather than normalizing an
// invalid day (time.Date would turn April 31 into May 1).
func New(year int, month time.Month, day int) (Date, error) {
	if year < 1000 || year > 9999 {
		return Date{}, fmt.Errorf("year %d out of range", year)
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return Date{}, fmt.Errorf("invalid calendar date %04d-%02d-%02d", year, int(month), day)
	}
	return Date{Year: year, Month: month, Day: day}, nil
}

// Parse reads an ISO YYYY-MM-DD string, the form used in config and flags.
func Parse(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return New(t.Year(), t.Month(), t.Day())
}

// Time returns the date at midnight UTC.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	return d.Time().Before(other.Time())
}

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool {
	return d.Time().After(other.Time())
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Range bounds a date filter. A nil bound means unbounded on that side;
// both bounds are inclusive.
type Range struct {
	From *Date
	To   *Date
}

// Contains reports whether d falls within the range.
func (r Range) Contains(d Date) bool {
	if r.From != nil && d.Before(*r.From) {
		return false
	}
	if r.To != nil && d.After(*r.To) {
		return false
	}
	return true
}
