// Package locale pins every calendar computation to one configured time zone.
// Booking dates are stored as the instant of local midnight.
package locale

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date")

type Locale struct {
	loc *time.Location
}

func New(loc *time.Location) *Locale {
	if loc == nil {
		loc = time.UTC
	}
	return &Locale{loc: loc}
}

// Load resolves an IANA zone name.
func Load(name string) (*Locale, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", name, err)
	}
	return New(loc), nil
}

func (l *Locale) Location() *time.Location {
	return l.loc
}

// Day truncates t to midnight of its calendar date in the locale.
func (l *Locale) Day(t time.Time) time.Time {
	local := t.In(l.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, l.loc)
}

// ParseDate accepts "2006-01-02" (read as a local calendar date) or an
// RFC3339 timestamp, and returns the normalised day.
func (l *Locale) ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidDate)
	}
	if t, err := time.ParseInLocation(DateLayout, s, l.loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return l.Day(t), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q, expected YYYY-MM-DD", ErrInvalidDate, s)
}

func (l *Locale) Format(day time.Time) string {
	return day.In(l.loc).Format(DateLayout)
}

// IsPast reports whether day is strictly before today.
func (l *Locale) IsPast(day, now time.Time) bool {
	return l.Day(day).Before(l.Day(now))
}

func (l *Locale) IsToday(day, now time.Time) bool {
	return l.Day(day).Equal(l.Day(now))
}

// Hour returns the hour of now on the locale's wall clock.
func (l *Locale) Hour(now time.Time) int {
	return now.In(l.loc).Hour()
}

// NextDay returns midnight of the following calendar date. It is DST safe.
func (l *Locale) NextDay(day time.Time) time.Time {
	d := l.Day(day)
	return time.Date(d.Year(), d.Month(), d.Day()+1, 0, 0, 0, 0, l.loc)
}

// StartOfWeek returns the Sunday of the week containing now.
func (l *Locale) StartOfWeek(now time.Time) time.Time {
	d := l.Day(now)
	return time.Date(d.Year(), d.Month(), d.Day()-int(d.Weekday()), 0, 0, 0, 0, l.loc)
}

func (l *Locale) StartOfMonth(now time.Time) time.Time {
	d := now.In(l.loc)
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, l.loc)
}

// MonthRange returns [first day of month, first day of next month).
func (l *Locale) MonthRange(month time.Month, year int) (time.Time, time.Time, error) {
	if month < time.January || month > time.December {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: month %d", ErrInvalidDate, month)
	}
	if year < 1970 || year > 9999 {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: year %d", ErrInvalidDate, year)
	}
	start := time.Date(year, month, 1, 0, 0, 0, 0, l.loc)
	return start, start.AddDate(0, 1, 0), nil
}
