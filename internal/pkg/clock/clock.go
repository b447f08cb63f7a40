package clock

import (
	"fmt"
	"time"

	// Embedded zone database so the business zone resolves in minimal images.
	_ "time/tzdata"
)

// DefaultBusinessTimezone is the zone every business date in the system is expressed in.
const DefaultBusinessTimezone = "Asia/Kolkata"

// DateLayout is the layout of date keys (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System returns the wall clock.
func System() Clock {
	return systemClock{}
}

type fixedClock struct {
	t time.Time
}

func (f fixedClock) Now() time.Time { return f.t }

// Fixed returns a clock frozen at t.
func Fixed(t time.Time) Clock {
	return fixedClock{t: t}
}

// Business answers "now" and "today" in the canonical business time zone.
type Business struct {
	clock Clock
	loc   *time.Location
}

// NewBusiness builds a Business clock for the named IANA zone.
func NewBusiness(c Clock, timezone string) (*Business, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load business timezone %q: %w", timezone, err)
	}
	return &Business{clock: c, loc: loc}, nil
}

// NewBusinessIn builds a Business clock for an already loaded location.
func NewBusinessIn(c Clock, loc *time.Location) *Business {
	return &Business{clock: c, loc: loc}
}

// Now returns the current instant in the business zone.
func (b *Business) Now() time.Time {
	return b.clock.Now().In(b.loc)
}

// Today returns the current business date.
func (b *Business) Today() time.Time {
	return DateOf(b.clock.Now(), b.loc)
}

// Location returns the business zone.
func (b *Business) Location() *time.Location {
	return b.loc
}

// DateOf returns the civil date of t as observed in loc. Dates are represented as
// midnight UTC so that they compare, key and store the same way a DATE column does.
func DateOf(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// Date normalises a date value (for example one scanned from a DATE column) to
// midnight UTC without shifting its calendar day.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateKey formats a date as YYYY-MM-DD.
func DateKey(d time.Time) string {
	return d.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD key.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	return d, nil
}

// NextSunday returns the first Sunday strictly after d.
func NextSunday(d time.Time) time.Time {
	days := (7 - int(d.Weekday())) % 7
	if days == 0 {
		days = 7
	}
	return Date(d).AddDate(0, 0, days)
}
