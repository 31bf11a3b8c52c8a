package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid calendar date")

// Date is a calendar date without time of day or location.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate accepts YYYY-MM-DD or an RFC 3339 timestamp. Timestamps keep the
// calendar date written in the string; no zone conversion happens.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, ErrInvalidDate
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
		}
	}
	return DateOf(t), nil
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// AddYear returns the same month and day one year later. February 29 maps to
// February 28 because the following year has no leap day.
func (d Date) AddYear() Date {
	next := Date{Year: d.Year + 1, Month: d.Month, Day: d.Day}
	if d.Month == time.February && d.Day == 29 {
		next.Day = 28
	}
	return next
}

// AddDays shifts the date by n days across month and year boundaries.
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) Before(other Date) bool {
	return d.Time().Before(other.Time())
}

func (d Date) String() string {
	return d.Time().Format(dateLayout)
}

// RevisionFor returns the mandatory revision date for a release date string.
func RevisionFor(release string) (string, error) {
	d, err := ParseDate(release)
	if err != nil {
		return "", err
	}
	return d.AddYear().String(), nil
}
