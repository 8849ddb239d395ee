package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var ErrMalformedDate = errors.New("malformed date")

// Date is a calendar day without a time or zone component. The zero value
// is not a valid day; use IsZero to detect it.
type Date struct {
	year  int
	month time.Month
	day   int
}

// NewDate normalizes out-of-range values the same way time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf takes the wall-clock date of value in its own location.
func DateOf(value time.Time) Date {
	year, month, day := value.Date()
	return Date{year: year, month: month, day: day}
}

func ParseDate(raw string) (Date, error) {
	trimmed := strings.TrimSpace(raw)
	parsed, err := time.ParseInLocation(DateLayout, trimmed, time.UTC)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrMalformedDate, raw)
	}
	return DateOf(parsed), nil
}

func MustParseDate(raw string) Date {
	parsed, err := ParseDate(raw)
	if err != nil {
		panic(err)
	}
	return parsed
}

func (date Date) Year() int { return date.year }
func (date Date) Month() time.Month { return date.month }
func (date Date) Day() int { return date.day }
func (date Date) IsZero() bool { return date == Date{} }
func (date Date) Weekday() time.Weekday { return date.utc().Weekday() }

func (date Date) String() string {
	if date.IsZero() {
		return ""
	}
	return date.utc().Format(DateLayout)
}

// MonthLabel renders the "January 2024" grouping key.
func (date Date) MonthLabel() string {
	return fmt.Sprintf("%s %d", date.month.String(), date.year)
}

// Time returns midnight of the date in location (UTC when nil).
func (date Date) Time(location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	return time.Date(date.year, date.month, date.day, 0, 0, 0, 0, location)
}

func (date Date) AddDays(days int) Date {
	return DateOf(date.utc().AddDate(0, 0, days))
}

func (date Date) AddMonths(months int) Date {
	return DateOf(time.Date(date.year, date.month+time.Month(months), 1, 0, 0, 0, 0, time.UTC)).withDay(date.day)
}

func (date Date) FirstOfMonth() Date {
	return Date{year: date.year, month: date.month, day: 1}
}

func (date Date) LastOfMonth() Date {
	return date.FirstOfMonth().AddMonths(1).AddDays(-1)
}

// DaysUntil counts whole days from date to other; negative when other is earlier.
func (date Date) DaysUntil(other Date) int {
	return int(other.utc().Sub(date.utc()).Hours() / 24)
}

func (date Date) Before(other Date) bool { return date.Compare(other) < 0 }
func (date Date) After(other Date) bool { return date.Compare(other) > 0 }

func (date Date) Compare(other Date) int {
	switch {
	case date.year != other.year:
		return compareInts(date.year, other.year)
	case date.month != other.month:
		return compareInts(int(date.month), int(other.month))
	default:
		return compareInts(date.day, other.day)
	}
}

func (date Date) MarshalText() ([]byte, error) {
	return []byte(date.String()), nil
}

func (date *Date) UnmarshalText(raw []byte) error {
	parsed, err := ParseDate(string(raw))
	if err != nil {
		return err
	}
	*date = parsed
	return nil
}

func (date Date) utc() time.Time {
	return time.Date(date.year, date.month, date.day, 0, 0, 0, 0, time.UTC)
}

// withDay clamps day to the last day of the month instead of overflowing.
func (date Date) withDay(day int) Date {
	last := time.Date(date.year, date.month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > last {
		day = last
	}
	return Date{year: date.year, month: date.month, day: day}
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
