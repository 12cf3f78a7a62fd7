// Package dateutil converts between signed day offsets from 1970-01-01 and
// proleptic Gregorian calendar dates.
package dateutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidMonth  = errors.New("month out of range")
	ErrInvalidDay    = errors.New("day out of range")
	ErrOutOfRange    = errors.New("date outside supported range")
	ErrInvalidFormat = errors.New("invalid date format")
)

// Date is a proleptic Gregorian calendar date. Year 0 is 1 BC and
// negative years continue backwards from there.
type Date struct {
	Year  int64
	Month time.Month
	Day   int
}

// String formats the date as YYYY-MM-DD with at least four year digits,
// e.g. 1970-01-01, -0001-12-31 or 12345-06-07.
func (d Date) String() string {
	if d.Year < 0 {
		return fmt.Sprintf("-%04d-%02d-%02d", -d.Year, int(d.Month), d.Day)
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Validate checks that month and day exist and that the date lies within
// the range DaysToDate supports.
func (d Date) Validate() error {
	if d.Month < time.January || d.Month > time.December {
		return fmt.Errorf("%w: %d", ErrInvalidMonth, int(d.Month))
	}
	if dim := DaysInMonth(d.Year, d.Month); d.Day < 1 || d.Day > dim {
		return fmt.Errorf("%w: %d (month has %d days)", ErrInvalidDay, d.Day, dim)
	}
	if d.Before(minDate) || maxDate.Before(d) {
		return fmt.Errorf("%w: %v not in [%v, %v]", ErrOutOfRange, d, minDate, maxDate)
	}
	return nil
}

// Ordinal returns year*10000 + month*100 + day, which orders dates the
// same way the calendar does.
func (d Date) Ordinal() int64 {
	return d.Year*10000 + int64(d.Month)*100 + int64(d.Day)
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to
// or after o.
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return cmpInt(d.Year, o.Year)
	case d.Month != o.Month:
		return cmpInt(int64(d.Month), int64(o.Month))
	default:
		return cmpInt(int64(d.Day), int64(o.Day))
	}
}

func cmpInt(a, b int64) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// Before reports whether d is strictly earlier than o.
func (d Date) Before(o Date) bool {
	return d.Compare(o) < 0
}

// Weekday returns the day of the week of d.
func (d Date) Weekday() time.Weekday {
	return WeekdayOf(DateToDays(d))
}

// AddDays returns the date n days after d.
func (d Date) AddDays(n int64) Date {
	return DaysToDate(DateToDays(d) + n)
}

// Time returns midnight at the start of d in loc.
func (d Date) Time(loc *time.Location) time.Time {
	return time.Date(int(d.Year), d.Month, d.Day, 0, 0, 0, 0, loc)
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: int64(y), Month: m, Day: d}
}

// FromTime returns the day offset of the calendar date of t, evaluated in
// t's location rather than UTC.
func FromTime(t time.Time) int64 {
	return DateToDays(DateOf(t))
}

// Today returns the day offset of today's local date.
func Today() int64 {
	return FromTime(time.Now())
}

// ParseDate parses a date in YYYY-MM-DD or DD.MM.YYYY format. The year
// may have any number of digits and, for YYYY-MM-DD, a leading sign.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, fmt.Errorf("%w: empty value", ErrInvalidFormat)
	}

	var year, month, day string
	if strings.Contains(s, ".") {
		parts := strings.Split(s, ".")
		if len(parts) != 3 {
			return Date{}, fmt.Errorf("%w: %q, expected DD.MM.YYYY", ErrInvalidFormat, s)
		}
		day, month, year = parts[0], parts[1], parts[2]
	} else {
		sign := ""
		rest := s
		if s[0] == '-' || s[0] == '+' {
			sign, rest = s[:1], s[1:]
		}
		parts := strings.Split(rest, "-")
		if len(parts) != 3 {
			return Date{}, fmt.Errorf("%w: %q, expected YYYY-MM-DD", ErrInvalidFormat, s)
		}
		year, month, day = sign+parts[0], parts[1], parts[2]
	}

	if !isDigits(month, 2) || !isDigits(day, 2) {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	y, err := strconv.ParseInt(year, 10, 64)
	if err != nil {
		return Date{}, fmt.Errorf("%w: year %q: %v", ErrInvalidFormat, year, err)
	}
	m, _ := strconv.Atoi(month)
	dd, _ := strconv.Atoi(day)

	d := Date{Year: y, Month: time.Month(m), Day: dd}
	if err := d.Validate(); err != nil {
		return Date{}, err
	}
	return d, nil
}

// isDigits reports whether s is 1 to n ASCII digits.
func isDigits(s string, n int) bool {
	if len(s) == 0 || len(s) > n {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ParseDayOffset parses a signed decimal day offset and checks that it is
// within [MinDay, MaxDay].
func ParseDayOffset(s string) (int64, error) {
	days, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: day offset %q: %v", ErrInvalidFormat, s, err)
	}
	if !ValidDay(days) {
		return 0, fmt.Errorf("%w: day %d not in [%d, %d]", ErrOutOfRange, days, MinDay, MaxDay)
	}
	return days, nil
}
