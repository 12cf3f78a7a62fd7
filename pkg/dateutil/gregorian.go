package dateutil

import (
	"fmt"
	"time"
)

const (
	epochYear       = 1970
	daysPer400Years = 146097
)

// IsLeapYear returns true if year is a leap year: divisible by 4,
// except centuries, which must be divisible by 400.
func IsLeapYear(year int64) bool {
	return year%4 == 0 && year%100 != 0 || year%400 == 0
}

// DaysInMonth returns the number of days in the given month of year.
// It returns 0 for a month outside January-December.
func DaysInMonth(year int64, month time.Month) int {
	switch month {
	case time.January, time.March, time.May, time.July, time.August, time.October, time.December:
		return 31
	case time.April, time.June, time.September, time.November:
		return 30
	case time.February:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 0
	}
}

// DaysInYear returns 366 for leap years and 365 otherwise.
func DaysInYear(year int64) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

// DateToDays returns the day offset of d from 1970-01-01 by plain
// accumulation: whole 400-year cycles, then whole years, then whole
// months, then the day within the month. It is the reference inverse of
// DaysToDate and makes no attempt to be fast.
//
// A month outside January-December or a day below 1 yields 0. A day past
// the end of the month is not rejected; use DateToDaysChecked for that.
func DateToDays(d Date) int64 {
	if d.Month < time.January || d.Month > time.December || d.Day < 1 {
		return 0
	}

	// Every 400-year span holds exactly 146097 days wherever it starts.
	cycles := (d.Year - epochYear) / 400
	days := cycles * daysPer400Years
	base := epochYear + cycles*400

	for y := base; y < d.Year; y++ {
		days += int64(DaysInYear(y))
	}
	for y := d.Year; y < base; y++ {
		days -= int64(DaysInYear(y))
	}

	for m := time.January; m < d.Month; m++ {
		days += int64(DaysInMonth(d.Year, m))
	}

	return days + int64(d.Day) - 1
}

// DateToDaysChecked validates d before converting it.
func DateToDaysChecked(d Date) (int64, error) {
	if err := d.Validate(); err != nil {
		return 0, fmt.Errorf("invalid date %v: %w", d, err)
	}
	return DateToDays(d), nil
}
