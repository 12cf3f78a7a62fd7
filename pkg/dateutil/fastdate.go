package dateutil

import (
	"fmt"
	"math/bits"
	"time"
)

// Fixed-point constants for DaysToDate. eras is the number of 400-year
// cycles added so that every supported day maps to a non-negative value
// in the reversed frame.
const (
	eras   = 4726498270
	dShift = 146097*eras - 719469
	yShift = 400*eras - 1

	c1 = 505054698555331   // floor(2^64 * 4 / 146097)
	c2 = 50504432782230121 // ceil(2^64 * 4 / 1461)
	c3 = 8619973866219416  // floor(2^64 / 2140)

	yptScale      = 782432
	marchBoundary = 126464
	shiftJanFeb   = 191360
	shiftMarDec   = 977792
)

// MinDay and MaxDay bound the day offsets for which DaysToDate is exact.
// Beyond MaxDay the reversed value wraps; below MinDay the error of c1
// exceeds one day per 400-year cycle.
const (
	MinDay int64 = -690527216875308 // -1890599303630-10-28
	MaxDay int64 = dShift           // 1890599308000-02-29
)

var (
	minDate = Date{Year: -1890599303630, Month: time.October, Day: 28}
	maxDate = Date{Year: 1890599308000, Month: time.February, Day: 29}
)

// DaysToDate converts a day offset from 1970-01-01 into a proleptic
// Gregorian date without loops or data-dependent branches. Divisions are
// replaced by multiplications with fixed-point reciprocals; only the high
// or low 64 bits of each 128-bit product are kept.
//
// The result is exact for MinDay <= days <= MaxDay and unspecified outside it.
func DaysToDate(days int64) Date {
	// Later dates become smaller values so the century correction below
	// only ever adds.
	rev := uint64(dShift - days)

	// Skipped leap days of non-400 centuries, folded back into a plain
	// four year cycle.
	cen, _ := bits.Mul64(rev, c1)
	jul := rev + cen - cen/4

	// High word: elapsed years in the reversed frame. Low word: position
	// within the year as a 64-bit fraction.
	hi, lo := bits.Mul64(jul, c2)
	yrs := yShift - hi
	ypt, _ := bits.Mul64(lo, yptScale)

	// Internal years start on March 1. bump is 1 for January and February,
	// taken from the sign bit so no branch is emitted.
	bump := (ypt - marchBoundary) >> 63
	shift := shiftMarDec - bump*(shiftMarDec-shiftJanFeb)

	// n packs month<<16 | day*2140; yrs%4 is the unsigned remainder,
	// which keeps years before 0 on the same leap phase.
	n := yrs%4*512 + shift - ypt
	d, _ := bits.Mul64(n%65536, c3)

	return Date{
		Year:  int64(yrs + bump),
		Month: time.Month(n >> 16),
		Day:   int(d) + 1,
	}
}

// ValidDay reports whether days lies within [MinDay, MaxDay].
func ValidDay(days int64) bool {
	return days >= MinDay && days <= MaxDay
}

// DaysToDateChecked is DaysToDate with an ErrOutOfRange error for offsets
// outside [MinDay, MaxDay].
func DaysToDateChecked(days int64) (Date, error) {
	if !ValidDay(days) {
		return Date{}, fmt.Errorf("%w: day %d not in [%d, %d]", ErrOutOfRange, days, MinDay, MaxDay)
	}
	return DaysToDate(days), nil
}

// WeekdayOf returns the day of the week for a day offset.
// 1970-01-01 was a Thursday.
func WeekdayOf(days int64) time.Weekday {
	w := (days + int64(time.Thursday)) % 7
	if w < 0 {
		w += 7
	}
	return time.Weekday(w)
}
