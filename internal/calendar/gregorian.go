package calendar

import (
	"fmt"
	"time"

	"github.com/username/fastdate/pkg/dateutil"
)

// Gregorian is a Calendar with Monday to Friday workdays and no holidays.
type Gregorian struct{}

// NewGregorian creates a plain Gregorian calendar
func NewGregorian() *Gregorian {
	return &Gregorian{}
}

// GetMonthInfo returns calendar info for the entire month
func (g *Gregorian) GetMonthInfo(year int64, month time.Month) (*MonthInfo, error) {
	first := dateutil.Date{Year: year, Month: month, Day: 1}
	start, err := dateutil.DateToDaysChecked(first)
	if err != nil {
		return nil, fmt.Errorf("invalid month %d-%02d: %w", year, int(month), err)
	}
	n := dateutil.DaysInMonth(year, month)
	if !dateutil.ValidDay(start + int64(n) - 1) {
		return nil, fmt.Errorf("invalid month %d-%02d: %w", year, int(month), dateutil.ErrOutOfRange)
	}

	mi := &MonthInfo{
		Year:  year,
		Month: month,
		Days:  make([]DayInfo, 0, n),
	}
	for days := start; days < start+int64(n); days++ {
		mi.Days = append(mi.Days, dayInfo(days))
	}
	mi.recount()
	return mi, nil
}

// GetDayInfo returns detailed info for a specific day
func (g *Gregorian) GetDayInfo(date dateutil.Date) (*DayInfo, error) {
	days, err := dateutil.DateToDaysChecked(date)
	if err != nil {
		return nil, err
	}
	info := dayInfo(days)
	return &info, nil
}

func dayInfo(days int64) DayInfo {
	wd := dateutil.WeekdayOf(days)
	t := DayTypeWorkday
	if wd == time.Saturday || wd == time.Sunday {
		t = DayTypeWeekend
	}
	return DayInfo{
		Date:         dateutil.DaysToDate(days),
		Days:         days,
		Weekday:      wd,
		Type:         t,
		WorkingHours: t.Hours(),
	}
}
