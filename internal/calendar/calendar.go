package calendar

import (
	"time"

	"github.com/username/fastdate/pkg/dateutil"
)

// DayType represents the type of day
type DayType int

const (
	DayTypeWorkday DayType = iota + 1
	DayTypeWeekend
	DayTypeHoliday
	DayTypeShortened
)

// Working hours assigned to workdays and shortened pre-holiday days.
const (
	HoursPerWorkday   = 8
	HoursPerShortened = 7
)

func (t DayType) String() string {
	switch t {
	case DayTypeWorkday:
		return "workday"
	case DayTypeWeekend:
		return "weekend"
	case DayTypeHoliday:
		return "holiday"
	case DayTypeShortened:
		return "shortened"
	}
	return "unknown"
}

// IsWorking reports whether a day of this type is worked.
func (t DayType) IsWorking() bool {
	return t == DayTypeWorkday || t == DayTypeShortened
}

// Hours returns the working hours of a day of this type.
func (t DayType) Hours() int {
	switch t {
	case DayTypeWorkday:
		return HoursPerWorkday
	case DayTypeShortened:
		return HoursPerShortened
	}
	return 0
}

// ParseDayType parses the names produced by DayType.String.
func ParseDayType(s string) (DayType, bool) {
	for _, t := range []DayType{DayTypeWorkday, DayTypeWeekend, DayTypeHoliday, DayTypeShortened} {
		if t.String() == s {
			return t, true
		}
	}
	return 0, false
}

// DayInfo represents information about a specific day
type DayInfo struct {
	Date         dateutil.Date
	Days         int64 // offset from 1970-01-01
	Weekday      time.Weekday
	Type         DayType
	WorkingHours int
	Note         string
}

// MonthInfo represents calendar information for a month
type MonthInfo struct {
	Year         int64
	Month        time.Month
	WorkingHours int // Total working hours in the month
	WorkDays     int
	Weekends     int
	Holidays     int
	Days         []DayInfo
}

// recount recomputes the month totals from Days.
func (mi *MonthInfo) recount() {
	mi.WorkingHours, mi.WorkDays, mi.Weekends, mi.Holidays = 0, 0, 0, 0
	for _, day := range mi.Days {
		switch {
		case day.Type.IsWorking():
			mi.WorkDays++
			mi.WorkingHours += day.WorkingHours
		case day.Type == DayTypeWeekend:
			mi.Weekends++
		case day.Type == DayTypeHoliday:
			mi.Holidays++
		}
	}
}

// Calendar interface for checking working days
type Calendar interface {
	// GetMonthInfo returns calendar info for the entire month
	GetMonthInfo(year int64, month time.Month) (*MonthInfo, error)

	// GetDayInfo returns detailed info for a specific day
	GetDayInfo(date dateutil.Date) (*DayInfo, error)
}

// IsWorkday checks if the given date is a working day and returns its
// working hours.
func IsWorkday(cal Calendar, date dateutil.Date) (bool, int, error) {
	dayInfo, err := cal.GetDayInfo(date)
	if err != nil {
		return false, 0, err
	}
	return dayInfo.Type.IsWorking(), dayInfo.WorkingHours, nil
}

// Grid lays the month out in Monday-first week rows. Cells outside the
// month are 0.
func Grid(mi *MonthInfo) [][7]int {
	if len(mi.Days) == 0 {
		return nil
	}
	col := mondayIndex(mi.Days[0].Weekday)
	var rows [][7]int
	var row [7]int
	for _, day := range mi.Days {
		row[col] = day.Date.Day
		if col++; col == 7 {
			rows = append(rows, row)
			row, col = [7]int{}, 0
		}
	}
	if col > 0 {
		rows = append(rows, row)
	}
	return rows
}

func mondayIndex(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}
