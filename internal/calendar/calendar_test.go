package calendar

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/username/fastdate/pkg/dateutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func TestGregorian_GetMonthInfo(t *testing.T) {
	cal := NewGregorian()

	tests := []struct {
		name         string
		year         int64
		month        time.Month
		wantDays     int
		wantWork     int
		wantWeekends int
		wantFirst    time.Weekday
	}{
		{"January 2025", 2025, time.January, 31, 23, 8, time.Wednesday},
		{"February 2024", 2024, time.February, 29, 21, 8, time.Thursday},
		{"February 2021", 2021, time.February, 28, 20, 8, time.Monday},
		{"October 2026", 2026, time.October, 31, 22, 9, time.Thursday},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mi, err := cal.GetMonthInfo(tt.year, tt.month)
			if err != nil {
				t.Fatalf("GetMonthInfo() error = %v", err)
			}
			if len(mi.Days) != tt.wantDays {
				t.Errorf("Days count = %d, want %d", len(mi.Days), tt.wantDays)
			}
			if mi.WorkDays != tt.wantWork {
				t.Errorf("WorkDays = %d, want %d", mi.WorkDays, tt.wantWork)
			}
			if mi.Weekends != tt.wantWeekends {
				t.Errorf("Weekends = %d, want %d", mi.Weekends, tt.wantWeekends)
			}
			if mi.WorkingHours != tt.wantWork*HoursPerWorkday {
				t.Errorf("WorkingHours = %d, want %d", mi.WorkingHours, tt.wantWork*HoursPerWorkday)
			}
			if mi.Days[0].Weekday != tt.wantFirst {
				t.Errorf("first weekday = %v, want %v", mi.Days[0].Weekday, tt.wantFirst)
			}
			for i, day := range mi.Days {
				if day.Date.Day != i+1 || day.Date.Month != tt.month || day.Date.Year != tt.year {
					t.Fatalf("Days[%d] = %v", i, day.Date)
				}
				if want := day.Date.Time(time.UTC).Weekday(); day.Weekday != want {
					t.Errorf("%v weekday = %v, want %v", day.Date, day.Weekday, want)
				}
			}
		})
	}
}

func TestGregorian_Errors(t *testing.T) {
	cal := NewGregorian()

	if _, err := cal.GetMonthInfo(2025, 13); !errors.Is(err, dateutil.ErrInvalidMonth) {
		t.Errorf("GetMonthInfo(2025, 13) error = %v, want ErrInvalidMonth", err)
	}
	if _, err := cal.GetMonthInfo(-1890599303630, time.October); !errors.Is(err, dateutil.ErrOutOfRange) {
		t.Errorf("GetMonthInfo at MinDay error = %v, want ErrOutOfRange", err)
	}
	if _, err := cal.GetMonthInfo(1890599308000, time.February); err != nil {
		t.Errorf("GetMonthInfo at MaxDay error = %v", err)
	}
	if _, err := cal.GetDayInfo(dateutil.Date{Year: 2023, Month: 2, Day: 29}); !errors.Is(err, dateutil.ErrInvalidDay) {
		t.Errorf("GetDayInfo(2023-02-29) error = %v, want ErrInvalidDay", err)
	}
}

func TestGregorian_GetDayInfo(t *testing.T) {
	info, err := NewGregorian().GetDayInfo(dateutil.Date{Year: 2026, Month: 10, Day: 18})
	if err != nil {
		t.Fatalf("GetDayInfo() error = %v", err)
	}
	if info.Days != 20744 {
		t.Errorf("Days = %d, want 20744", info.Days)
	}
	if info.Weekday != time.Sunday || info.Type != DayTypeWeekend || info.WorkingHours != 0 {
		t.Errorf("GetDayInfo() = %+v, want a Sunday weekend", info)
	}
}

const holidays = `# Overrides for January 2025
2025-01-01 holiday New Year's Day
2025-01-02 holiday
07.01.2025 holiday Christmas
2025-01-04 workday transferred from 2025-01-02
2025-01-31 shortened

bad-line
2025-02-30 holiday impossible date
2025-01-10 vacation
`

func newTestFileCalendar(t *testing.T) *FileCalendar {
	t.Helper()
	fc := NewFileCalendar("", nil, zaptest.NewLogger(t))
	if err := fc.Read(strings.NewReader(holidays)); err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	return fc
}

func TestFileCalendar_GetMonthInfo(t *testing.T) {
	fc := newTestFileCalendar(t)

	if fc.Len() != 5 {
		t.Errorf("Len() = %d, want 5", fc.Len())
	}

	mi, err := fc.GetMonthInfo(2025, time.January)
	if err != nil {
		t.Fatalf("GetMonthInfo() error = %v", err)
	}
	if mi.Holidays != 3 {
		t.Errorf("Holidays = %d, want 3", mi.Holidays)
	}
	if mi.Weekends != 7 {
		t.Errorf("Weekends = %d, want 7", mi.Weekends)
	}
	if mi.WorkDays != 21 {
		t.Errorf("WorkDays = %d, want 21", mi.WorkDays)
	}
	if want := 20*HoursPerWorkday + HoursPerShortened; mi.WorkingHours != want {
		t.Errorf("WorkingHours = %d, want %d", mi.WorkingHours, want)
	}
	if mi.Days[0].Note != "New Year's Day" {
		t.Errorf("Jan 1 note = %q", mi.Days[0].Note)
	}

	// Months without overrides match the plain calendar.
	feb, err := fc.GetMonthInfo(2025, time.February)
	if err != nil {
		t.Fatalf("GetMonthInfo() error = %v", err)
	}
	plain, _ := NewGregorian().GetMonthInfo(2025, time.February)
	if !reflect.DeepEqual(feb, plain) {
		t.Errorf("February differs from the plain calendar")
	}
}

func TestFileCalendar_IsWorkday(t *testing.T) {
	fc := newTestFileCalendar(t)

	tests := []struct {
		name      string
		date      dateutil.Date
		wantWork  bool
		wantHours int
	}{
		{"holiday on a Wednesday", dateutil.Date{Year: 2025, Month: 1, Day: 1}, false, 0},
		{"transferred Saturday", dateutil.Date{Year: 2025, Month: 1, Day: 4}, true, HoursPerWorkday},
		{"plain Sunday", dateutil.Date{Year: 2025, Month: 1, Day: 5}, false, 0},
		{"plain Monday", dateutil.Date{Year: 2025, Month: 1, Day: 6}, true, HoursPerWorkday},
		{"shortened Friday", dateutil.Date{Year: 2025, Month: 1, Day: 31}, true, HoursPerShortened},
		{"unknown type ignored", dateutil.Date{Year: 2025, Month: 1, Day: 10}, true, HoursPerWorkday},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			work, hours, err := IsWorkday(fc, tt.date)
			if err != nil {
				t.Fatalf("IsWorkday() error = %v", err)
			}
			if work != tt.wantWork || hours != tt.wantHours {
				t.Errorf("IsWorkday(%v) = %v, %d, want %v, %d", tt.date, work, hours, tt.wantWork, tt.wantHours)
			}
		})
	}
}

func TestFileCalendar_Load(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	path := filepath.Join(t.TempDir(), "holidays.txt")
	if err := os.WriteFile(path, []byte(holidays), 0o644); err != nil {
		t.Fatal(err)
	}

	fc := NewFileCalendar(path, NewGregorian(), logger)
	if err := fc.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if fc.Len() != 5 {
		t.Errorf("Len() = %d, want 5", fc.Len())
	}

	missing := NewFileCalendar(filepath.Join(t.TempDir(), "none.txt"), nil, logger)
	if err := missing.Load(); err == nil {
		t.Error("Load() of a missing file succeeded")
	}
}

func TestGrid(t *testing.T) {
	mi, err := NewGregorian().GetMonthInfo(2025, time.January)
	if err != nil {
		t.Fatal(err)
	}
	want := [][7]int{
		{0, 0, 1, 2, 3, 4, 5},
		{6, 7, 8, 9, 10, 11, 12},
		{13, 14, 15, 16, 17, 18, 19},
		{20, 21, 22, 23, 24, 25, 26},
		{27, 28, 29, 30, 31, 0, 0},
	}
	if got := Grid(mi); !reflect.DeepEqual(got, want) {
		t.Errorf("Grid() = %v, want %v", got, want)
	}

	feb, _ := NewGregorian().GetMonthInfo(2021, time.February)
	if got := Grid(feb); len(got) != 4 || got[0][0] != 1 || got[3][6] != 28 {
		t.Errorf("Grid(February 2021) = %v", got)
	}

	if got := Grid(&MonthInfo{}); got != nil {
		t.Errorf("Grid(empty) = %v, want nil", got)
	}
}

func TestDayType(t *testing.T) {
	for _, dt := range []DayType{DayTypeWorkday, DayTypeWeekend, DayTypeHoliday, DayTypeShortened} {
		got, ok := ParseDayType(dt.String())
		if !ok || got != dt {
			t.Errorf("ParseDayType(%q) = %v, %v", dt.String(), got, ok)
		}
	}
	if _, ok := ParseDayType("vacation"); ok {
		t.Error("ParseDayType(vacation) succeeded")
	}
	if DayType(0).String() != "unknown" {
		t.Errorf("DayType(0).String() = %q", DayType(0).String())
	}
}
