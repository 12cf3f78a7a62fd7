package calendar

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/username/fastdate/pkg/dateutil"
	"go.uber.org/zap"
)

// FileCalendar overlays day types read from a local text file on top of
// another Calendar.
type FileCalendar struct {
	filePath string
	base     Calendar
	logger   *zap.Logger

	mu        sync.RWMutex
	overrides map[int64]override // key: day offset
}

type override struct {
	dayType DayType
	note    string
}

// NewFileCalendar creates a new FileCalendar instance
func NewFileCalendar(filePath string, base Calendar, logger *zap.Logger) *FileCalendar {
	if base == nil {
		base = NewGregorian()
	}
	return &FileCalendar{
		filePath:  filePath,
		base:      base,
		logger:    logger,
		overrides: make(map[int64]override),
	}
}

// Load loads calendar data from file
func (fc *FileCalendar) Load() error {
	file, err := os.Open(fc.filePath)
	if err != nil {
		return fmt.Errorf("failed to open calendar file: %w", err)
	}
	defer file.Close()

	if err := fc.Read(file); err != nil {
		return err
	}

	fc.logger.Info("Calendar file loaded",
		zap.String("file", fc.filePath),
		zap.Int("days", fc.Len()))
	return nil
}

// Read replaces the overlay with the entries read from r.
func (fc *FileCalendar) Read(r io.Reader) error {
	overrides := make(map[int64]override)
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Format: YYYY-MM-DD type [note]
		// Example: 2025-01-01 holiday New Year's Day
		parts := strings.SplitN(line, " ", 3)
		if len(parts) < 2 {
			fc.logger.Warn("Invalid line format", zap.Int("line", lineNo), zap.String("value", line))
			continue
		}

		date, err := dateutil.ParseDate(parts[0])
		if err != nil {
			fc.logger.Warn("Failed to parse date",
				zap.Int("line", lineNo),
				zap.String("date", parts[0]),
				zap.Error(err))
			continue
		}

		dayType, ok := ParseDayType(parts[1])
		if !ok {
			fc.logger.Warn("Unknown day type", zap.Int("line", lineNo), zap.String("type", parts[1]))
			continue
		}

		note := ""
		if len(parts) == 3 {
			note = strings.TrimSpace(parts[2])
		}
		overrides[dateutil.DateToDays(date)] = override{dayType: dayType, note: note}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading calendar file: %w", err)
	}

	fc.mu.Lock()
	fc.overrides = overrides
	fc.mu.Unlock()
	return nil
}

// Len returns the number of overridden days.
func (fc *FileCalendar) Len() int {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	return len(fc.overrides)
}

// GetMonthInfo returns calendar info for the entire month
func (fc *FileCalendar) GetMonthInfo(year int64, month time.Month) (*MonthInfo, error) {
	mi, err := fc.base.GetMonthInfo(year, month)
	if err != nil {
		return nil, err
	}

	fc.mu.RLock()
	for i := range mi.Days {
		fc.apply(&mi.Days[i])
	}
	fc.mu.RUnlock()

	mi.recount()
	return mi, nil
}

// GetDayInfo returns detailed info for a specific day
func (fc *FileCalendar) GetDayInfo(date dateutil.Date) (*DayInfo, error) {
	info, err := fc.base.GetDayInfo(date)
	if err != nil {
		return nil, err
	}

	fc.mu.RLock()
	fc.apply(info)
	fc.mu.RUnlock()
	return info, nil
}

// apply must be called with mu held.
func (fc *FileCalendar) apply(day *DayInfo) {
	o, ok := fc.overrides[day.Days]
	if !ok {
		return
	}
	day.Type = o.dayType
	day.WorkingHours = o.dayType.Hours()
	day.Note = o.note
}
