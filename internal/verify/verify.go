// Package verify sweeps ranges of day offsets in parallel and checks that
// every converted date obeys the calendar invariants.
package verify

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"cloudeng.io/errors"
	"cloudeng.io/sync/errgroup"
	"github.com/username/fastdate/pkg/dateutil"
	"github.com/username/fastdate/pkg/random"
	"go.uber.org/zap"
)

// Names of the individual checks reported in a Violation.
const (
	CheckMonthRange = "month-range"
	CheckDayRange   = "day-range"
	CheckLeapDay    = "leap-day"
	CheckCentury    = "century-leap-day"
	CheckRoundTrip  = "round-trip"
	CheckSequential = "sequential"
)

const (
	defaultChunkSize     = 65536
	defaultMaxViolations = 20
)

// Violation describes one day whose conversion broke an invariant.
type Violation struct {
	Day   int64
	Date  dateutil.Date
	Check string
	Info  string
}

func (v *Violation) Error() string {
	if v.Info == "" {
		return fmt.Sprintf("day %d (%v): %s", v.Day, v.Date, v.Check)
	}
	return fmt.Sprintf("day %d (%v): %s: %s", v.Day, v.Date, v.Check, v.Info)
}

// Report is the outcome of a sweep.
type Report struct {
	From       int64
	To         int64
	Checked    int64
	Violations []*Violation
	Truncated  bool // more violations were found than were kept
	Duration   time.Duration
}

// OK reports whether the sweep found no violations.
func (r *Report) OK() bool {
	return len(r.Violations) == 0
}

// Err returns the violations as a single multi-error, or nil.
func (r *Report) Err() error {
	var errs errors.M
	for _, v := range r.Violations {
		errs.Append(v)
	}
	return errs.Err()
}

// Verifier checks DaysToDate over a day range using a pool of workers.
type Verifier struct {
	Workers       int
	ChunkSize     int64
	MaxViolations int
	logger        *zap.Logger
}

// NewVerifier creates a verifier. Zero values select GOMAXPROCS workers,
// 65536-day chunks and at most 20 retained violations.
func NewVerifier(workers int, chunkSize int64, maxViolations int, logger *zap.Logger) *Verifier {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	if maxViolations <= 0 {
		maxViolations = defaultMaxViolations
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Verifier{
		Workers:       workers,
		ChunkSize:     chunkSize,
		MaxViolations: maxViolations,
		logger:        logger,
	}
}

// collector keeps the first MaxViolations violations seen by any worker.
type collector struct {
	mu    sync.Mutex
	max   int
	found int64
	kept  []*Violation
}

func (c *collector) add(v *Violation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.found++
	if len(c.kept) < c.max {
		c.kept = append(c.kept, v)
	}
}

// Run checks every day d in [from, to], including the step from d to d+1.
// It returns an error only for an invalid range or a cancelled context;
// broken invariants are reported through the Report.
func (v *Verifier) Run(ctx context.Context, from, to int64) (*Report, error) {
	if err := checkBounds(from, to); err != nil {
		return nil, err
	}

	start := time.Now()
	v.logger.Info("Starting verification",
		zap.Int64("from", from),
		zap.Int64("to", to),
		zap.Int("workers", v.Workers),
		zap.Int64("chunk_size", v.ChunkSize))

	chunks := make(chan int64)
	found := &collector{max: v.MaxViolations}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(chunks)
		for lo := from; ; lo += v.ChunkSize {
			select {
			case chunks <- lo:
			case <-gctx.Done():
				return gctx.Err()
			}
			if to-lo < v.ChunkSize {
				return nil
			}
		}
	})

	for i := 0; i < v.Workers; i++ {
		g.Go(func() error {
			for lo := range chunks {
				hi := to
				if to-lo >= v.ChunkSize {
					hi = lo + v.ChunkSize - 1
				}
				if err := checkRange(gctx, lo, hi, found.add); err != nil {
					return err
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("verification interrupted: %w", err)
	}
	// errgroup's context is cancelled by Wait, so check the caller's too.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("verification interrupted: %w", err)
	}

	return v.finish(from, to, to-from+1, found, start), nil
}

func checkBounds(from, to int64) error {
	if from > to {
		return fmt.Errorf("invalid range: from %d is after to %d", from, to)
	}
	if from < dateutil.MinDay || to > dateutil.MaxDay-1 {
		return fmt.Errorf("range [%d, %d] outside [%d, %d]: %w",
			from, to, dateutil.MinDay, dateutil.MaxDay-1, dateutil.ErrOutOfRange)
	}
	return nil
}

func (v *Verifier) finish(from, to, checked int64, found *collector, start time.Time) *Report {
	sort.Slice(found.kept, func(i, j int) bool { return found.kept[i].Day < found.kept[j].Day })
	report := &Report{
		From:       from,
		To:         to,
		Checked:    checked,
		Violations: found.kept,
		Truncated:  found.found > int64(len(found.kept)),
		Duration:   time.Since(start),
	}

	if report.OK() {
		v.logger.Info("Verification passed",
			zap.Int64("checked", report.Checked),
			zap.Duration("duration", report.Duration))
	} else {
		v.logger.Warn("Verification found violations",
			zap.Int64("checked", report.Checked),
			zap.Int64("violations", found.found),
			zap.Error(report.Err()))
	}
	return report
}

// Sample checks n days drawn uniformly from [from, to] with the given seed
// (0 picks one from the clock). It is meant for ranges too large to sweep.
func (v *Verifier) Sample(ctx context.Context, from, to int64, n int, seed int64) (*Report, error) {
	if err := checkBounds(from, to); err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, fmt.Errorf("sample size must be positive, got %d", n)
	}

	start := time.Now()
	v.logger.Info("Starting sampled verification",
		zap.Int64("from", from),
		zap.Int64("to", to),
		zap.Int("samples", n),
		zap.Int64("seed", seed))

	days := random.Days(random.New(seed), from, to, n)
	found := &collector{max: v.MaxViolations}
	g, gctx := errgroup.WithContext(ctx)
	for _, chunk := range random.Split(days, v.Workers) {
		chunk := chunk
		g.Go(func() error {
			for i, d := range chunk {
				if i&0xfff == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				date := dateutil.DaysToDate(d)
				for _, violation := range CheckDay(d, date, dateutil.DaysToDate(d+1)) {
					found.add(violation)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("verification interrupted: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("verification interrupted: %w", err)
	}

	return v.finish(from, to, int64(n), found, start), nil
}

// checkRange checks days lo..hi inclusive. The date of each day is reused
// as the predecessor of the next so every day is converted once.
func checkRange(ctx context.Context, lo, hi int64, report func(*Violation)) error {
	prev := dateutil.DaysToDate(lo)
	for d := lo; d <= hi; d++ {
		if (d-lo)&0xffff == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		next := dateutil.DaysToDate(d + 1)
		for _, v := range CheckDay(d, prev, next) {
			report(v)
		}
		prev = next
	}
	return nil
}

// CheckDay returns the violations for day d given its converted date and
// the converted date of d+1.
func CheckDay(d int64, date, next dateutil.Date) []*Violation {
	var out []*Violation
	fail := func(check, format string, args ...any) {
		out = append(out, &Violation{Day: d, Date: date, Check: check, Info: fmt.Sprintf(format, args...)})
	}

	if date.Month < time.January || date.Month > time.December {
		fail(CheckMonthRange, "month %d", int(date.Month))
		return out
	}
	if dim := dateutil.DaysInMonth(date.Year, date.Month); date.Day < 1 || date.Day > dim {
		fail(CheckDayRange, "day %d not in 1..%d", date.Day, dim)
	}
	if date.Month == time.February && date.Day == 29 {
		if date.Year%4 != 0 {
			fail(CheckLeapDay, "year %d is not a leap year", date.Year)
		} else if date.Year%100 == 0 && date.Year%400 != 0 {
			fail(CheckCentury, "century year %d is not divisible by 400", date.Year)
		}
	}
	if back := dateutil.DateToDays(date); back != d {
		fail(CheckRoundTrip, "converts back to %d", back)
	}
	if !isNextDay(date, next) {
		fail(CheckSequential, "followed by %v", next)
	}
	return out
}

func isNextDay(a, b dateutil.Date) bool {
	switch {
	case a.Year == b.Year && a.Month == b.Month:
		return b.Day == a.Day+1
	case a.Year == b.Year:
		return b.Month == a.Month+1 && b.Day == 1 &&
			a.Day == dateutil.DaysInMonth(a.Year, a.Month)
	default:
		return b.Year == a.Year+1 && a.Month == time.December && a.Day == 31 &&
			b.Month == time.January && b.Day == 1
	}
}
