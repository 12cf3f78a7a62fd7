package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/username/fastdate/internal/calendar"
	"github.com/username/fastdate/internal/convert"
	"github.com/username/fastdate/internal/verify"
	"github.com/username/fastdate/pkg/dateutil"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func dateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "date [days...]",
		Short: "Convert day offsets to dates (today when no offset is given)",
		Long: "Convert day offsets to dates (today when no offset is given). " +
			"Put -- before negative offsets, e.g. fastdate date -- -1.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				today := dateutil.Today()
				fmt.Fprintf(out, "%d\t%s\n", today, dateutil.DaysToDate(today))
				return nil
			}
			for _, arg := range args {
				days, err := dateutil.ParseDayOffset(arg)
				if err != nil {
					return fmt.Errorf("invalid day offset: %w", err)
				}
				fmt.Fprintln(out, dateutil.DaysToDate(days))
			}
			return nil
		},
	}
}

func daysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "days <date>...",
		Short: "Convert dates (YYYY-MM-DD or DD.MM.YYYY) to day offsets",
		Long: "Convert dates (YYYY-MM-DD or DD.MM.YYYY) to day offsets. " +
			"Put -- before dates with negative years, e.g. fastdate days -- -0001-12-31.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				date, err := dateutil.ParseDate(arg)
				if err != nil {
					return fmt.Errorf("invalid date: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), dateutil.DateToDays(date))
			}
			return nil
		},
	}
}

func convertCmd() *cobra.Command {
	var (
		inputPath  string
		outputPath string
		direction  string
		format     string
		encoding   string
		strict     bool
	)

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a file of day offsets or dates",
		Long: "Read one day offset or date per line from --file and write the converted records to --output. " +
			"Use - for stdin or stdout.",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("direction") {
				direction = cfg.Convert.Direction
			}
			if !flags.Changed("format") {
				format = cfg.Convert.Format
			}
			if !flags.Changed("encoding") {
				encoding = cfg.Convert.Encoding
			}
			if !flags.Changed("strict") {
				strict = cfg.Convert.Strict
			}

			dir, err := convert.ParseDirection(direction)
			if err != nil {
				return err
			}
			fmtKind, err := convert.ParseFormat(format)
			if err != nil {
				return err
			}
			enc, err := convert.ParseEncoding(encoding)
			if err != nil {
				return err
			}

			in := cmd.InOrStdin()
			if inputPath != "-" {
				f, err := os.Open(inputPath)
				if err != nil {
					return fmt.Errorf("failed to open input: %w", err)
				}
				defer f.Close()
				in = f
			}

			var out io.Writer = cmd.OutOrStdout()
			var outFile *os.File
			if outputPath != "-" {
				outFile, err = os.Create(outputPath)
				if err != nil {
					return fmt.Errorf("failed to create output: %w", err)
				}
				defer outFile.Close()
				out = outFile
			}

			logger.Info("Starting conversion",
				zap.String("file", inputPath),
				zap.String("output", outputPath),
				zap.String("direction", string(dir)),
				zap.String("format", string(fmtKind)),
				zap.String("encoding", string(enc)),
				zap.Bool("strict", strict))

			converter := convert.NewConverter(dir, fmtKind, enc, strict, logger)
			summary, err := converter.Convert(cmd.Context(), in, out)
			if err != nil {
				if convert.IsInvalidInput(err) {
					return fmt.Errorf("invalid input in %s: %w", inputPath, err)
				}
				return fmt.Errorf("conversion failed: %w", err)
			}
			if outFile != nil {
				if err := outFile.Close(); err != nil {
					return fmt.Errorf("failed to close output: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Converted %d value(s), skipped %d, wrote %s\n",
					summary.Processed, summary.Skipped, outputPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "file", "f", "-", "Input file (- for stdin)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "-", "Output file (- for stdout)")
	cmd.Flags().StringVar(&direction, "direction", "auto", "auto, to-date or to-days")
	cmd.Flags().StringVar(&format, "format", "text", "text, json or yaml")
	cmd.Flags().StringVar(&encoding, "encoding", "none", "none or base64")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail on the first invalid line instead of skipping it")

	return cmd
}

func verifyCmd() *cobra.Command {
	var (
		from    int64
		to      int64
		workers int
		sample  int
		seed    int64
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check the converter's invariants over a day range",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("from") {
				from = cfg.Verify.From
			}
			if !flags.Changed("to") {
				to = cfg.Verify.To
			}
			if !flags.Changed("workers") {
				workers = cfg.Verify.Workers
			}

			v := verify.NewVerifier(workers, cfg.Verify.GetChunkSize(), cfg.Verify.GetMaxViolations(), logger)
			var report *verify.Report
			var err error
			if sample > 0 {
				report, err = v.Sample(cmd.Context(), from, to, sample, seed)
			} else {
				report, err = v.Run(cmd.Context(), from, to)
			}
			if err != nil {
				return err
			}

			p := message.NewPrinter(language.English)
			out := cmd.OutOrStdout()
			p.Fprintf(out, "Checked %d days (%v .. %v) with %d workers in %v\n",
				report.Checked,
				dateutil.DaysToDate(report.From),
				dateutil.DaysToDate(report.To),
				v.Workers,
				report.Duration.Round(time.Millisecond))
			if report.OK() {
				fmt.Fprintln(out, "All invariants hold")
				return nil
			}

			for _, violation := range report.Violations {
				fmt.Fprintf(out, "  %v\n", violation)
			}
			if report.Truncated {
				fmt.Fprintln(out, "  ...")
			}
			return fmt.Errorf("found violations in [%d, %d]", from, to)
		},
	}

	cmd.Flags().Int64Var(&from, "from", -100000, "First day offset to check")
	cmd.Flags().Int64Var(&to, "to", 1000000, "Last day offset to check")
	cmd.Flags().IntVar(&workers, "workers", 0, "Number of workers (0 uses GOMAXPROCS)")
	cmd.Flags().IntVar(&sample, "sample", 0, "Check this many random days instead of the whole range")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Seed for --sample (0 uses the clock)")

	return cmd
}

func monthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "month <YYYY-MM>",
		Short: "Print a month calendar with workday counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, month, err := parseYearMonth(args[0])
			if err != nil {
				return err
			}

			var cal calendar.Calendar = calendar.NewGregorian()
			if cfg.Calendar.HolidaysFile != "" {
				fc := calendar.NewFileCalendar(cfg.Calendar.HolidaysFile, cal, logger)
				if err := fc.Load(); err != nil {
					return fmt.Errorf("failed to load holidays: %w", err)
				}
				cal = fc
			}

			mi, err := cal.GetMonthInfo(year, month)
			if err != nil {
				return err
			}
			renderMonth(cmd.OutOrStdout(), mi)
			return nil
		},
	}
}

// parseYearMonth parses YYYY-MM, allowing a signed year of any width.
func parseYearMonth(s string) (int64, time.Month, error) {
	i := strings.LastIndex(s, "-")
	if i <= 0 || i == len(s)-1 {
		return 0, 0, fmt.Errorf("invalid month %q, expected YYYY-MM", s)
	}
	year, err := strconv.ParseInt(s[:i], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year in %q: %w", s, err)
	}
	m, err := strconv.Atoi(s[i+1:])
	if err != nil || m < 1 || m > 12 {
		return 0, 0, fmt.Errorf("invalid month in %q: %w", s, dateutil.ErrInvalidMonth)
	}
	return year, time.Month(m), nil
}

func renderMonth(w io.Writer, mi *calendar.MonthInfo) {
	fmt.Fprintf(w, "%s %d\n", mi.Month, mi.Year)
	fmt.Fprintln(w, "Mo Tu We Th Fr Sa Su")
	for _, row := range calendar.Grid(mi) {
		cells := make([]string, len(row))
		for i, day := range row {
			if day == 0 {
				cells[i] = "  "
			} else {
				cells[i] = fmt.Sprintf("%2d", day)
			}
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, " "), " "))
	}

	fmt.Fprintf(w, "\nWorkdays: %d (%dh)  Weekends: %d  Holidays: %d\n",
		mi.WorkDays, mi.WorkingHours, mi.Weekends, mi.Holidays)
	for _, day := range mi.Days {
		if day.Note != "" || (day.Type != calendar.DayTypeWorkday && day.Type != calendar.DayTypeWeekend) {
			fmt.Fprintf(w, "  %s %-9s %s\n", day.Date, day.Type, day.Note)
		}
	}
}
