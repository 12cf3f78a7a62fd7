// Package convert turns streams of day offsets or dates into converted
// records in text, JSON lines or YAML.
package convert

import (
	"bufio"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/username/fastdate/pkg/dateutil"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Direction selects how input lines are interpreted.
type Direction string

const (
	DirectionAuto   Direction = "auto"    // integers are day offsets, anything else a date
	DirectionToDate Direction = "to-date" // every line is a day offset
	DirectionToDays Direction = "to-days" // every line is a date
)

// Format selects the output representation.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Encoding is applied to the whole rendered output.
type Encoding string

const (
	EncodingNone   Encoding = "none"
	EncodingBase64 Encoding = "base64"
)

// ParseDirection validates a direction name.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(s)); d {
	case DirectionAuto, DirectionToDate, DirectionToDays:
		return d, nil
	case "":
		return DirectionAuto, nil
	}
	return "", fmt.Errorf("unknown direction %q (want auto, to-date or to-days)", s)
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatText, nil
	}
	return "", fmt.Errorf("unknown format %q (want text, json or yaml)", s)
}

// ParseEncoding validates an encoding name.
func ParseEncoding(s string) (Encoding, error) {
	switch e := Encoding(strings.ToLower(s)); e {
	case EncodingNone, EncodingBase64:
		return e, nil
	case "":
		return EncodingNone, nil
	}
	return "", fmt.Errorf("unknown encoding %q (want none or base64)", s)
}

// Record is one converted value.
type Record struct {
	Days    int64  `json:"days" yaml:"days"`
	Date    string `json:"date" yaml:"date"`
	Year    int64  `json:"year" yaml:"year"`
	Month   int    `json:"month" yaml:"month"`
	Day     int    `json:"day" yaml:"day"`
	Weekday string `json:"weekday" yaml:"weekday"`
}

// NewRecord builds the record for a day offset.
func NewRecord(days int64) Record {
	d := dateutil.DaysToDate(days)
	return Record{
		Days:    days,
		Date:    d.String(),
		Year:    d.Year,
		Month:   int(d.Month),
		Day:     d.Day,
		Weekday: dateutil.WeekdayOf(days).String(),
	}
}

// Summary describes a finished conversion.
type Summary struct {
	Processed int
	Skipped   int
	Duration  time.Duration
}

// Converter reads one value per line and writes one record per value.
type Converter struct {
	Direction Direction
	Format    Format
	Encoding  Encoding
	Strict    bool
	logger    *zap.Logger
}

// NewConverter creates a converter.
func NewConverter(direction Direction, format Format, encoding Encoding, strict bool, logger *zap.Logger) *Converter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Converter{
		Direction: direction,
		Format:    format,
		Encoding:  encoding,
		Strict:    strict,
		logger:    logger,
	}
}

// ParseLine converts a single input value to a day offset according to the
// converter's direction.
func (c *Converter) ParseLine(line string) (int64, error) {
	switch c.Direction {
	case DirectionToDate:
		return dateutil.ParseDayOffset(line)
	case DirectionToDays:
		return parseDate(line)
	case DirectionAuto, "":
		if _, err := strconv.ParseInt(line, 10, 64); err == nil {
			return dateutil.ParseDayOffset(line)
		}
		return parseDate(line)
	}
	return 0, fmt.Errorf("unknown direction %q", c.Direction)
}

func parseDate(s string) (int64, error) {
	d, err := dateutil.ParseDate(s)
	if err != nil {
		return 0, err
	}
	return dateutil.DateToDays(d), nil
}

// recordWriter renders records in one output format.
type recordWriter interface {
	Write(Record) error
	Close() error
}

type textWriter struct{ w io.Writer }

func (t *textWriter) Write(r Record) error {
	_, err := fmt.Fprintf(t.w, "%d\t%s\n", r.Days, r.Date)
	return err
}

func (t *textWriter) Close() error { return nil }

type jsonWriter struct{ enc *json.Encoder }

func (j *jsonWriter) Write(r Record) error { return j.enc.Encode(r) }
func (j *jsonWriter) Close() error         { return nil }

// yamlWriter buffers records and emits them as one sequence on Close.
type yamlWriter struct {
	w       io.Writer
	records []Record
}

func (y *yamlWriter) Write(r Record) error {
	y.records = append(y.records, r)
	return nil
}

func (y *yamlWriter) Close() error {
	if y.records == nil {
		y.records = []Record{}
	}
	enc := yaml.NewEncoder(y.w)
	enc.SetIndent(2)
	if err := enc.Encode(y.records); err != nil {
		return err
	}
	return enc.Close()
}

func (c *Converter) newRecordWriter(w io.Writer) (recordWriter, error) {
	switch c.Format {
	case FormatText, "":
		return &textWriter{w: w}, nil
	case FormatJSON:
		return &jsonWriter{enc: json.NewEncoder(w)}, nil
	case FormatYAML:
		return &yamlWriter{w: w}, nil
	}
	return nil, fmt.Errorf("unknown format %q", c.Format)
}

// Convert reads values from r and writes converted records to w. Blank
// lines and lines starting with # are ignored. Invalid lines are skipped
// with a warning, or abort the conversion when Strict is set.
func (c *Converter) Convert(ctx context.Context, r io.Reader, w io.Writer) (*Summary, error) {
	start := time.Now()
	summary := &Summary{}

	var encoder io.WriteCloser
	switch c.Encoding {
	case EncodingNone, "":
	case EncodingBase64:
		encoder = base64.NewEncoder(base64.StdEncoding, w)
		w = encoder
	default:
		return nil, fmt.Errorf("unknown encoding %q", c.Encoding)
	}

	buf := bufio.NewWriter(w)
	out, err := c.newRecordWriter(buf)
	if err != nil {
		return nil, err
	}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("conversion cancelled at line %d: %w", lineNo, err)
		}
		lineNo++

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		days, err := c.ParseLine(line)
		if err != nil {
			if c.Strict {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			c.logger.Warn("Skipping invalid line",
				zap.Int("line", lineNo),
				zap.String("value", line),
				zap.Error(err))
			summary.Skipped++
			continue
		}

		if err := out.Write(NewRecord(days)); err != nil {
			return nil, fmt.Errorf("failed to write record for line %d: %w", lineNo, err)
		}
		summary.Processed++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	if err := out.Close(); err != nil {
		return nil, fmt.Errorf("failed to render output: %w", err)
	}
	if err := buf.Flush(); err != nil {
		return nil, fmt.Errorf("failed to write output: %w", err)
	}
	if encoder != nil {
		if err := encoder.Close(); err != nil {
			return nil, fmt.Errorf("failed to finish base64 output: %w", err)
		}
	}

	summary.Duration = time.Since(start)
	c.logger.Info("Conversion finished",
		zap.Int("processed", summary.Processed),
		zap.Int("skipped", summary.Skipped),
		zap.Duration("duration", summary.Duration))
	return summary, nil
}

// IsInvalidInput reports whether err was caused by a bad input value rather
// than by I/O.
func IsInvalidInput(err error) bool {
	return errors.Is(err, dateutil.ErrInvalidFormat) ||
		errors.Is(err, dateutil.ErrInvalidMonth) ||
		errors.Is(err, dateutil.ErrInvalidDay) ||
		errors.Is(err, dateutil.ErrOutOfRange)
}
