package utils

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"cryptoForecaster/internal/domain"
)

// barHeader is the column layout written by WriteBarsToCSV.
var barHeader = []string{"timestamp", "open_time", "close_time", "open", "high", "low", "close", "volume"}

// timestampLayouts are the textual timestamp formats accepted by ReadBarsFromCSV.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// WriteBarsToCSV writes bars to filename, replacing any existing file.
func WriteBarsToCSV(bars []*domain.PriceBar, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write(barHeader); err != nil {
		return err
	}
	for _, b := range bars {
		closeTime := ""
		if !b.CloseTime.IsZero() {
			closeTime = strconv.FormatInt(b.CloseTime.UnixMilli(), 10)
		}
		err := writer.Write([]string{
			b.Timestamp.UTC().Format(time.RFC3339),
			strconv.FormatInt(b.Timestamp.UnixMilli(), 10),
			closeTime,
			strconv.FormatFloat(b.Open, 'f', -1, 64),
			strconv.FormatFloat(b.High, 'f', -1, 64),
			strconv.FormatFloat(b.Low, 'f', -1, 64),
			strconv.FormatFloat(b.Close, 'f', -1, 64),
			strconv.FormatFloat(b.Volume, 'f', -1, 64),
		})
		if err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// ReadBarsFromCSV reads bars from filename. Columns are located by header name;
// extra columns are ignored. Either "timestamp" or "open_time" must be present.
func ReadBarsFromCSV(filename string) ([]*domain.PriceBar, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadBars(file)
}

// ReadBars parses CSV bar data and checks that timestamps strictly ascend.
func ReadBars(r io.Reader) ([]*domain.PriceBar, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty csv: missing header")
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range []string{"open", "high", "low", "close", "volume"} {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}
	tsCol, hasTS := cols["timestamp"]
	openTimeCol, hasOpenTime := cols["open_time"]
	if !hasTS && !hasOpenTime {
		return nil, errors.New("missing required column \"timestamp\" or \"open_time\"")
	}
	closeTimeCol, hasCloseTime := cols["close_time"]

	var bars []*domain.PriceBar
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		field := func(col int) string {
			if col < len(record) {
				return strings.TrimSpace(record[col])
			}
			return ""
		}

		b := &domain.PriceBar{}
		if hasTS {
			b.Timestamp, err = parseTimestamp(field(tsCol))
		} else {
			b.Timestamp, err = parseTimestamp(field(openTimeCol))
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if hasCloseTime && field(closeTimeCol) != "" {
			if b.CloseTime, err = parseTimestamp(field(closeTimeCol)); err != nil {
				return nil, fmt.Errorf("line %d: close_time: %w", line, err)
			}
		}

		values := []*float64{&b.Open, &b.High, &b.Low, &b.Close, &b.Volume}
		for i, name := range []string{"open", "high", "low", "close", "volume"} {
			v, err := strconv.ParseFloat(field(cols[name]), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: parsing %s: %w", line, name, err)
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("line %d: %s is not a finite number: %q", line, name, field(cols[name]))
			}
			*values[i] = v
		}

		if n := len(bars); n > 0 && !b.Timestamp.After(bars[n-1].Timestamp) {
			return nil, fmt.Errorf("line %d: timestamp %s does not follow %s", line,
				b.Timestamp.Format(time.RFC3339), bars[n-1].Timestamp.Format(time.RFC3339))
		}
		bars = append(bars, b)
	}
	return bars, nil
}

// parseTimestamp accepts epoch milliseconds or one of timestampLayouts (UTC).
func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}
