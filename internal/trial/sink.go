package trial

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// Sink receives one record per trial. Implementations must make the record
// durable before returning: a crash after WriteTrial loses at most the trial
// in flight, never a written one.
type Sink interface {
	WriteTrial(rec *Record) error
	Close() error
}

// CSVSink appends trial records to a CSV file. The file is truncated at open,
// the header row is written immediately, and every record is flushed and
// fsynced before WriteTrial returns.
type CSVSink struct {
	file       *os.File
	w          *csv.Writer
	paramNames []string
}

// NewCSVSink creates (truncating) the log file and writes the header row:
// parameter names in declaration order, the metric names, then score.
func NewCSVSink(path string, paramNames []string) (*CSVSink, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file %s: %w", path, err)
	}

	s := &CSVSink{
		file:       file,
		w:          csv.NewWriter(file),
		paramNames: append([]string(nil), paramNames...),
	}

	header := make([]string, 0, len(paramNames)+len(MetricNames)+1)
	header = append(header, paramNames...)
	header = append(header, MetricNames...)
	header = append(header, "score")
	if err := s.w.Write(header); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to write log header: %w", err)
	}
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to flush log header: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to sync log header: %w", err)
	}
	return s, nil
}

// WriteTrial appends one row in header column order and forces it to disk.
// A missing metric serializes as an empty field.
func (s *CSVSink) WriteTrial(rec *Record) error {
	if len(rec.Params) != len(s.paramNames) {
		return fmt.Errorf("record has %d params, log expects %d", len(rec.Params), len(s.paramNames))
	}

	row := make([]string, 0, len(rec.Params)+len(MetricNames)+1)
	for _, v := range rec.Params {
		row = append(row, formatFloat(v))
	}
	for _, m := range []Metric{rec.Depth, rec.Offset, rec.Power} {
		if m.Valid {
			row = append(row, formatFloat(m.Value))
		} else {
			row = append(row, "")
		}
	}
	row = append(row, formatFloat(rec.Score))

	if err := s.w.Write(row); err != nil {
		return fmt.Errorf("failed to write log row: %w", err)
	}
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		return fmt.Errorf("failed to flush log row: %w", err)
	}
	if err := s.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync log row: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file.
func (s *CSVSink) Close() error {
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
