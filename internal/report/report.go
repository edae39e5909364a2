package report

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"

	"github.com/Nikhil-Marella/Hard-Nanos-HardHaq/pkg/utils"
)

// Log is a finished trial log loaded back from disk. Missing metric fields
// (penalized trials) are represented as NaN.
type Log struct {
	Path    string
	Columns []string
	Rows    [][]float64
}

// Load reads a CSV trial log. The first row is the header; every later row
// must have the same width.
func Load(path string) (*Log, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read log %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("log %s is empty", path)
	}

	columns := records[0]
	rows := make([][]float64, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) != len(columns) {
			return nil, fmt.Errorf("log %s row %d has %d fields, header has %d", path, i+1, len(rec), len(columns))
		}
		row := make([]float64, len(rec))
		for j, field := range rec {
			if field == "" {
				row[j] = math.NaN()
				continue
			}
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("log %s row %d column %s: %w", path, i+1, columns[j], err)
			}
			row[j] = v
		}
		rows = append(rows, row)
	}

	return &Log{Path: path, Columns: columns, Rows: rows}, nil
}

// ColumnIndex returns the position of the named column, or -1.
func (l *Log) ColumnIndex(name string) int {
	for i, c := range l.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Best returns the index of the row with the highest score.
func (l *Log) Best() (int, bool) {
	scoreCol := l.ColumnIndex("score")
	if scoreCol < 0 || len(l.Rows) == 0 {
		return 0, false
	}
	best := -1
	for i, row := range l.Rows {
		if math.IsNaN(row[scoreCol]) {
			continue
		}
		if best < 0 || row[scoreCol] > l.Rows[best][scoreCol] {
			best = i
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}

// Top returns up to n row indexes ordered by descending score.
func (l *Log) Top(n int) []int {
	scoreCol := l.ColumnIndex("score")
	if scoreCol < 0 {
		return nil
	}
	idx := make([]int, 0, len(l.Rows))
	for i, row := range l.Rows {
		if !math.IsNaN(row[scoreCol]) {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return l.Rows[idx[a]][scoreCol] > l.Rows[idx[b]][scoreCol]
	})
	if n > 0 && len(idx) > n {
		idx = idx[:n]
	}
	return idx
}

// ColumnStats summarizes one numeric column, ignoring missing values.
type ColumnStats struct {
	Name   string
	Count  int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	P95    float64
}

// Stats computes per-column summary statistics across all rows.
func (l *Log) Stats() []ColumnStats {
	stats := make([]ColumnStats, 0, len(l.Columns))
	for j, name := range l.Columns {
		values := make([]float64, 0, len(l.Rows))
		for _, row := range l.Rows {
			if !math.IsNaN(row[j]) {
				values = append(values, row[j])
			}
		}
		cs := ColumnStats{Name: name, Count: len(values)}
		if len(values) > 0 {
			cs.Mean = utils.Mean(values)
			cs.StdDev = utils.StdDev(values)
			cs.P95 = utils.Percentile(values, 95)
			cs.Min = values[0]
			cs.Max = values[0]
			for _, v := range values[1:] {
				cs.Min = utils.MinFloat64(cs.Min, v)
				cs.Max = utils.MaxFloat64(cs.Max, v)
			}
		}
		stats = append(stats, cs)
	}
	return stats
}
