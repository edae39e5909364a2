package report

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "log.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write log: %v", err)
	}
	return path
}

const sampleLog = `V_rf,rod_radius,depth_eV,offset_mm,P_est_mW,score
300,0.002,4.0,0.002,900,6.6
350,0.002,,,,-1e+06
400,0.0025,5.5,0.001,1100,11.9
250,0.0018,3.2,0.004,700,4.3
`

func TestLoad(t *testing.T) {
	log, err := Load(writeLog(t, sampleLog))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(log.Columns) != 6 {
		t.Errorf("Expected 6 columns, got %d", len(log.Columns))
	}
	if len(log.Rows) != 4 {
		t.Errorf("Expected 4 rows, got %d", len(log.Rows))
	}
	if log.Rows[0][0] != 300 {
		t.Errorf("Expected V_rf 300 in first row, got %g", log.Rows[0][0])
	}

	// Empty fields come back as NaN.
	if !math.IsNaN(log.Rows[1][2]) {
		t.Errorf("Expected NaN for empty depth field, got %g", log.Rows[1][2])
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "Empty file", content: ""},
		{name: "Non-numeric field", content: "a,score\nhello,1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeLog(t, tt.content)); err == nil {
				t.Fatalf("expected error for %s", tt.name)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestColumnIndex(t *testing.T) {
	log, err := Load(writeLog(t, sampleLog))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if i := log.ColumnIndex("score"); i != 5 {
		t.Errorf("Expected score at column 5, got %d", i)
	}
	if i := log.ColumnIndex("missing"); i != -1 {
		t.Errorf("Expected -1 for unknown column, got %d", i)
	}
}

func TestBest(t *testing.T) {
	log, err := Load(writeLog(t, sampleLog))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	best, ok := log.Best()
	if !ok {
		t.Fatal("expected a best row")
	}
	if best != 2 {
		t.Errorf("Expected row 2 (score 11.9), got %d", best)
	}
}

func TestBestNoScores(t *testing.T) {
	log, err := Load(writeLog(t, "V_rf,depth_eV\n300,4.0\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, ok := log.Best(); ok {
		t.Error("expected no best row without a score column")
	}
}

func TestTop(t *testing.T) {
	log, err := Load(writeLog(t, sampleLog))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	top := log.Top(2)
	if len(top) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(top))
	}
	if top[0] != 2 || top[1] != 0 {
		t.Errorf("Expected rows [2 0], got %v", top)
	}

	// Zero keeps every scored row, descending.
	all := log.Top(0)
	if len(all) != 4 {
		t.Errorf("Expected all 4 scored rows, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		scoreCol := log.ColumnIndex("score")
		if log.Rows[all[i-1]][scoreCol] < log.Rows[all[i]][scoreCol] {
			t.Errorf("Top not sorted descending at position %d", i)
		}
	}
}

func TestStats(t *testing.T) {
	log, err := Load(writeLog(t, sampleLog))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	stats := log.Stats()
	if len(stats) != 6 {
		t.Fatalf("Expected stats for 6 columns, got %d", len(stats))
	}

	var depth ColumnStats
	for _, cs := range stats {
		if cs.Name == "depth_eV" {
			depth = cs
		}
	}
	// The penalized row's empty depth must not count.
	if depth.Count != 3 {
		t.Errorf("Expected 3 depth values, got %d", depth.Count)
	}
	wantMean := (4.0 + 5.5 + 3.2) / 3.0
	if math.Abs(depth.Mean-wantMean) > 1e-9 {
		t.Errorf("Expected depth mean %g, got %g", wantMean, depth.Mean)
	}
	if depth.Min != 3.2 || depth.Max != 5.5 {
		t.Errorf("Expected depth range [3.2, 5.5], got [%g, %g]", depth.Min, depth.Max)
	}
}
