package driver

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/Nikhil-Marella/Hard-Nanos-HardHaq/internal/search"
	"github.com/Nikhil-Marella/Hard-Nanos-HardHaq/pkg/config"
	"github.com/Nikhil-Marella/Hard-Nanos-HardHaq/pkg/objective"
)

func fakeStudy(t *testing.T) *config.Study {
	t.Helper()
	study := config.DefaultStudy()
	study.Engine = config.Engine{Type: "fake"}
	study.Optimizer.MaxIterations = 30
	study.Log.Path = filepath.Join(t.TempDir(), "log.csv")
	// The surrogate's numbers are synthetic; plausibility bounds would
	// penalize everything and hide the scoring path.
	study.Sanity = nil
	return study
}

func TestRunWithFakeEngine(t *testing.T) {
	study := fakeStudy(t)

	res, err := Run(context.Background(), study)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(res.BestParams) != len(study.Parameters) {
		t.Errorf("Expected %d best params, got %d", len(study.Parameters), len(res.BestParams))
	}
	if len(res.ParamNames) != len(res.BestParams) {
		t.Errorf("Name/value length mismatch: %d vs %d", len(res.ParamNames), len(res.BestParams))
	}
	if res.Trials == 0 {
		t.Error("Expected at least one trial")
	}
	if res.Trials != res.Search.Evaluations {
		t.Errorf("Trial count %d does not match evaluations %d", res.Trials, res.Search.Evaluations)
	}

	// Best parameters must be the search's point mapped back to physical
	// units.
	for i, p := range study.Parameters {
		want := p.Low + res.Search.X[i]*(p.High-p.Low)
		if diff := res.BestParams[i] - want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("best %s = %g, expected denormalized %g", p.Name, res.BestParams[i], want)
		}
	}
}

func TestRunWritesTrialLog(t *testing.T) {
	study := fakeStudy(t)

	res, err := Run(context.Background(), study)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	f, err := os.Open(res.LogPath)
	if err != nil {
		t.Fatalf("log file missing: %v", err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}

	if len(records) != res.Trials+1 {
		t.Errorf("Expected %d rows (header plus trials), got %d", res.Trials+1, len(records))
	}
	wantCols := len(study.Parameters) + 3 + 1
	if len(records[0]) != wantCols {
		t.Errorf("Expected %d columns, got %d", wantCols, len(records[0]))
	}
	if records[0][0] != "V_rf" || records[0][wantCols-1] != "score" {
		t.Errorf("Unexpected header: %v", records[0])
	}
}

func TestRunCancelled(t *testing.T) {
	study := fakeStudy(t)
	study.Optimizer.MaxIterations = 100000

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := Run(ctx, study)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Search.Reason != "cancelled" {
		t.Errorf("Expected cancelled search, got %q", res.Search.Reason)
	}
}

func TestRunUnknownEngine(t *testing.T) {
	study := fakeStudy(t)
	study.Engine.Type = "comsol"

	if _, err := Run(context.Background(), study); err == nil {
		t.Fatal("expected error for unknown engine type")
	}
}

func TestBuildMinimizer(t *testing.T) {
	study := fakeStudy(t)

	m, err := buildMinimizer(study)
	if err != nil {
		t.Fatalf("buildMinimizer failed: %v", err)
	}
	if _, ok := m.(*search.NelderMead); !ok {
		t.Errorf("Expected NelderMead, got %T", m)
	}

	study.Optimizer.Algorithm = config.AlgorithmDifferentialEvolution
	study.Optimizer.Normalized = false
	m, err = buildMinimizer(study)
	if err != nil {
		t.Fatalf("buildMinimizer failed: %v", err)
	}
	de, ok := m.(*search.DifferentialEvolution)
	if !ok {
		t.Fatalf("Expected DifferentialEvolution, got %T", m)
	}
	// Physical-space DE gets the real parameter box.
	if len(de.Low) != len(study.Parameters) {
		t.Errorf("Expected physical bounds, got %v", de.Low)
	}
	if de.High[0] != study.Parameters[0].High {
		t.Errorf("Expected high bound %g, got %g", study.Parameters[0].High, de.High[0])
	}

	study.Optimizer.Algorithm = "gradient_descent"
	if _, err := buildMinimizer(study); err == nil {
		t.Error("expected error for unknown algorithm")
	}
}

func TestBuildSpaceInvalid(t *testing.T) {
	study := fakeStudy(t)
	study.Parameters = []config.Parameter{{Name: "V_rf", Low: 10, High: 1}}

	if _, err := buildSpace(study); err == nil {
		t.Fatal("expected error for inverted bounds")
	}
}

func TestBuildConstraint(t *testing.T) {
	study := fakeStudy(t)

	c := buildConstraint(study)
	if c == nil {
		t.Fatal("expected constraint from default study")
	}
	if c.SphereMult != 20.0 {
		t.Errorf("Expected sphere_mult 20, got %g", c.SphereMult)
	}
	if c.Padded {
		t.Error("fixed variant must not map to padded")
	}

	study.Constraint.Enabled = false
	if buildConstraint(study) != nil {
		t.Error("disabled constraint must map to nil")
	}

	study.Constraint = nil
	if buildConstraint(study) != nil {
		t.Error("absent constraint must map to nil")
	}
}

func TestRunScoreSignConvention(t *testing.T) {
	study := fakeStudy(t)
	study.Objective = objective.DefaultConfig()

	res, err := Run(context.Background(), study)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// The search minimizes the negated domain score.
	if res.BestScore != -res.Search.Score {
		t.Errorf("BestScore %g must be the negated search score %g", res.BestScore, res.Search.Score)
	}
}
