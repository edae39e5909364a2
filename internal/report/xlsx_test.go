package report

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestSaveXLSX(t *testing.T) {
	log, err := Load(writeLog(t, sampleLog))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "report.xlsx")
	if err := SaveXLSX(log, path); err != nil {
		t.Fatalf("SaveXLSX failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to reopen workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "Summary" || sheets[1] != "Trials" {
		t.Fatalf("Unexpected sheets: %v", sheets)
	}

	trialCount, err := f.GetCellValue("Summary", "B2")
	if err != nil {
		t.Fatalf("GetCellValue failed: %v", err)
	}
	if trialCount != "4" {
		t.Errorf("Expected 4 trials in summary, got %q", trialCount)
	}

	header, err := f.GetCellValue("Trials", "A1")
	if err != nil {
		t.Fatalf("GetCellValue failed: %v", err)
	}
	if header != "V_rf" {
		t.Errorf("Expected V_rf header, got %q", header)
	}

	// The penalized row's empty depth stays an empty cell.
	empty, err := f.GetCellValue("Trials", "C3")
	if err != nil {
		t.Fatalf("GetCellValue failed: %v", err)
	}
	if empty != "" {
		t.Errorf("Expected empty cell for missing metric, got %q", empty)
	}
}
