package catalog_test

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/medrevise/spiral/internal/catalog"
)

// writeWorkbook builds a ratings workbook fixture with one sheet per
// subject.
func writeWorkbook(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "cardiology"); err != nil {
		t.Fatalf("renaming sheet: %v", err)
	}
	rows := [][]any{
		{"Topic", "Difficulty", "Clinical", "Exam", "Group"},
		{"Heart Failure", 8, 9, 8, "Ischaemic heart disease"},
		{"ACS", 7, 9, 9, "Ischaemic heart disease"},
		{"Endocarditis", 6, 7, 5, ""},
		{"", 1, 1, 1, ""},          // blank topic, skipped
		{"Bad Row", "x", "y", "z"}, // unparseable ratings, skipped
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("cardiology", cell, &row); err != nil {
			t.Fatalf("writing row %d: %v", i+1, err)
		}
	}

	if _, err := f.NewSheet("respiratory medicine"); err != nil {
		t.Fatalf("adding sheet: %v", err)
	}
	respRows := [][]any{
		{"Topic", "Difficulty", "Clinical", "Exam"},
		{"Asthma", 5, 8, 8},
	}
	for i, row := range respRows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("respiratory medicine", cell, &row); err != nil {
			t.Fatalf("writing row %d: %v", i+1, err)
		}
	}

	// An empty sheet yields no subject.
	if _, err := f.NewSheet("notes"); err != nil {
		t.Fatalf("adding sheet: %v", err)
	}

	path := filepath.Join(t.TempDir(), "ratings.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("saving workbook: %v", err)
	}
	return path
}

func TestImportWorkbook(t *testing.T) {
	path := writeWorkbook(t)

	subjects, err := catalog.ImportWorkbook(path, map[string]int{"Cardiology": 3})
	if err != nil {
		t.Fatalf("ImportWorkbook() error = %v", err)
	}
	if len(subjects) != 2 {
		t.Fatalf("subjects count = %d, want 2", len(subjects))
	}

	cardio := subjects[0]
	if cardio.Name != "Cardiology" {
		t.Errorf("subject name = %q, want Cardiology", cardio.Name)
	}
	if cardio.BaseBlocks != 3 {
		t.Errorf("BaseBlocks = %d, want 3", cardio.BaseBlocks)
	}
	if len(cardio.Topics) != 3 {
		t.Fatalf("topics count = %d, want 3 (bad rows skipped)", len(cardio.Topics))
	}
	if cardio.Topics[0].Ratings.Difficulty != 8 {
		t.Errorf("difficulty = %v, want 8", cardio.Topics[0].Ratings.Difficulty)
	}
	if len(cardio.ConditionGroups) != 1 {
		t.Fatalf("condition groups = %d, want 1", len(cardio.ConditionGroups))
	}
	if len(cardio.ConditionGroups[0].Conditions) != 2 {
		t.Errorf("group members = %d, want 2", len(cardio.ConditionGroups[0].Conditions))
	}

	resp := subjects[1]
	if resp.Name != "Respiratory medicine" {
		t.Errorf("subject name = %q, want %q", resp.Name, "Respiratory medicine")
	}
	if resp.BaseBlocks != 0 {
		t.Errorf("BaseBlocks = %d, want 0 (no override)", resp.BaseBlocks)
	}
	if len(resp.Topics) != 1 {
		t.Errorf("topics count = %d, want 1", len(resp.Topics))
	}
}

func TestImportWorkbook_MissingFile(t *testing.T) {
	if _, err := catalog.ImportWorkbook(filepath.Join(t.TempDir(), "missing.xlsx"), nil); err == nil {
		t.Error("ImportWorkbook() should return error for missing file")
	}
}
