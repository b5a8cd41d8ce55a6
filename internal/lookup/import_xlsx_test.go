package lookup

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestImportXLSX(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "groups.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"MEMBER_GROUP_CODE", "MEMBER_GROUP_NAME", "NAME_EN"},
		{"MG-001", "กลุ่มอุตสาหกรรมอาหาร", "Food Processing"},
		{"MG-002", "กลุ่มอุตสาหกรรมยานยนต์", "Automotive"},
		{"", "", ""},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}

	entries, err := ImportXLSX(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Code != "MG-001" || entries[0].NameTh != "กลุ่มอุตสาหกรรมอาหาร" {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if entries[0].ID != "MG-001" {
		t.Fatalf("expected code promoted to id, got %q", entries[0].ID)
	}

	tables := Build(entries)
	if name, ok := tables.NameByRef("MG-002"); !ok || name != "กลุ่มอุตสาหกรรมยานยนต์" {
		t.Fatalf("lookup after import failed: %q %v", name, ok)
	}
}
