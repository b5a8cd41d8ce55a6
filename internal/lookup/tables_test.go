package lookup

import (
	"testing"

	"memberdoc/internal"
	"memberdoc/internal/record"
)

func TestNameByRef(t *testing.T) {
	tables := Build([]internal.GroupEntry{
		{ID: "5", NameTh: "กลุ่ม A"},
		{ID: "9", Code: "MG-009", NameTh: "กลุ่ม B"},
		{ID: "12", NameEn: "Chapter C"},
	})

	if name, ok := tables.NameByRef("5"); !ok || name != "กลุ่ม A" {
		t.Fatalf("id lookup failed: %q %v", name, ok)
	}
	if name, ok := tables.NameByRef("MG-009"); !ok || name != "กลุ่ม B" {
		t.Fatalf("code lookup failed: %q %v", name, ok)
	}
	if name, ok := tables.NameByRef("12"); !ok || name != "Chapter C" {
		t.Fatalf("english fallback failed: %q %v", name, ok)
	}
	if _, ok := tables.NameByRef("404"); ok {
		t.Fatal("expected miss for unknown ref")
	}
}

func TestEntriesFromRecords(t *testing.T) {
	rows := []record.Record{
		{"id": float64(5), "name_th": "กลุ่ม A"},
		{"MEMBER_GROUP_CODE": "MG-009", "MEMBER_GROUP_NAME": "กลุ่ม B"},
		{"id": float64(7)}, // no name, dropped
	}
	entries := EntriesFromRecords(rows)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ID != "5" || entries[0].NameTh != "กลุ่ม A" {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].ID != "MG-009" || entries[1].Code != "MG-009" || entries[1].NameTh != "กลุ่ม B" {
		t.Fatalf("unexpected second entry: %+v", entries[1])
	}
}

func TestFromAny(t *testing.T) {
	tables := FromAny([]any{
		map[string]any{"id": float64(5), "name_th": "กลุ่ม A"},
	})
	if name, ok := tables.NameByRef("5"); !ok || name != "กลุ่ม A" {
		t.Fatalf("unexpected: %q %v", name, ok)
	}
	if !FromAny("not a list").Empty() {
		t.Fatal("expected empty tables for bad payload")
	}
}
