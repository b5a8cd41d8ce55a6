package pipeline

import (
	"fmt"
	"testing"

	"memberdoc/internal"
	"memberdoc/internal/lookup"
	"memberdoc/internal/record"
)

func TestResolveGroupNamesFromIDs(t *testing.T) {
	raw := record.Record{"industrialGroupIds": []any{float64(5), float64(9)}}
	app := ProcessData(raw, internal.TypeOC)

	groups := lookup.Build([]internal.GroupEntry{
		{ID: "5", NameTh: "กลุ่ม A"},
		{ID: "9", NameTh: "กลุ่ม B"},
	})

	resolved := ResolveGroupNames(app, raw, groups, lookup.Build(nil))
	want := []string{"กลุ่ม A", "กลุ่ม B"}
	if len(resolved.IndustrialGroupNames) != 2 {
		t.Fatalf("got %v", resolved.IndustrialGroupNames)
	}
	for i, name := range want {
		if resolved.IndustrialGroupNames[i] != name {
			t.Fatalf("got %v, want %v", resolved.IndustrialGroupNames, want)
		}
	}
	if len(resolved.ProvincialChapterNames) != 0 {
		t.Fatalf("chapters should be empty, got %v", resolved.ProvincialChapterNames)
	}
}

func TestResolveGroupNamesPrefersEmbeddedNames(t *testing.T) {
	raw := record.Record{
		"industrialGroupIds": []any{"5"},
		"industryGroups": []any{
			map[string]any{"industryGroupName": "กลุ่มฝังมากับข้อมูล"},
		},
	}
	app := ProcessData(raw, internal.TypeOC)

	// Table says something else on purpose; the embedded name must win.
	groups := lookup.Build([]internal.GroupEntry{{ID: "5", NameTh: "กลุ่มจากตาราง"}})
	resolved := ResolveGroupNames(app, raw, groups, lookup.Build(nil))
	if len(resolved.IndustrialGroupNames) != 1 || resolved.IndustrialGroupNames[0] != "กลุ่มฝังมากับข้อมูล" {
		t.Fatalf("got %v", resolved.IndustrialGroupNames)
	}
}

func TestLimitDisplayLists(t *testing.T) {
	names := make([]string, 15)
	for i := range names {
		names[i] = fmt.Sprintf("กลุ่มที่ %d", i+1)
	}
	resolved := internal.ResolvedGroups{IndustrialGroupNames: names}

	lists := LimitDisplayLists(resolved, nil)
	if len(lists.IndustrialGroupNames) != 10 || lists.ExtraGroups != 5 {
		t.Fatalf("got %d shown, extra %d", len(lists.IndustrialGroupNames), lists.ExtraGroups)
	}
	if len(resolved.IndustrialGroupNames) != 15 {
		t.Fatal("underlying list mutated")
	}

	short := LimitDisplayLists(internal.ResolvedGroups{IndustrialGroupNames: names[:10]}, nil)
	if short.ExtraGroups != 0 {
		t.Fatalf("extra should be 0 at the cap, got %d", short.ExtraGroups)
	}
}

func TestLimitDisplayListsProducts(t *testing.T) {
	products := make([]internal.Product, 14)
	for i := range products {
		products[i] = internal.Product{NameTh: fmt.Sprintf("สินค้า %d", i+1)}
	}
	lists := LimitDisplayLists(internal.ResolvedGroups{}, products)
	if len(lists.Products) != 12 || lists.ExtraProducts != 2 {
		t.Fatalf("got %d shown, extra %d", len(lists.Products), lists.ExtraProducts)
	}
}
