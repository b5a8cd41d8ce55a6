package record

import "testing"

func TestStringAliasOrder(t *testing.T) {
	r := Record{"companyName": "บริษัท เอ จำกัด", "company_name_th": "บริษัท บี จำกัด"}
	if got := r.String("company_name_th", "companyName"); got != "บริษัท บี จำกัด" {
		t.Fatalf("expected first alias to win, got %q", got)
	}
	if got := r.String("companyNameTh", "companyName"); got != "บริษัท เอ จำกัด" {
		t.Fatalf("expected fallback alias, got %q", got)
	}
}

func TestIntPreservesZero(t *testing.T) {
	r := Record{"numberOfEmployees": float64(0), "number_of_employees": float64(25)}
	n := r.Int("numberOfEmployees", "number_of_employees")
	if n == nil || *n != 0 {
		t.Fatalf("expected 0 preserved, got %v", n)
	}
	if r.Int("missing") != nil {
		t.Fatal("expected nil for absent key")
	}
}

func TestDottedPath(t *testing.T) {
	r := Record{"address": map[string]any{"addressNumber": "99/1"}}
	if got := r.String("address_number", "address.addressNumber"); got != "99/1" {
		t.Fatalf("expected nested value, got %q", got)
	}
}

func TestTaggedListDuality(t *testing.T) {
	asArray := Record{"addresses": []any{
		map[string]any{"address_type": "1", "province": "ชลบุรี"},
		map[string]any{"address_type": "2", "province": "ระยอง"},
	}}
	asObject := Record{"addresses": map[string]any{
		"1": map[string]any{"province": "ชลบุรี"},
		"2": map[string]any{"province": "ระยอง"},
	}}

	find := func(list []Record, tag string) string {
		for _, entry := range list {
			if entry.String("address_type") == tag {
				return entry.String("province")
			}
		}
		return ""
	}

	arr := asArray.TaggedList("addresses", "address_type")
	obj := asObject.TaggedList("addresses", "address_type")
	if find(arr, "2") != "ระยอง" || find(obj, "2") != "ระยอง" {
		t.Fatalf("array/object shapes diverged: %q vs %q", find(arr, "2"), find(obj, "2"))
	}
	if find(arr, "1") != find(obj, "1") {
		t.Fatalf("array/object shapes diverged for type 1")
	}
}

func TestNumericIDsStringify(t *testing.T) {
	r := Record{"industrialGroupIds": []any{float64(5), "9"}}
	ids := r.Strings("industrialGroupIds")
	if len(ids) != 2 || ids[0] != "5" || ids[1] != "9" {
		t.Fatalf("unexpected ids: %v", ids)
	}
}
