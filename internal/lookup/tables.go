package lookup

import (
	"encoding/json"
	"strings"

	"memberdoc/internal"
	"memberdoc/internal/record"
)

// Tables resolves group references to display names. References arrive
// either as generic ids or as federation MEMBER_GROUP_CODE values, so both
// are indexed.
type Tables struct {
	byID   map[string]internal.GroupEntry
	byCode map[string]internal.GroupEntry
}

func Build(entries []internal.GroupEntry) Tables {
	t := Tables{
		byID:   map[string]internal.GroupEntry{},
		byCode: map[string]internal.GroupEntry{},
	}
	for _, e := range entries {
		if id := strings.TrimSpace(e.ID); id != "" {
			t.byID[id] = e
		}
		if code := strings.TrimSpace(e.Code); code != "" {
			t.byCode[code] = e
		}
	}
	return t
}

func (t Tables) Empty() bool {
	return len(t.byID) == 0 && len(t.byCode) == 0
}

// NameByRef resolves one reference, preferring the generic id index over the
// member-group code index, Thai name over English.
func (t Tables) NameByRef(ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", false
	}
	entry, ok := t.byID[ref]
	if !ok {
		entry, ok = t.byCode[ref]
	}
	if !ok {
		return "", false
	}
	if entry.NameTh != "" {
		return entry.NameTh, true
	}
	if entry.NameEn != "" {
		return entry.NameEn, true
	}
	return "", false
}

var (
	entryIDAliases     = []string{"id", "ID", "groupId", "group_id", "MEMBER_GROUP_ID"}
	entryCodeAliases   = []string{"MEMBER_GROUP_CODE", "member_group_code", "code", "groupCode", "group_code"}
	entryNameThAliases = []string{"name_th", "nameTh", "MEMBER_GROUP_NAME", "member_group_name", "name"}
	entryNameEnAliases = []string{"name_en", "nameEn", "MEMBER_GROUP_NAME_EN", "member_group_name_en"}
)

// EntriesFromRecords converts a loosely-shaped lookup payload (API response
// rows or caller-provided tables) into registry entries.
func EntriesFromRecords(rows []record.Record) []internal.GroupEntry {
	out := make([]internal.GroupEntry, 0, len(rows))
	for _, row := range rows {
		entry := internal.GroupEntry{
			ID:     row.String(entryIDAliases...),
			Code:   row.String(entryCodeAliases...),
			NameTh: row.String(entryNameThAliases...),
			NameEn: row.String(entryNameEnAliases...),
		}
		if entry.ID == "" && entry.Code == "" {
			continue
		}
		if entry.NameTh == "" && entry.NameEn == "" {
			continue
		}
		if entry.ID == "" {
			entry.ID = entry.Code
		}
		raw, _ := json.Marshal(row)
		entry.RawJSON = string(raw)
		out = append(out, entry)
	}
	return out
}

// FromAny builds tables straight from an untyped lookup payload, the shape
// callers hand to the generation entry point.
func FromAny(v any) Tables {
	arr, ok := v.([]any)
	if !ok {
		return Build(nil)
	}
	rows := make([]record.Record, 0, len(arr))
	for _, item := range arr {
		if m := record.From(item); m != nil {
			rows = append(rows, m)
		}
	}
	return Build(EntriesFromRecords(rows))
}
