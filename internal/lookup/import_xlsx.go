package lookup

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"memberdoc/internal"
)

// ImportXLSX reads a registry published as a spreadsheet. Column positions
// are inferred from the header row by probe, Thai and English headers both
// accepted; rows without an id/code or a name are skipped.
func ImportXLSX(path string) ([]internal.GroupEntry, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	out := []internal.GroupEntry{}
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		if len(rows) < 2 {
			continue
		}

		headers := make([]string, 0, len(rows[0]))
		for _, h := range rows[0] {
			headers = append(headers, strings.ToLower(strings.TrimSpace(h)))
		}

		idIdx := findHeaderIndex(headers, []string{"id", "รหัส", "member_group_id"})
		codeIdx := findHeaderIndex(headers, []string{"member_group_code", "code", "รหัสกลุ่ม"})
		nameThIdx := findHeaderIndex(headers, []string{"name_th", "member_group_name", "ชื่อกลุ่ม", "ชื่อ (ไทย)", "ชื่อ"})
		nameEnIdx := findHeaderIndex(headers, []string{"name_en", "member_group_name_en", "ชื่อ (อังกฤษ)", "english"})
		if idIdx < 0 && codeIdx < 0 {
			continue
		}

		for _, row := range rows[1:] {
			entry := internal.GroupEntry{
				ID:     pickCell(row, idIdx),
				Code:   pickCell(row, codeIdx),
				NameTh: pickCell(row, nameThIdx),
				NameEn: pickCell(row, nameEnIdx),
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
			out = append(out, entry)
		}
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("no registry rows found in %s", path)
	}
	return out, nil
}

func findHeaderIndex(headers []string, probes []string) int {
	for i, h := range headers {
		for _, probe := range probes {
			if strings.Contains(h, probe) {
				return i
			}
		}
	}
	return -1
}

func pickCell(cells []string, idx int) string {
	if idx >= 0 && idx < len(cells) {
		return strings.TrimSpace(cells[idx])
	}
	return ""
}
