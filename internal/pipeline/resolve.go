package pipeline

import (
	"memberdoc/internal"
	"memberdoc/internal/lookup"
	"memberdoc/internal/record"
)

// Display caps keep the rendered document inside its two-page budget. They
// never alter the underlying lists, only the rendered view.
const (
	maxDisplayGroups   = 10
	maxDisplayChapters = 10
	maxDisplayProducts = 12
)

var (
	groupNameKeys   = []string{"industryGroupName", "industry_group_name", "name_th", "nameTh", "MEMBER_GROUP_NAME", "name"}
	chapterNameKeys = []string{"provinceChapterName", "province_chapter_name", "name_th", "nameTh", "MEMBER_GROUP_NAME", "name"}
)

// ResolveGroupNames turns group references into display names. Per group
// type, in order: a names array already embedded in the record, an array of
// id+name objects, and finally bare ids resolved through the lookup tables.
// An empty result means the section is omitted from the document.
func ResolveGroupNames(app internal.CanonicalApplication, raw record.Record, groups, chapters lookup.Tables) internal.ResolvedGroups {
	return internal.ResolvedGroups{
		IndustrialGroupNames: resolveNames(raw, app.IndustrialGroupIDs, groups,
			[]string{"industrialGroupNames", "industrial_group_names"},
			[]string{"industryGroups", "industrialGroups", "industrial_groups"},
			groupNameKeys),
		ProvincialChapterNames: resolveNames(raw, app.ProvincialChapterIDs, chapters,
			[]string{"provincialChapterNames", "provincial_chapter_names"},
			[]string{"provinceChapters", "provincialChapters", "provincial_chapters"},
			chapterNameKeys),
	}
}

func resolveNames(raw record.Record, ids []string, table lookup.Tables, nameListKeys, objectListKeys []string, nameKeys []string) []string {
	if names := raw.Strings(nameListKeys...); len(names) > 0 {
		return names
	}

	if entries := raw.Slice(objectListKeys...); len(entries) > 0 {
		out := make([]string, 0, len(entries))
		for _, entry := range entries {
			if name := entry.String(nameKeys...); name != "" {
				out = append(out, name)
			}
		}
		if len(out) > 0 {
			return out
		}
	}

	if len(ids) == 0 || table.Empty() {
		return nil
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := table.NameByRef(id); ok {
			out = append(out, name)
		}
	}
	return out
}

// DisplayLists is the truncated view handed to the template, with the extra
// counts feeding the "+N" footer lines.
type DisplayLists struct {
	IndustrialGroupNames   []string
	ProvincialChapterNames []string
	Products               []internal.Product

	ExtraGroups   int
	ExtraChapters int
	ExtraProducts int
}

// LimitDisplayLists caps groups and chapters at 10 entries each and products
// at 12, without mutating the inputs.
func LimitDisplayLists(resolved internal.ResolvedGroups, products []internal.Product) DisplayLists {
	lists := DisplayLists{
		IndustrialGroupNames:   resolved.IndustrialGroupNames,
		ProvincialChapterNames: resolved.ProvincialChapterNames,
		Products:               products,
	}
	if n := len(lists.IndustrialGroupNames); n > maxDisplayGroups {
		lists.IndustrialGroupNames = lists.IndustrialGroupNames[:maxDisplayGroups]
		lists.ExtraGroups = n - maxDisplayGroups
	}
	if n := len(lists.ProvincialChapterNames); n > maxDisplayChapters {
		lists.ProvincialChapterNames = lists.ProvincialChapterNames[:maxDisplayChapters]
		lists.ExtraChapters = n - maxDisplayChapters
	}
	if n := len(lists.Products); n > maxDisplayProducts {
		lists.Products = lists.Products[:maxDisplayProducts]
		lists.ExtraProducts = n - maxDisplayProducts
	}
	return lists
}
