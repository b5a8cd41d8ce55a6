package pipeline

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"memberdoc/internal"
	"memberdoc/internal/images"
	"memberdoc/internal/record"
)

func renderDoc(t *testing.T, app internal.CanonicalApplication, lists DisplayLists, assets images.Assets) *goquery.Document {
	t.Helper()
	html, err := RenderHTML(app, lists, assets)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse rendered html: %v", err)
	}
	return doc
}

func TestRenderDeliveryAddressReplacesOffice(t *testing.T) {
	raw := record.Record{
		"companyNameTh": "บริษัท ทดสอบเรนเดอร์ จำกัด",
		"addresses": map[string]any{
			"1": map[string]any{"address_number": "99/1", "province": "นนทบุรี"},
			"2": map[string]any{
				"address_number": "200", "street": "พระราม 4", "province": "กรุงเทพมหานคร",
				"phone": "021234567", "email": "docs@example.co.th",
			},
		},
		"representatives": []any{
			map[string]any{"firstNameTh": "วิชัย", "lastNameTh": "รุ่งเรือง", "position": "กรรมการผู้จัดการ"},
		},
		"businessTypes": []any{"manufacturer"},
	}
	app := ProcessData(raw, internal.TypeOC)
	doc := renderDoc(t, app, LimitDisplayLists(internal.ResolvedGroups{}, app.Products), images.Assets{})

	address := doc.Find("#address")
	if address.Length() != 1 {
		t.Fatal("address section missing")
	}
	if !strings.Contains(address.Find("h2").Text(), "ที่อยู่จัดส่งเอกสาร") {
		t.Fatalf("expected delivery heading, got %q", address.Find("h2").Text())
	}
	text := address.Text()
	if !strings.Contains(text, "200") || !strings.Contains(text, "กรุงเทพมหานคร") {
		t.Fatalf("delivery address fields missing: %q", text)
	}
	if strings.Contains(text, "99/1") || strings.Contains(text, "นนทบุรี") {
		t.Fatalf("office address leaked into delivery block: %q", text)
	}
	if !strings.Contains(text, "021234567") {
		t.Fatalf("delivery phone missing: %q", text)
	}

	tags := doc.Find("#business .tags span")
	if tags.Length() != 1 || tags.First().Text() != "ผู้ผลิต" {
		t.Fatalf("business tag not localized: %q", tags.Text())
	}

	if reps := doc.Find("#representatives .box"); reps.Length() != 1 {
		t.Fatalf("expected 1 representative box, got %d", reps.Length())
	}
}

func TestRenderMissingSignaturePlaceholder(t *testing.T) {
	app := ProcessData(record.Record{"companyNameTh": "บริษัท ไร้ลายเซ็น จำกัด"}, internal.TypeOC)
	doc := renderDoc(t, app, DisplayLists{}, images.Assets{})

	missing := doc.Find(".sig-missing")
	if missing.Length() != 1 {
		t.Fatalf("expected 1 placeholder, got %d", missing.Length())
	}
	if missing.Text() != SignatureMissingCaption {
		t.Fatalf("got %q", missing.Text())
	}
	if doc.Find(".sig-box img").Length() != 0 {
		t.Fatal("broken img rendered for missing signature")
	}
}

func TestRenderEmbedsDataURLImages(t *testing.T) {
	app := ProcessData(record.Record{"companyNameTh": "บริษัท มีโลโก้ จำกัด"}, internal.TypeOC)
	assets := images.Assets{
		Logo:      "data:image/png;base64,aGVsbG8=",
		Signature: "data:image/png;base64,c2ln",
	}
	doc := renderDoc(t, app, DisplayLists{}, assets)

	src, _ := doc.Find(".header img").Attr("src")
	if !strings.HasPrefix(src, "data:image/png;base64,") {
		t.Fatalf("data URL mangled by templating: %q", src)
	}
	if sig, _ := doc.Find(".sig-box img").Attr("src"); sig != "data:image/png;base64,c2ln" {
		t.Fatalf("signature src %q", sig)
	}
}

func TestRenderOmitsEmptySections(t *testing.T) {
	app := ProcessData(record.Record{"companyNameTh": "บริษัท สั้น จำกัด"}, internal.TypeOC)
	doc := renderDoc(t, app, DisplayLists{}, images.Assets{})

	for _, id := range []string{"#industrial-groups", "#provincial-chapters", "#representatives", "#main-contact", "#business"} {
		if doc.Find(id).Length() != 0 {
			t.Fatalf("section %s rendered with no data", id)
		}
	}
}

func TestRenderGroupsWithExtraCount(t *testing.T) {
	app := ProcessData(record.Record{"companyNameTh": "บริษัท หลายกลุ่ม จำกัด"}, internal.TypeOC)
	names := make([]string, 13)
	for i := range names {
		names[i] = "กลุ่มอุตสาหกรรม"
	}
	lists := LimitDisplayLists(internal.ResolvedGroups{IndustrialGroupNames: names}, nil)
	doc := renderDoc(t, app, lists, images.Assets{})

	if rows := doc.Find("#industrial-groups .cols div"); rows.Length() != 10 {
		t.Fatalf("expected 10 rows, got %d", rows.Length())
	}
	more := doc.Find("#industrial-groups .more").Text()
	if !strings.Contains(more, "3") {
		t.Fatalf("extra count missing: %q", more)
	}
}

func TestRenderPersonCentricHeader(t *testing.T) {
	raw := record.Record{
		"prenameTh":    "อื่นๆ",
		"prenameOther": "ดร.",
		"firstNameTh":  "สมชาย",
		"lastNameTh":   "ใจดี",
		"idCard":       "1100500000001",
	}
	app := ProcessData(raw, internal.TypeIC)
	doc := renderDoc(t, app, DisplayLists{}, images.Assets{})

	if doc.Find("#company").Length() != 0 {
		t.Fatal("company block rendered for individual application")
	}
	applicant := doc.Find("#applicant").Text()
	if !strings.Contains(applicant, "ดร.สมชาย ใจดี") {
		t.Fatalf("prename substitution missing from header: %q", applicant)
	}
	if !strings.Contains(applicant, "1100500000001") {
		t.Fatalf("id card missing: %q", applicant)
	}
}
