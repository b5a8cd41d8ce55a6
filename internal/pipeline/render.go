package pipeline

import (
	"fmt"
	"html/template"
	"strings"

	"memberdoc/internal"
	"memberdoc/internal/images"
	"memberdoc/internal/util"
)

// SignatureMissingCaption replaces the signature image when no file resolved.
const SignatureMissingCaption = "(ไม่พบไฟล์ลายเซ็น)"

var documentTitles = map[internal.MembershipType]string{
	internal.TypeIC: "ใบสมัครสมาชิกสภาอุตสาหกรรมแห่งประเทศไทย ประเภทบุคคล (IC)",
	internal.TypeOC: "ใบสมัครสมาชิกสภาอุตสาหกรรมแห่งประเทศไทย ประเภทสามัญนิติบุคคล (OC)",
	internal.TypeAC: "ใบสมัครสมาชิกสภาอุตสาหกรรมแห่งประเทศไทย ประเภทสมทบนิติบุคคล (AC)",
	internal.TypeAM: "ใบสมัครสมาชิกสภาอุตสาหกรรมแห่งประเทศไทย ประเภทสมทบสมาคม (AM)",
}

var businessTypeLabels = map[string]string{
	"manufacturer": "ผู้ผลิต",
	"distributor":  "ผู้จัดจำหน่าย",
	"exporter":     "ผู้ส่งออก",
	"importer":     "ผู้นำเข้า",
	"trader":       "ผู้ค้า",
	"service":      "ผู้ให้บริการ",
}

type addressView struct {
	internal.Address
	IsDelivery bool
	Phone      string
	PhoneExt   string
	Email      string
	Website    string
}

type repView struct {
	Name     string
	Position string
	Email    string
	Phone    string
}

type signatureBox struct {
	// template.URL so data URLs survive the template's URL sanitizer.
	Image    template.URL
	Name     string
	Position string
}

// renderView is the fully precomputed model handed to the template. All
// selection logic (which address, which contact, label mapping) happens here
// so the template stays declarative.
type renderView struct {
	Title         string
	PersonCentric bool
	HeaderName    string
	HeaderNameEn  string
	TaxID         string
	IDCard        string

	Address *addressView

	MainContact *contactView

	Representatives []repView

	BusinessTags      []string
	ShowEmployeeCount bool
	NumberOfEmployees int
	FactoryType       string

	Products      []internal.Product
	ExtraProducts int

	IndustrialGroupNames   []string
	ExtraGroups            int
	ProvincialChapterNames []string
	ExtraChapters          int

	ApplicantFullName string
	ApplicantEmail    string

	Signatures     []signatureBox
	Stamp          template.URL
	StampIsLogo    bool
	Logo           template.URL
	MissingCaption string
}

type contactView struct {
	Name     string
	Position string
	Email    string
	Phone    string
	PhoneExt string
}

// RenderHTML renders the canonical application into one self-contained HTML
// string with inline styles, ready for headless rasterization. Sections with
// no backing data are omitted rather than rendered empty.
func RenderHTML(app internal.CanonicalApplication, lists DisplayLists, assets images.Assets) (string, error) {
	view := buildRenderView(app, lists, assets)
	var buf strings.Builder
	if err := documentTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render %s document: %w", app.Type, err)
	}
	return buf.String(), nil
}

func buildRenderView(app internal.CanonicalApplication, lists DisplayLists, assets images.Assets) renderView {
	view := renderView{
		Title:         documentTitles[app.Type],
		PersonCentric: app.Type.PersonCentric(),
		TaxID:         app.TaxID,
		IDCard:        app.IDCard,

		Representatives: representativeViews(app.Representatives),
		BusinessTags:    businessTags(app.BusinessTypes),
		FactoryType:     app.FactoryType,

		Products:      lists.Products,
		ExtraProducts: lists.ExtraProducts,

		IndustrialGroupNames:   lists.IndustrialGroupNames,
		ExtraGroups:            lists.ExtraGroups,
		ProvincialChapterNames: lists.ProvincialChapterNames,
		ExtraChapters:          lists.ExtraChapters,

		ApplicantFullName: app.ApplicantFullName,
		ApplicantEmail:    app.ApplicantEmail,

		Signatures:     signatureBoxes(app, assets),
		Stamp:          template.URL(assets.Stamp),
		StampIsLogo:    assets.StampIsLogo,
		Logo:           template.URL(assets.Logo),
		MissingCaption: SignatureMissingCaption,
	}

	if view.PersonCentric {
		prename := resolvePrename(app.PrenameTh, app.PrenameOther, "th")
		view.HeaderName = util.JoinThaiName(prename, app.FirstNameTh, app.LastNameTh)
		prename = resolvePrename(app.PrenameEn, app.PrenameOther, "en")
		view.HeaderNameEn = util.JoinEnglishName(prename, app.FirstNameEn, app.LastNameEn)
	} else {
		view.HeaderName = app.CompanyNameTh
		view.HeaderNameEn = app.CompanyNameEn
		if app.NumberOfEmployees != nil {
			view.ShowEmployeeCount = true
			view.NumberOfEmployees = *app.NumberOfEmployees
		}
	}

	view.Address = pickAddressView(app)
	view.MainContact = mainContactView(app.ContactPersons)
	return view
}

// pickAddressView applies the delivery-address override: when a type "2"
// address exists it replaces the office address in the document, together
// with its own contact triplet.
func pickAddressView(app internal.CanonicalApplication) *addressView {
	if app.Address2 != nil {
		return &addressView{
			Address:    *app.Address2,
			IsDelivery: true,
			Phone:      app.AddressType2Phone,
			PhoneExt:   app.AddressType2PhoneExt,
			Email:      app.AddressType2Email,
			Website:    app.AddressType2Website,
		}
	}
	if app.Address.Empty() && app.Phone == "" && app.Email == "" {
		return nil
	}
	return &addressView{
		Address:  app.Address,
		Phone:    app.Phone,
		PhoneExt: app.PhoneExt,
		Email:    app.Email,
		Website:  app.Website,
	}
}

func mainContactView(contacts []internal.ContactPerson) *contactView {
	for _, c := range contacts {
		if !c.IsMain {
			continue
		}
		return &contactView{
			Name:     util.JoinThaiName(c.PrenameTh, c.FirstNameTh, c.LastNameTh),
			Position: c.Position,
			Email:    c.Email,
			Phone:    c.Phone,
			PhoneExt: c.PhoneExt,
		}
	}
	return nil
}

// The template truncates visually to three boxes; the underlying list keeps
// its full length for consumers outside the document.
func representativeViews(reps []internal.Representative) []repView {
	if len(reps) > 3 {
		reps = reps[:3]
	}
	out := make([]repView, 0, len(reps))
	for _, rep := range reps {
		prename := resolvePrename(rep.PrenameTh, rep.PrenameOther, "th")
		name := util.JoinThaiName(prename, rep.FirstNameTh, rep.LastNameTh)
		if name == "" {
			prename = resolvePrename(rep.PrenameEn, rep.PrenameOther, "en")
			name = util.JoinEnglishName(prename, rep.FirstNameEn, rep.LastNameEn)
		}
		if name == "" {
			continue
		}
		out = append(out, repView{
			Name:     name,
			Position: util.FirstNonEmpty(rep.PositionTh, rep.PositionEn),
			Email:    rep.Email,
			Phone:    rep.Phone,
		})
	}
	return out
}

func businessTags(types []string) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		key := strings.ToLower(strings.TrimSpace(t))
		if label, ok := businessTypeLabels[key]; ok {
			out = append(out, label)
			continue
		}
		if strings.TrimSpace(t) != "" {
			out = append(out, strings.TrimSpace(t))
		}
	}
	return out
}

// signatureBoxes produces one box per signatory on multi-signatory forms, or
// a single shared box on legacy forms. A box with an empty Image renders the
// missing-file caption.
func signatureBoxes(app internal.CanonicalApplication, assets images.Assets) []signatureBox {
	if len(app.AuthorizedSignatures) > 0 {
		boxes := make([]signatureBox, 0, len(app.AuthorizedSignatures))
		for i := range app.AuthorizedSignatures {
			box := signatureBox{
				Name:     app.AuthorizedSignatoryName,
				Position: app.AuthorizedSignatoryPosition,
			}
			if i < len(assets.Signatures) {
				box.Image = template.URL(assets.Signatures[i])
			}
			if i < len(app.Signatories) {
				s := app.Signatories[i]
				if name := util.JoinThaiName(s.PrenameTh, s.FirstNameTh, s.LastNameTh); name != "" {
					box.Name = name
				} else if name := util.JoinEnglishName(s.PrenameEn, s.FirstNameEn, s.LastNameEn); name != "" {
					box.Name = name
				}
				if pos := util.FirstNonEmpty(s.PositionTh, s.PositionEn); pos != "" {
					box.Position = pos
				}
			}
			boxes = append(boxes, box)
		}
		return boxes
	}

	return []signatureBox{{
		Image:    template.URL(assets.Signature),
		Name:     app.AuthorizedSignatoryName,
		Position: app.AuthorizedSignatoryPosition,
	}}
}

var documentTemplate = template.Must(template.New("membership").Parse(`<!DOCTYPE html>
<html lang="th">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  @page { size: A4; margin: 14mm 12mm; }
  * { box-sizing: border-box; }
  body { font-family: "Sarabun", "TH Sarabun New", "Noto Sans Thai", sans-serif; font-size: 13px; color: #1a1a1a; margin: 0; }
  .header { display: flex; align-items: center; gap: 12px; border-bottom: 2px solid #12467f; padding-bottom: 8px; }
  .header img { height: 52px; }
  .header h1 { font-size: 16px; margin: 0; color: #12467f; }
  .section { margin-top: 12px; page-break-inside: avoid; }
  .section h2 { font-size: 13px; margin: 0 0 6px; padding: 3px 8px; background: #eef3f9; border-left: 3px solid #12467f; }
  .field { margin: 2px 0; }
  .field .label { color: #555; margin-right: 6px; }
  .grid { display: grid; grid-template-columns: repeat(3, 1fr); gap: 8px; }
  .box { border: 1px solid #ccd5e0; border-radius: 4px; padding: 6px 8px; }
  .tags span { display: inline-block; border: 1px solid #12467f; border-radius: 10px; padding: 1px 10px; margin: 1px 4px 1px 0; }
  .cols { display: grid; grid-template-columns: 1fr 1fr; gap: 0 16px; }
  .cols div { padding: 1px 0; }
  .more { color: #555; font-style: italic; margin-top: 2px; }
  .signatures { display: grid; grid-template-columns: repeat(auto-fit, minmax(160px, 1fr)); gap: 10px; margin-top: 8px; }
  .sig-box { border: 1px solid #ccd5e0; border-radius: 4px; padding: 8px; text-align: center; page-break-inside: avoid; }
  .sig-box img { max-height: 64px; max-width: 100%; }
  .sig-missing { color: #888; padding: 24px 0; }
  .sig-name { margin-top: 4px; font-weight: bold; }
  .sig-position { color: #555; font-size: 12px; }
</style>
</head>
<body>
<div class="header">
  {{if .Logo}}<img src="{{.Logo}}" alt="">{{end}}
  <h1>{{.Title}}</h1>
</div>

{{if .PersonCentric}}
<div class="section" id="applicant">
  <h2>ข้อมูลผู้สมัคร</h2>
  <div class="field"><span class="label">ชื่อ-นามสกุล</span>{{.HeaderName}}</div>
  {{if .HeaderNameEn}}<div class="field"><span class="label">Name</span>{{.HeaderNameEn}}</div>{{end}}
  {{if .IDCard}}<div class="field"><span class="label">เลขบัตรประชาชน</span>{{.IDCard}}</div>{{end}}
</div>
{{else}}
<div class="section" id="company">
  <h2>ข้อมูลกิจการ</h2>
  <div class="field"><span class="label">ชื่อ (ไทย)</span>{{.HeaderName}}</div>
  {{if .HeaderNameEn}}<div class="field"><span class="label">ชื่อ (อังกฤษ)</span>{{.HeaderNameEn}}</div>{{end}}
  {{if .TaxID}}<div class="field"><span class="label">เลขประจำตัวผู้เสียภาษี</span>{{.TaxID}}</div>{{end}}
  {{if .FactoryType}}<div class="field"><span class="label">ประเภทโรงงาน</span>{{.FactoryType}}</div>{{end}}
</div>
{{end}}

{{with .Address}}
<div class="section" id="address">
  <h2>{{if .IsDelivery}}ที่อยู่จัดส่งเอกสาร{{else}}ที่อยู่สำนักงาน{{end}}</h2>
  <div class="field">
    {{if .AddressNumber}}เลขที่ {{.AddressNumber}} {{end}}{{if .Moo}}หมู่ {{.Moo}} {{end}}{{if .Soi}}ซอย {{.Soi}} {{end}}{{if .Street}}ถนน {{.Street}} {{end}}{{if .SubDistrict}}ตำบล/แขวง {{.SubDistrict}} {{end}}{{if .District}}อำเภอ/เขต {{.District}} {{end}}{{if .Province}}จังหวัด {{.Province}} {{end}}{{.PostalCode}}
  </div>
  {{if .Phone}}<div class="field"><span class="label">โทรศัพท์</span>{{.Phone}}{{if .PhoneExt}} ต่อ {{.PhoneExt}}{{end}}</div>{{end}}
  {{if .Email}}<div class="field"><span class="label">อีเมล</span>{{.Email}}</div>{{end}}
  {{if .Website}}<div class="field"><span class="label">เว็บไซต์</span>{{.Website}}</div>{{end}}
</div>
{{end}}

{{with .MainContact}}
<div class="section" id="main-contact">
  <h2>ผู้ประสานงานหลัก</h2>
  <div class="field">{{.Name}}{{if .Position}} ({{.Position}}){{end}}</div>
  {{if .Phone}}<div class="field"><span class="label">โทรศัพท์</span>{{.Phone}}{{if .PhoneExt}} ต่อ {{.PhoneExt}}{{end}}</div>{{end}}
  {{if .Email}}<div class="field"><span class="label">อีเมล</span>{{.Email}}</div>{{end}}
</div>
{{end}}

{{if .Representatives}}
<div class="section" id="representatives">
  <h2>ผู้แทน</h2>
  <div class="grid">
    {{range .Representatives}}
    <div class="box">
      <div class="field">{{.Name}}</div>
      {{if .Position}}<div class="field"><span class="label">ตำแหน่ง</span>{{.Position}}</div>{{end}}
      {{if .Email}}<div class="field">{{.Email}}</div>{{end}}
      {{if .Phone}}<div class="field">{{.Phone}}</div>{{end}}
    </div>
    {{end}}
  </div>
</div>
{{end}}

{{if or .BusinessTags .ShowEmployeeCount .Products}}
<div class="section" id="business">
  <h2>ข้อมูลธุรกิจ</h2>
  {{if .BusinessTags}}<div class="field tags">{{range .BusinessTags}}<span>{{.}}</span>{{end}}</div>{{end}}
  {{if .ShowEmployeeCount}}<div class="field"><span class="label">จำนวนพนักงาน</span>{{.NumberOfEmployees}} คน</div>{{end}}
  {{if .Products}}
  <div class="cols">
    {{range .Products}}<div>{{.NameTh}}{{if and .NameTh .NameEn}} / {{end}}{{.NameEn}}</div>{{end}}
  </div>
  {{if .ExtraProducts}}<div class="more">และอีก {{.ExtraProducts}} รายการ</div>{{end}}
  {{end}}
</div>
{{end}}

{{if .IndustrialGroupNames}}
<div class="section" id="industrial-groups">
  <h2>กลุ่มอุตสาหกรรม</h2>
  <div class="cols">{{range .IndustrialGroupNames}}<div>{{.}}</div>{{end}}</div>
  {{if .ExtraGroups}}<div class="more">และอีก {{.ExtraGroups}} กลุ่ม</div>{{end}}
</div>
{{end}}

{{if .ProvincialChapterNames}}
<div class="section" id="provincial-chapters">
  <h2>สภาอุตสาหกรรมจังหวัด</h2>
  <div class="cols">{{range .ProvincialChapterNames}}<div>{{.}}</div>{{end}}</div>
  {{if .ExtraChapters}}<div class="more">และอีก {{.ExtraChapters}} จังหวัด</div>{{end}}
</div>
{{end}}

{{if .ApplicantFullName}}
<div class="section" id="applicant-account">
  <h2>ผู้ยื่นใบสมัคร</h2>
  <div class="field">{{.ApplicantFullName}}{{if .ApplicantEmail}} ({{.ApplicantEmail}}){{end}}</div>
</div>
{{end}}

<div class="section" id="signature-area">
  <h2>ลายมือชื่อผู้มีอำนาจ</h2>
  <div class="signatures">
    {{range .Signatures}}
    <div class="sig-box">
      {{if .Image}}<img src="{{.Image}}" alt="">{{else}}<div class="sig-missing">{{$.MissingCaption}}</div>{{end}}
      <div class="sig-name">{{.Name}}</div>
      {{if .Position}}<div class="sig-position">{{.Position}}</div>{{end}}
    </div>
    {{end}}
    {{if .Stamp}}
    <div class="sig-box">
      <img src="{{.Stamp}}" alt="">
      <div class="sig-position">{{if .StampIsLogo}}ตราสัญลักษณ์{{else}}ตราประทับบริษัท{{end}}</div>
    </div>
    {{end}}
  </div>
</div>
</body>
</html>
`))
