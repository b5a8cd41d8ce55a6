package pipeline

import (
	"strings"

	"memberdoc/internal"
	"memberdoc/internal/record"
	"memberdoc/internal/util"
)

// Ordered alias probes, one list per canonical concept. First truthy value
// wins, values are never merged. Canonical spellings lead each list so a
// record that is already normalized passes through unchanged. The lists grew
// out of real inconsistent data and get extended empirically.
var (
	companyNameThAliases   = []string{"companyNameTh", "company_name_th", "companyName", "company_name", "nameTh", "name_th"}
	companyNameThFallbacks = []string{"associationName", "association_name", "associationNameTh", "juristicNameTh"}

	companyNameEnAliases   = []string{"companyNameEn", "company_name_en", "companyNameEng", "nameEn", "name_en"}
	companyNameEnFallbacks = []string{"associationNameEn", "association_name_en", "juristicNameEn"}

	taxIDAliases = []string{"taxId", "tax_id", "taxNumber", "tax_number", "juristicId", "juristic_id"}

	employeeCountAliases = []string{"numberOfEmployees", "number_of_employees", "numberOfEmployee", "employeeCount", "employee_count"}
	factoryTypeAliases   = []string{"factoryType", "factory_type", "typeFactory"}

	prenameThAliases    = []string{"prenameTh", "prename_th", "prename", "titleTh", "title_th"}
	prenameEnAliases    = []string{"prenameEn", "prename_en", "titleEn", "title_en"}
	prenameOtherAliases = []string{"prenameOther", "prename_other", "prenameEtc", "otherPrename"}
	firstNameThAliases  = []string{"firstNameTh", "first_name_th", "firstnameTh", "firstName", "first_name", "firstname"}
	lastNameThAliases   = []string{"lastNameTh", "last_name_th", "lastnameTh", "lastName", "last_name", "lastname"}
	firstNameEnAliases  = []string{"firstNameEn", "first_name_en", "firstnameEn"}
	lastNameEnAliases   = []string{"lastNameEn", "last_name_en", "lastnameEn"}
	idCardAliases       = []string{"idCard", "id_card", "idCardNumber", "id_card_number", "citizenId", "citizen_id"}

	phoneAliases    = []string{"phone", "phoneNumber", "phone_number", "tel", "telephone"}
	phoneExtAliases = []string{"phoneExt", "phone_ext", "phoneExtension", "telExt", "tel_ext"}
	emailAliases    = []string{"email", "e_mail", "emailAddress", "email_address"}
	websiteAliases  = []string{"website", "web_site", "webSite", "url"}

	industrialGroupIDAliases   = []string{"industrialGroupIds", "industrial_group_ids", "industryGroupIds", "industry_group_ids", "industrialGroups", "memberGroupCodes"}
	provincialChapterIDAliases = []string{"provincialChapterIds", "provincial_chapter_ids", "provinceChapterIds", "province_chapter_ids", "provincialChapters"}
)

// Per-entry probes inside addresses, representatives, contacts and documents.
var (
	addressNumberAliases = []string{"addressNumber", "address_number", "addressNo", "address_no", "no"}
	mooAliases           = []string{"moo", "mooNo", "moo_no", "villageNo", "village_no"}
	soiAliases           = []string{"soi", "lane"}
	streetAliases        = []string{"street", "road", "thanon"}
	subDistrictAliases   = []string{"subDistrict", "sub_district", "subdistrict", "tambon"}
	districtAliases      = []string{"district", "amphur", "amphoe"}
	provinceAliases      = []string{"province", "changwat"}
	postalCodeAliases    = []string{"postalCode", "postal_code", "zipcode", "zipCode", "zip_code"}

	positionThAliases = []string{"positionTh", "position_th", "position", "jobTitle", "job_title"}
	positionEnAliases = []string{"positionEn", "position_en"}

	fileURLAliases  = []string{"fileUrl", "file_url", "fileURL", "url", "path"}
	mimeTypeAliases = []string{"mimeType", "mime_type", "contentType", "content_type"}
	fileNameAliases = []string{"fileName", "file_name", "originalName", "original_name", "name"}

	documentTypeFieldAliases = []string{"document_type", "documentType", "docType", "doc_type", "type"}
)

// documentTypeAliases maps each canonical document concept to every
// document_type spelling observed in production exports. Matching is done on
// util.NormalizeKey forms, so case and separators never matter.
var documentTypeAliases = map[string][]string{
	"authorizedSignature": {
		"authorizedSignature", "authorized_signature", "authorized_signatures",
		"authorizedSign", "signature", "signatures", "sign",
		"ic_signature", "member_signature", "memberSignature",
	},
	"companyStamp": {
		"companyStamp", "company_stamp", "stamp", "companySeal", "corporate_seal", "seal",
	},
}

// FallbackSignatoryName is rendered when no signatory, representative or
// applicant name resolves at all.
const FallbackSignatoryName = "ผู้มีอำนาจลงนาม"

func normalizeCompanyData(r record.Record, app *internal.CanonicalApplication) {
	app.CompanyNameTh = pickWithPlaceholderFallback(r, companyNameThAliases, companyNameThFallbacks)
	app.CompanyNameEn = pickWithPlaceholderFallback(r, companyNameEnAliases, companyNameEnFallbacks)
	app.TaxID = r.String(taxIDAliases...)
	app.NumberOfEmployees = r.Int(employeeCountAliases...)
	app.FactoryType = r.String(factoryTypeAliases...)
	app.BusinessTypes = normalizeBusinessTypes(r)
	app.Products = normalizeProducts(r)
}

// pickWithPlaceholderFallback runs the primary alias chain, and when the
// winner is the "-" placeholder some historical records carry, tries the
// fallback chain before settling for the placeholder.
func pickWithPlaceholderFallback(r record.Record, primary, fallback []string) string {
	v := r.String(primary...)
	if v != "" && v != "-" {
		return v
	}
	if alt := r.String(fallback...); alt != "" && alt != "-" {
		return alt
	}
	return v
}

func normalizeBusinessTypes(r record.Record) []string {
	if types := r.Strings("businessTypes", "business_types", "businessType"); len(types) > 0 {
		return types
	}
	var out []string
	for _, entry := range r.Slice("businessTypes", "business_types") {
		if name := entry.String("name", "businessTypeName", "business_type_name", "nameTh"); name != "" {
			out = append(out, name)
		}
	}
	return out
}

func normalizeProducts(r record.Record) []internal.Product {
	var out []internal.Product
	for _, entry := range r.Slice("products", "product_list", "memberProducts") {
		p := internal.Product{
			NameTh: entry.String("nameTh", "name_th", "productNameTh", "product_name_th", "name"),
			NameEn: entry.String("nameEn", "name_en", "productNameEn", "product_name_en"),
		}
		if p.NameTh != "" || p.NameEn != "" {
			out = append(out, p)
		}
	}
	if out == nil {
		for _, name := range r.Strings("products", "product_list") {
			out = append(out, internal.Product{NameTh: name})
		}
	}
	return out
}

func normalizeApplicantNames(r record.Record, app *internal.CanonicalApplication) {
	app.PrenameTh = r.String(prenameThAliases...)
	app.PrenameEn = r.String(prenameEnAliases...)
	app.PrenameOther = r.String(prenameOtherAliases...)
	app.FirstNameTh = r.String(firstNameThAliases...)
	app.LastNameTh = r.String(lastNameThAliases...)
	app.FirstNameEn = r.String(firstNameEnAliases...)
	app.LastNameEn = r.String(lastNameEnAliases...)
	app.IDCard = r.String(idCardAliases...)
}

// normalizeBaseAddress tries flat fields first, then the nested address
// object, and finally the addresses collection where the office address is
// the entry tagged address_type "1" (or the first entry lacking tags).
func normalizeBaseAddress(r record.Record) internal.Address {
	addr := addressFromRecord(r, "address.")
	if !addr.Empty() {
		return addr
	}

	entries := addressEntries(r)
	if len(entries) == 0 {
		return addr
	}
	entry := findAddressByType(entries, "1")
	if entry == nil {
		entry = entries[0]
	}
	return addressFromRecord(entry, "")
}

// normalizeAddress2 returns the document-delivery address, present only when
// an entry is explicitly tagged address_type "2". No first-entry fallback:
// absence means the office address doubles as the delivery address.
func normalizeAddress2(r record.Record) *internal.Address {
	if nested := r.Map("address2", "addressType2", "documentDeliveryAddress"); nested != nil {
		addr := addressFromRecord(nested, "")
		if !addr.Empty() {
			return &addr
		}
	}

	entry := findAddressByType(addressEntries(r), "2")
	if entry == nil {
		return nil
	}
	addr := addressFromRecord(entry, "")
	if addr.Empty() {
		return nil
	}
	return &addr
}

// normalizeAddressType2Contact pulls the delivery address's own contact
// triplet. These are deliberately separate fields: the delivery address has
// its own phone, email and website that never blend with the primary ones.
func normalizeAddressType2Contact(r record.Record, app *internal.CanonicalApplication) {
	app.AddressType2Phone = r.String("addressType2Phone", "address_type2_phone")
	app.AddressType2PhoneExt = r.String("addressType2PhoneExt", "address_type2_phone_ext")
	app.AddressType2Email = r.String("addressType2Email", "address_type2_email")
	app.AddressType2Website = r.String("addressType2Website", "address_type2_website")

	if app.AddressType2Phone != "" || app.AddressType2Email != "" || app.AddressType2Website != "" {
		return
	}
	entry := findAddressByType(addressEntries(r), "2")
	if entry == nil {
		if entry = r.Map("address2", "addressType2", "documentDeliveryAddress"); entry == nil {
			return
		}
	}
	app.AddressType2Phone = entry.String(phoneAliases...)
	app.AddressType2PhoneExt = entry.String(phoneExtAliases...)
	app.AddressType2Email = entry.String(emailAliases...)
	app.AddressType2Website = entry.String(websiteAliases...)
}

func addressEntries(r record.Record) []record.Record {
	for _, key := range []string{"addresses", "memberAddresses", "member_addresses"} {
		if entries := r.TaggedList(key, "address_type"); len(entries) > 0 {
			return entries
		}
	}
	return nil
}

func findAddressByType(entries []record.Record, addressType string) record.Record {
	for _, entry := range entries {
		if entry.String("address_type", "addressType", "type") == addressType {
			return entry
		}
	}
	return nil
}

func addressFromRecord(r record.Record, nestedPrefix string) internal.Address {
	probe := func(aliases []string) string {
		if v := r.String(aliases...); v != "" {
			return v
		}
		if nestedPrefix == "" {
			return ""
		}
		nested := make([]string, len(aliases))
		for i, a := range aliases {
			nested[i] = nestedPrefix + a
		}
		return r.String(nested...)
	}
	return internal.Address{
		AddressNumber: probe(addressNumberAliases),
		Moo:           probe(mooAliases),
		Soi:           probe(soiAliases),
		Street:        probe(streetAliases),
		SubDistrict:   probe(subDistrictAliases),
		District:      probe(districtAliases),
		Province:      probe(provinceAliases),
		PostalCode:    probe(postalCodeAliases),
	}
}

func normalizePrimaryContact(r record.Record, app *internal.CanonicalApplication) {
	app.Phone = r.String(phoneAliases...)
	app.PhoneExt = r.String(phoneExtAliases...)
	app.Email = r.String(emailAliases...)
	app.Website = r.String(websiteAliases...)
}

// normalizeSignatureData locates the legacy single signature and the company
// stamp inside the documents collection by matching document_type against the
// alias table, and surfaces the multi-signatory signature list.
func normalizeSignatureData(r record.Record, app *internal.CanonicalApplication) {
	docs := documentEntries(r)

	matches := matchDocuments(docs, "authorizedSignature")
	if len(matches) > 0 {
		app.AuthorizedSignature = matches[0]
	}
	if stamps := matchDocuments(docs, "companyStamp"); len(stamps) > 0 {
		app.CompanyStamp = stamps[0]
	}

	app.AuthorizedSignatures = fileRefList(r, "authorizedSignatures", "authorized_signatures")
	if app.AuthorizedSignatures == nil && len(matches) > 1 {
		app.AuthorizedSignatures = matches
	}

	app.Signatories = normalizeSignatories(r)
}

func documentEntries(r record.Record) []record.Record {
	for _, key := range []string{"documents", "memberDocuments", "member_documents", "attachments"} {
		if entries := r.TaggedList(key, "document_type"); len(entries) > 0 {
			return entries
		}
	}
	return nil
}

func matchDocuments(docs []record.Record, concept string) []*internal.FileRef {
	wanted := make(map[string]bool, len(documentTypeAliases[concept]))
	for _, alias := range documentTypeAliases[concept] {
		wanted[util.NormalizeKey(alias)] = true
	}

	var out []*internal.FileRef
	for _, doc := range docs {
		docType := doc.String(documentTypeFieldAliases...)
		if !wanted[util.NormalizeKey(docType)] {
			continue
		}
		if ref := fileRefFromRecord(doc); ref != nil {
			out = append(out, ref)
		}
	}
	return out
}

func fileRefFromRecord(r record.Record) *internal.FileRef {
	ref := internal.FileRef{
		FileURL:  r.String(fileURLAliases...),
		MimeType: r.String(mimeTypeAliases...),
		FileName: r.String(fileNameAliases...),
	}
	if ref.FileURL == "" {
		return nil
	}
	return &ref
}

func fileRefList(r record.Record, keys ...string) []*internal.FileRef {
	for _, key := range keys {
		entries := r.TaggedList(key, "document_type")
		if len(entries) == 0 {
			continue
		}
		out := make([]*internal.FileRef, len(entries))
		for i, entry := range entries {
			out[i] = fileRefFromRecord(entry)
		}
		return out
	}
	return nil
}

func normalizeSignatories(r record.Record) []internal.Signatory {
	entries := r.Slice("signatories", "signatory_list")
	if entries == nil {
		if single := r.Map("signatory"); single != nil {
			entries = []record.Record{single}
		}
	}
	var out []internal.Signatory
	for _, entry := range entries {
		s := internal.Signatory{
			PrenameTh:   entry.String(prenameThAliases...),
			FirstNameTh: entry.String(firstNameThAliases...),
			LastNameTh:  entry.String(lastNameThAliases...),
			PrenameEn:   entry.String(prenameEnAliases...),
			FirstNameEn: entry.String(firstNameEnAliases...),
			LastNameEn:  entry.String(lastNameEnAliases...),
			PositionTh:  entry.String(positionThAliases...),
			PositionEn:  entry.String(positionEnAliases...),
		}
		if s.FirstNameTh != "" || s.FirstNameEn != "" || s.PositionTh != "" {
			out = append(out, s)
		}
	}
	return out
}

// normalizeRepresentatives accepts either a representatives array or the
// singular representative object individual applications use.
func normalizeRepresentatives(r record.Record) []internal.Representative {
	entries := r.Slice("representatives", "reps")
	if entries == nil {
		if single := r.Map("representative", "rep"); single != nil {
			entries = []record.Record{single}
		}
	}
	var out []internal.Representative
	for _, entry := range entries {
		rep := internal.Representative{
			PrenameTh:    entry.String(prenameThAliases...),
			PrenameEn:    entry.String(prenameEnAliases...),
			PrenameOther: entry.String(prenameOtherAliases...),
			FirstNameTh:  entry.String(firstNameThAliases...),
			LastNameTh:   entry.String(lastNameThAliases...),
			FirstNameEn:  entry.String(firstNameEnAliases...),
			LastNameEn:   entry.String(lastNameEnAliases...),
			PositionTh:   entry.String(positionThAliases...),
			PositionEn:   entry.String(positionEnAliases...),
			Email:        entry.String(emailAliases...),
			Phone:        entry.String(phoneAliases...),
		}
		if rep.FirstNameTh != "" || rep.FirstNameEn != "" || rep.Email != "" {
			out = append(out, rep)
		}
	}
	return out
}

func normalizeContactPersons(r record.Record) []internal.ContactPerson {
	var out []internal.ContactPerson
	for _, entry := range r.Slice("contactPersons", "contact_persons", "contacts") {
		typeID := 0
		if n := entry.Int("typeContactId", "type_contact_id", "contactTypeId"); n != nil {
			typeID = *n
		}
		typeName := entry.String("typeContactName", "type_contact_name", "contactTypeName")
		c := internal.ContactPerson{
			PrenameTh:       entry.String(prenameThAliases...),
			FirstNameTh:     entry.String(firstNameThAliases...),
			LastNameTh:      entry.String(lastNameThAliases...),
			Position:        entry.String(positionThAliases...),
			Email:           entry.String(emailAliases...),
			Phone:           entry.String(phoneAliases...),
			PhoneExt:        entry.String(phoneExtAliases...),
			TypeContactID:   typeID,
			TypeContactName: typeName,
		}
		c.IsMain = entry.Bool("isMain", "is_main") || typeID == 1 || strings.Contains(typeName, "หลัก")
		if c.FirstNameTh != "" || c.Email != "" || c.Phone != "" {
			out = append(out, c)
		}
	}
	return out
}

// normalizeAuthorizedSignatoryName computes the display name for the
// signature caption: explicit signatory fields in Thai, then English, the
// applicant's own name on individual applications, the first representative,
// and finally a fixed Thai fallback literal.
func normalizeAuthorizedSignatoryName(r record.Record, app *internal.CanonicalApplication) string {
	if v := r.String("authorizedSignatoryName", "authorized_signatory_name"); v != "" {
		return v
	}

	if len(app.Signatories) > 0 {
		s := app.Signatories[0]
		if name := util.JoinThaiName(s.PrenameTh, s.FirstNameTh, s.LastNameTh); name != "" {
			return name
		}
		if name := util.JoinEnglishName(s.PrenameEn, s.FirstNameEn, s.LastNameEn); name != "" {
			return name
		}
	}

	if app.Type.PersonCentric() {
		prename := resolvePrename(app.PrenameTh, app.PrenameOther, "th")
		if name := util.JoinThaiName(prename, app.FirstNameTh, app.LastNameTh); name != "" {
			return name
		}
		prename = resolvePrename(app.PrenameEn, app.PrenameOther, "en")
		if name := util.JoinEnglishName(prename, app.FirstNameEn, app.LastNameEn); name != "" {
			return name
		}
	}

	if len(app.Representatives) > 0 {
		rep := app.Representatives[0]
		prename := resolvePrename(rep.PrenameTh, rep.PrenameOther, "th")
		if name := util.JoinThaiName(prename, rep.FirstNameTh, rep.LastNameTh); name != "" {
			return name
		}
		prename = resolvePrename(rep.PrenameEn, rep.PrenameOther, "en")
		if name := util.JoinEnglishName(prename, rep.FirstNameEn, rep.LastNameEn); name != "" {
			return name
		}
	}

	return FallbackSignatoryName
}

func normalizeAuthorizedSignatoryPosition(r record.Record, app *internal.CanonicalApplication) string {
	if v := r.String("authorizedSignatoryPosition", "authorized_signatory_position"); v != "" {
		return v
	}
	if len(app.Signatories) > 0 {
		if pos := util.FirstNonEmpty(app.Signatories[0].PositionTh, app.Signatories[0].PositionEn); pos != "" {
			return pos
		}
	}
	if len(app.Representatives) > 0 {
		return util.FirstNonEmpty(app.Representatives[0].PositionTh, app.Representatives[0].PositionEn)
	}
	return ""
}

// normalizeApplicantAccount pulls the submitting user's identity out of
// whichever container the backend put it in, falling back to the
// application's own applicant name.
func normalizeApplicantAccount(r record.Record, app *internal.CanonicalApplication) {
	if v := r.String("applicantFullName", "applicant_full_name"); v != "" {
		app.ApplicantFullName = v
		app.ApplicantEmail = util.FirstNonEmpty(r.String("applicantEmail", "applicant_email"), app.Email)
		return
	}

	account := r.Map("user", "account", "applicant", "createdBy", "created_by", "owner")
	if account != nil {
		first := account.String("firstname", "first_name", "firstName")
		last := account.String("lastname", "last_name", "lastName")
		name := util.JoinEnglishName("", first, last)
		if name == "" {
			name = account.String("fullName", "full_name", "displayName", "name")
		}
		if name != "" {
			app.ApplicantFullName = name
			app.ApplicantEmail = util.FirstNonEmpty(account.String(emailAliases...), app.Email)
			return
		}
	}

	prename := resolvePrename(app.PrenameTh, app.PrenameOther, "th")
	name := util.JoinThaiName(prename, app.FirstNameTh, app.LastNameTh)
	if name == "" {
		prename = resolvePrename(app.PrenameEn, app.PrenameOther, "en")
		name = util.JoinEnglishName(prename, app.FirstNameEn, app.LastNameEn)
	}
	app.ApplicantFullName = name
	app.ApplicantEmail = app.Email
}

// resolvePrename substitutes the free-text "other" value when the selected
// prename is the generic placeholder for the target language.
func resolvePrename(prename, prenameOther, lang string) string {
	trimmed := strings.TrimSpace(prename)
	switch lang {
	case "th":
		if trimmed == "อื่นๆ" || trimmed == "อื่น ๆ" {
			return prenameOther
		}
	default:
		if strings.EqualFold(trimmed, "other") {
			return prenameOther
		}
	}
	return prename
}
