package internal

type MembershipType string

const (
	TypeIC MembershipType = "ic"
	TypeOC MembershipType = "oc"
	TypeAC MembershipType = "ac"
	TypeAM MembershipType = "am"
)

func (t MembershipType) Valid() bool {
	switch t {
	case TypeIC, TypeOC, TypeAC, TypeAM:
		return true
	}
	return false
}

// PersonCentric reports whether the application belongs to an individual
// rather than a juristic entity.
func (t MembershipType) PersonCentric() bool {
	return t == TypeIC
}

type FileRef struct {
	FileURL  string `json:"fileUrl"`
	MimeType string `json:"mimeType"`
	FileName string `json:"fileName"`
}

type Address struct {
	AddressNumber string
	Moo           string
	Soi           string
	Street        string
	SubDistrict   string
	District      string
	Province      string
	PostalCode    string
}

func (a Address) Empty() bool {
	return a.AddressNumber == "" && a.Moo == "" && a.Soi == "" && a.Street == "" &&
		a.SubDistrict == "" && a.District == "" && a.Province == "" && a.PostalCode == ""
}

type Representative struct {
	PrenameTh    string
	PrenameEn    string
	PrenameOther string
	FirstNameTh  string
	LastNameTh   string
	FirstNameEn  string
	LastNameEn   string
	PositionTh   string
	PositionEn   string
	Email        string
	Phone        string
}

type Signatory struct {
	PrenameTh   string
	FirstNameTh string
	LastNameTh  string
	PrenameEn   string
	FirstNameEn string
	LastNameEn  string
	PositionTh  string
	PositionEn  string
}

type ContactPerson struct {
	PrenameTh       string
	FirstNameTh     string
	LastNameTh      string
	Position        string
	Email           string
	Phone           string
	PhoneExt        string
	IsMain          bool
	TypeContactID   int
	TypeContactName string
}

type Product struct {
	NameTh string
	NameEn string
}

// CanonicalApplication is the normalized view of one membership application.
// It is built fresh per generation request and never persisted.
type CanonicalApplication struct {
	Type MembershipType

	CompanyNameTh string
	CompanyNameEn string
	TaxID         string

	// IC applicant identity.
	PrenameTh    string
	PrenameEn    string
	PrenameOther string
	FirstNameTh  string
	LastNameTh   string
	FirstNameEn  string
	LastNameEn   string
	IDCard       string

	NumberOfEmployees *int
	FactoryType       string
	BusinessTypes     []string
	Products          []Product

	Address  Address
	Address2 *Address

	Phone    string
	PhoneExt string
	Email    string
	Website  string

	AddressType2Phone    string
	AddressType2PhoneExt string
	AddressType2Email    string
	AddressType2Website  string

	Representatives []Representative
	ContactPersons  []ContactPerson
	Signatories     []Signatory

	IndustrialGroupIDs   []string
	ProvincialChapterIDs []string

	AuthorizedSignature  *FileRef
	CompanyStamp         *FileRef
	AuthorizedSignatures []*FileRef

	AuthorizedSignatoryName     string
	AuthorizedSignatoryPosition string

	ApplicantFullName string
	ApplicantEmail    string
}

// PrimaryName is the name used in document titles and filenames: the Thai
// company name, then English, then the IC applicant's own name.
func (c CanonicalApplication) PrimaryName() string {
	if c.CompanyNameTh != "" {
		return c.CompanyNameTh
	}
	if c.CompanyNameEn != "" {
		return c.CompanyNameEn
	}
	if c.FirstNameTh != "" || c.LastNameTh != "" {
		name := c.FirstNameTh
		if c.LastNameTh != "" {
			if name != "" {
				name += " "
			}
			name += c.LastNameTh
		}
		return name
	}
	return "member"
}

// ResolvedGroups carries the display names produced by the group resolver.
// Empty slices mean the section is omitted from the document entirely.
type ResolvedGroups struct {
	IndustrialGroupNames   []string
	ProvincialChapterNames []string
}

type DocumentStatus string

const (
	DocumentGenerated DocumentStatus = "generated"
	DocumentDelivered DocumentStatus = "delivered"
	DocumentFailed    DocumentStatus = "failed"
)

type DocumentRow struct {
	ID           int64
	TraceID      string
	MemberType   string
	ApplicantRef string
	Email        string
	Filename     string
	FilePath     string
	Status       string
	ErrorMessage string
	CreatedAt    string
}

// GenerateResult is the structured outcome of one PDF generation. Failures
// are reported here, never as panics.
type GenerateResult struct {
	Success  bool   `json:"success"`
	Filename string `json:"filename,omitempty"`
	Path     string `json:"path,omitempty"`
	Error    string `json:"error,omitempty"`

	// Row id in the documents log, 0 when no database is attached.
	DocumentID int64 `json:"-"`
}

// DeliveryRequest is one outbound email carrying a generated document.
type DeliveryRequest struct {
	To       string
	Subject  string
	Body     string
	Filename string
	PDF      []byte
}

// GroupEntry is one row of a federation registry (industrial groups or
// provincial chapters), as synced from the API or imported from XLSX.
type GroupEntry struct {
	ID      string
	Code    string
	NameTh  string
	NameEn  string
	RawJSON string
}
