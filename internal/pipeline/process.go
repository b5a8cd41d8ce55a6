package pipeline

import (
	"memberdoc/internal"
	"memberdoc/internal/record"
)

// ProcessData composes every field normalizer into one canonical view of the
// application. It is pure and idempotent: the canonical spelling leads every
// alias chain, so feeding an already-canonical record back in changes
// nothing. Absent data becomes zero values, never an error.
func ProcessData(raw record.Record, memberType internal.MembershipType) internal.CanonicalApplication {
	app := internal.CanonicalApplication{Type: memberType}
	if raw == nil {
		return app
	}

	normalizeCompanyData(raw, &app)
	normalizeApplicantNames(raw, &app)
	normalizePrimaryContact(raw, &app)

	app.Address = normalizeBaseAddress(raw)
	app.Address2 = normalizeAddress2(raw)
	normalizeAddressType2Contact(raw, &app)

	app.Representatives = normalizeRepresentatives(raw)
	app.ContactPersons = normalizeContactPersons(raw)
	normalizeSignatureData(raw, &app)

	app.IndustrialGroupIDs = raw.Strings(industrialGroupIDAliases...)
	app.ProvincialChapterIDs = raw.Strings(provincialChapterIDAliases...)

	// Derived fields come last so they can see the normalized lists.
	app.AuthorizedSignatoryName = normalizeAuthorizedSignatoryName(raw, &app)
	app.AuthorizedSignatoryPosition = normalizeAuthorizedSignatoryPosition(raw, &app)
	normalizeApplicantAccount(raw, &app)

	return app
}
