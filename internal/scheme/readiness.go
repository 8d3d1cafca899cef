package scheme

import "strings"

const (
	DocAadhaarCard       = "Aadhaar Card"
	DocLandOwnership     = "Land Ownership Documents"
	DocIncomeCertificate = "Income Certificate"
	DocPassportPhoto     = "Passport Size Photograph"

	StatusReadyToApply        = "Ready to Apply"
	StatusAlmostReady         = "Almost Ready"
	StatusMissingKeyDocuments = "Missing Key Documents"

	almostReadyMaxMissing = 2
)

var requiredDocuments = []string{
	DocAadhaarCard,
	DocLandOwnership,
	DocIncomeCertificate,
	DocPassportPhoto,
}

// Labels farmers pick in the upload form that stand for a required document.
var documentAliases = map[string]string{
	"land ownership documents (e.g., 7/12 extract, ror)": DocLandOwnership,

	"7/12 extract": DocLandOwnership,
	"ror":          DocLandOwnership,
	"aadhaar":      DocAadhaarCard,
	"aadhar card":  DocAadhaarCard,
}

var documentGuidance = []string{
	"Ensure all names on documents match exactly.",
	"For land records, visit your local Tehsil or Taluk office.",
	"Income certificates can be obtained from the District Magistrate's office or local revenue department.",
}

// RequiredDocuments returns the documents most schemes ask for.
func RequiredDocuments() []string {
	return append([]string(nil), requiredDocuments...)
}

// CheckDocumentReadiness lists the required documents missing from userDocuments.
func CheckDocumentReadiness(userDocuments []string) DocumentReadiness {
	held := make(map[string]struct{}, len(userDocuments))
	for _, doc := range userDocuments {
		held[canonicalDocument(doc)] = struct{}{}
	}

	missing := make([]string, 0, len(requiredDocuments))
	for _, doc := range requiredDocuments {
		if _, ok := held[doc]; !ok {
			missing = append(missing, doc)
		}
	}

	alternatives := []string{}
	if len(missing) > 0 {
		alternatives = append(alternatives, documentGuidance...)
	}

	return DocumentReadiness{
		MissingDocuments:     missing,
		OptionalAlternatives: alternatives,
		ReadinessStatus:      readinessStatus(len(missing)),
	}
}

func readinessStatus(missing int) string {
	switch {
	case missing == 0:
		return StatusReadyToApply
	case missing <= almostReadyMaxMissing:
		return StatusAlmostReady
	default:
		return StatusMissingKeyDocuments
	}
}

func canonicalDocument(name string) string {
	trimmed := strings.TrimSpace(name)
	lower := strings.ToLower(trimmed)
	if alias, ok := documentAliases[lower]; ok {
		return alias
	}
	for _, doc := range requiredDocuments {
		if strings.EqualFold(trimmed, doc) {
			return doc
		}
	}
	return trimmed
}
