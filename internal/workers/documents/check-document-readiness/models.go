package checkdocumentreadiness

type Input struct {
	UserDocuments []string `json:"userDocuments"`
}

type Output struct {
	MissingDocuments     []string `json:"missing_documents"`
	OptionalAlternatives []string `json:"optional_alternatives"`
	ReadinessStatus      string   `json:"readiness_status"`
	RequiredDocuments    []string `json:"requiredDocuments"`
}
